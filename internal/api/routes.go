package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chatbot_rag/internal/api/handlers"
	"chatbot_rag/internal/metrics"
	"chatbot_rag/internal/middleware"
	"chatbot_rag/internal/service"
)

// Options 是建立路由所需的相依物件
type Options struct {
	Chat      handlers.ChatService
	History   handlers.HistoryService
	Config    handlers.ConfigService
	WebSocket *service.WebSocketService
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
	JWTSecret string
}

// NewRouter 建立套用預設中間件的 gin 引擎
func NewRouter(opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		middleware.RequestID(),
		middleware.Logger(opts.Logger),
		middleware.Metrics(opts.Metrics),
		gin.CustomRecovery(handlers.Recovery),
		cors.New(corsConfig()),
	)
	SetupRoutes(r, opts)
	return r
}

// corsConfig 允許任意來源，並放行管理路由需要的 Authorization 與請求 ID
func corsConfig() cors.Config {
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader}
	config.ExposeHeaders = []string{middleware.RequestIDHeader}
	return config
}

func SetupRoutes(r *gin.Engine, opts Options) {
	// 初始化 handlers
	chatHandler := handlers.NewChatHandler(opts.Chat, opts.Logger)
	historyHandler := handlers.NewHistoryHandler(opts.History, opts.Logger)
	configHandler := handlers.NewConfigHandler(opts.Config, opts.Logger)

	r.NoRoute(handlers.NotFound)
	r.NoMethod(handlers.MethodNotAllowed)

	r.GET("/health", chatHandler.Health)
	r.POST("/get_message", chatHandler.GetMessage)
	r.GET("/get_history", historyHandler.GetHistory)
	r.GET("/export_history", historyHandler.ExportHistory)
	r.GET("/config", configHandler.GetConfig)

	// 修改狀態的管理路由，設定 jwt_secret 時需要 token
	admin := r.Group("/", middleware.AuthMiddleware(opts.JWTSecret))
	{
		admin.DELETE("/delete_history", historyHandler.DeleteHistory)
		admin.POST("/config", configHandler.UpdateConfig)
	}

	if opts.WebSocket != nil {
		wsHandler := handlers.NewWebSocketHandler(opts.WebSocket, chatHandler, opts.Logger)
		r.GET("/ws", wsHandler.HandleWebSocket)
	}
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
}
