package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"chatbot_rag/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 與 HTTP 路由相同，允許任意來源
	},
}

// WebSocketHandler 處理 WebSocket 對話連接
type WebSocketHandler struct {
	wsService *service.WebSocketService
	chat      *ChatHandler
	logger    *zap.Logger
}

// NewWebSocketHandler 創建一個新的 WebSocketHandler 實例
func NewWebSocketHandler(wsService *service.WebSocketService, chat *ChatHandler, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{wsService: wsService, chat: chat, logger: logger}
}

// HandleWebSocket 升級連線後，每個 frame 都以 /get_message 的方式處理
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 失敗時已回寫錯誤狀態
		h.logger.Info("websocket upgrade failed", zap.Error(err))
		return
	}

	h.wsService.HandleConnection(c.Request.Context(), conn, h.chat.HandleFrame)
}
