package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chatbot_rag/internal/api"
	"chatbot_rag/internal/llm"
	"chatbot_rag/internal/logger"
	"chatbot_rag/internal/metrics"
	"chatbot_rag/internal/models"
	"chatbot_rag/internal/repository"
	"chatbot_rag/internal/service"
	"chatbot_rag/internal/storage"
	"chatbot_rag/pkg/config"
)

func main() {
	// 載入應用程式配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// 初始化資料庫連接
	db, err := storage.Open(cfg.DB)
	if err != nil {
		zlog.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.HistoryMessage{}); err != nil {
		zlog.Fatal("Failed to auto migrate database", zap.Error(err))
	}

	client, err := llm.NewOpenAIClient(llm.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	})
	if err != nil {
		zlog.Fatal("Failed to initialize llm client", zap.Error(err))
	}

	// 初始化 repositories 與 services
	m := metrics.New()
	repos := repository.NewRepositories(db)
	services, err := service.NewServices(cfg, repos, client, m, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize services", zap.Error(err))
	}

	gin.SetMode(cfg.Server.Mode)
	r := api.NewRouter(api.Options{
		Chat:      services.Chatbot,
		History:   services.Controller,
		Config:    services.Controller,
		WebSocket: services.WebSocket,
		Metrics:   m,
		Logger:    zlog.Named("http"),
		JWTSecret: cfg.Auth.JWTSecret,
	})

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 暖機期間 /health 回報 initializing
	go func() {
		if err := services.Chatbot.Warmup(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			zlog.Fatal("Failed to initialize chatbot", zap.Error(err))
		}
	}()

	go func() {
		zlog.Info("Starting API server", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Failed to run server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	services.WebSocket.CloseAll()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
	}
	zlog.Info("Server exited")
}
