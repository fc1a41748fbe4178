package service

import (
	"go.uber.org/zap"

	"chatbot_rag/internal/agent"
	"chatbot_rag/internal/llm"
	"chatbot_rag/internal/metrics"
	"chatbot_rag/internal/repository"
	"chatbot_rag/pkg/config"
)

type Services struct {
	Chatbot    *Chatbot
	Controller *Controller
	WebSocket  *WebSocketService
}

func NewServices(cfg *config.Config, repos *repository.Repositories, client llm.Client, m *metrics.Metrics, logger *zap.Logger) (*Services, error) {
	controller, err := NewController(repos.History, client, ControllerConfig{
		NumHistory:    cfg.Chat.NumHistory,
		SystemPrompt:  cfg.Chat.SystemPrompt,
		GeneralPrompt: cfg.Chat.GeneralPrompt,
	}, logger.Named("controller"))
	if err != nil {
		return nil, err
	}

	queryAgent := agent.New(client, agent.Config{
		Enabled:      cfg.Agent.Enabled,
		SystemPrompt: cfg.Agent.SystemPrompt,
	}, logger.Named("agent"))

	chatbot := NewChatbot(queryAgent, controller, WarmupConfig{
		Enabled: cfg.Chat.Warmup,
		Prompt:  cfg.Chat.WarmupPrompt,
	}, m, logger.Named("chatbot"))

	return &Services{
		Chatbot:    chatbot,
		Controller: controller,
		WebSocket:  NewWebSocketService(m, logger.Named("websocket")),
	}, nil
}
