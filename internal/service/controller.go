package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"chatbot_rag/internal/llm"
	"chatbot_rag/internal/models"
	"chatbot_rag/internal/repository"
)

// ErrInvalidNumHistory 表示 num_history 為負數
var ErrInvalidNumHistory = errors.New("num_history must not be negative")

type ControllerConfig struct {
	NumHistory    int
	SystemPrompt  string
	GeneralPrompt string
}

// Controller 管理對話歷史，並負責把查詢連同上下文送給 LLM
type Controller struct {
	historyRepo repository.HistoryRepository
	llm         llm.Client
	logger      *zap.Logger

	systemPrompt  string
	generalPrompt string

	mu         sync.RWMutex
	numHistory int
}

func NewController(historyRepo repository.HistoryRepository, client llm.Client, config ControllerConfig, logger *zap.Logger) (*Controller, error) {
	if config.NumHistory < 0 {
		return nil, ErrInvalidNumHistory
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		historyRepo:   historyRepo,
		llm:           client,
		logger:        logger,
		systemPrompt:  config.SystemPrompt,
		generalPrompt: config.GeneralPrompt,
		numHistory:    config.NumHistory,
	}, nil
}

// NumHistory 回傳送給 LLM 的歷史對話輪數
func (c *Controller) NumHistory() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.numHistory
}

func (c *Controller) SetNumHistory(n int) error {
	if n < 0 {
		return ErrInvalidNumHistory
	}
	c.mu.Lock()
	c.numHistory = n
	c.mu.Unlock()

	c.logger.Info("num_history updated", zap.Int("num_history", n))
	return nil
}

// GetLLMResponse 以 Agent 產生的完整查詢向 LLM 取得回覆
func (c *Controller) GetLLMResponse(ctx context.Context, query string) (string, error) {
	return c.respond(ctx, c.systemPrompt, query)
}

// GetGeneralMessage 不經過 Agent，直接以一般對話提示詞回覆
func (c *Controller) GetGeneralMessage(ctx context.Context, message string) (string, error) {
	return c.respond(ctx, c.generalPrompt, message)
}

func (c *Controller) respond(ctx context.Context, systemPrompt, content string) (string, error) {
	// 每一輪包含使用者與助理各一則訊息
	recent, err := c.historyRepo.FindRecent(ctx, c.NumHistory()*2)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}

	messages := make([]llm.Message, 0, len(recent)+2)
	if systemPrompt != "" {
		messages = append(messages, llm.Message{Role: models.RoleSystem, Content: systemPrompt})
	}
	for _, m := range recent {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: models.RoleUser, Content: content})

	answer, err := c.llm.Complete(ctx, messages)
	if err != nil {
		return "", err
	}

	userMsg := models.NewUserMessage(content)
	answerMsg := models.NewAssistantMessage(answer)
	if err := c.historyRepo.Create(ctx, &userMsg, &answerMsg); err != nil {
		return "", fmt.Errorf("save history: %w", err)
	}

	return answer, nil
}

func (c *Controller) GetHistory(ctx context.Context) ([]models.HistoryMessage, error) {
	return c.historyRepo.FindAll(ctx)
}

// DeleteHistory 清空對話歷史，回傳給前端顯示的訊息
func (c *Controller) DeleteHistory(ctx context.Context) (string, error) {
	deleted, err := c.historyRepo.DeleteAll(ctx)
	if err != nil {
		return "", fmt.Errorf("delete history: %w", err)
	}
	c.logger.Info("chat history deleted", zap.Int64("messages", deleted))
	return fmt.Sprintf("Chat history deleted (%d messages)", deleted), nil
}
