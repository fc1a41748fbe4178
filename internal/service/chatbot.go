package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"chatbot_rag/internal/agent"
	"chatbot_rag/internal/metrics"
)

// ErrNotReady 表示系統仍在暖機
var ErrNotReady = errors.New("service is initializing")

// Executor 把使用者輸入轉為完整查詢
type Executor interface {
	Execute(ctx context.Context, prompt string) (*agent.Result, error)
}

// Answer 是一次對話請求的結果
type Answer struct {
	Response string
	Elapsed  time.Duration
}

type WarmupConfig struct {
	Enabled bool
	Prompt  string
}

// Chatbot 串接 Agent 與 Controller，並記錄系統是否已可接受請求
type Chatbot struct {
	agent      Executor
	controller *Controller
	metrics    *metrics.Metrics
	logger     *zap.Logger
	warmup     WarmupConfig

	ready atomic.Bool
}

func NewChatbot(executor Executor, controller *Controller, warmup WarmupConfig, m *metrics.Metrics, logger *zap.Logger) *Chatbot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chatbot{
		agent:      executor,
		controller: controller,
		metrics:    m,
		logger:     logger,
		warmup:     warmup,
	}
}

func (b *Chatbot) Ready() bool {
	return b.ready.Load()
}

// Ask 執行 Agent 後把完整查詢交給 Controller
func (b *Chatbot) Ask(ctx context.Context, prompt string) (*Answer, error) {
	if !b.Ready() {
		return nil, ErrNotReady
	}

	start := time.Now()
	response, err := b.ask(ctx, prompt)
	elapsed := time.Since(start)
	b.metrics.ObserveChat(err, elapsed)
	if err != nil {
		return nil, err
	}

	return &Answer{Response: response, Elapsed: elapsed}, nil
}

func (b *Chatbot) ask(ctx context.Context, prompt string) (string, error) {
	result, err := b.agent.Execute(ctx, prompt)
	if err != nil {
		return "", err
	}
	return b.controller.GetLLMResponse(ctx, result.Text)
}

// Warmup 送出一則測試訊息並清除其歷史，完成後才標記為可用
func (b *Chatbot) Warmup(ctx context.Context) error {
	start := time.Now()
	b.logger.Info("initializing chatbot")

	if b.warmup.Enabled {
		b.logger.Info("warming up with test query")
		if _, err := b.controller.GetGeneralMessage(ctx, b.warmup.Prompt); err != nil {
			return fmt.Errorf("warmup query: %w", err)
		}
		if _, err := b.controller.DeleteHistory(ctx); err != nil {
			return fmt.Errorf("warmup cleanup: %w", err)
		}
	}

	b.ready.Store(true)
	b.logger.Info("chatbot ready", zap.Duration("init_time", time.Since(start)))
	return nil
}
