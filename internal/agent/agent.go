// Package agent 將使用者的原始輸入轉換成可直接交給對話控制器的完整查詢。
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"chatbot_rag/internal/llm"
	"chatbot_rag/internal/models"
)

// ErrEmptyPrompt 表示輸入為空白
var ErrEmptyPrompt = errors.New("prompt is empty")

// Result 是 Agent 執行的結果
type Result struct {
	Text      string
	Rewritten bool
}

type Config struct {
	Enabled      bool
	SystemPrompt string
}

type Agent struct {
	llm    llm.Client
	config Config
	logger *zap.Logger
}

func New(client llm.Client, config Config, logger *zap.Logger) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{llm: client, config: config, logger: logger}
}

// Execute 改寫 prompt；停用時原樣回傳
func (a *Agent) Execute(ctx context.Context, prompt string) (*Result, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	if !a.config.Enabled || a.llm == nil {
		return &Result{Text: prompt}, nil
	}

	query, err := a.llm.Complete(ctx, []llm.Message{
		{Role: models.RoleSystem, Content: a.config.SystemPrompt},
		{Role: models.RoleUser, Content: prompt},
	})
	if err != nil {
		return nil, fmt.Errorf("agent rewrite: %w", err)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		a.logger.Debug("agent returned blank query, using prompt as is")
		return &Result{Text: prompt}, nil
	}

	a.logger.Debug("agent rewrote prompt", zap.String("prompt", prompt), zap.String("query", query))
	return &Result{Text: query, Rewritten: true}, nil
}
