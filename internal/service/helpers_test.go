package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"chatbot_rag/internal/llm"
	"chatbot_rag/internal/models"
	"chatbot_rag/internal/repository"
	"chatbot_rag/internal/storage"
)

// fakeLLM 記錄每次呼叫並依序回傳預設答案
type fakeLLM struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   [][]llm.Message
}

func (f *fakeLLM) Complete(_ context.Context, messages []llm.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, messages)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "ok", nil
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

func (f *fakeLLM) lastCall() []llm.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func newTestRepo(t *testing.T) repository.HistoryRepository {
	t.Helper()
	db, err := storage.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.AutoMigrate(&models.HistoryMessage{}))
	return repository.NewHistoryRepository(db)
}

func newTestController(t *testing.T, client llm.Client, numHistory int) *Controller {
	t.Helper()
	c, err := NewController(newTestRepo(t), client, ControllerConfig{
		NumHistory:    numHistory,
		SystemPrompt:  "rag prompt",
		GeneralPrompt: "general prompt",
	}, nil)
	require.NoError(t, err)
	return c
}
