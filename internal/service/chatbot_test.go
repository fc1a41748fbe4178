package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatbot_rag/internal/agent"
	"chatbot_rag/internal/metrics"
)

type stubExecutor struct {
	text string
	err  error
	got  string
}

func (s *stubExecutor) Execute(_ context.Context, prompt string) (*agent.Result, error) {
	s.got = prompt
	if s.err != nil {
		return nil, s.err
	}
	return &agent.Result{Text: s.text}, nil
}

func TestChatbot_AskBeforeReady(t *testing.T) {
	bot := NewChatbot(&stubExecutor{}, newTestController(t, &fakeLLM{}, 5), WarmupConfig{}, nil, nil)

	assert.False(t, bot.Ready())
	_, err := bot.Ask(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestChatbot_AskPassesFullQuery(t *testing.T) {
	llmStub := &fakeLLM{replies: []string{"the answer"}}
	exec := &stubExecutor{text: "rewritten query"}
	m := metrics.New()
	bot := NewChatbot(exec, newTestController(t, llmStub, 5), WarmupConfig{}, m, nil)
	require.NoError(t, bot.Warmup(context.Background()))

	answer, err := bot.Ask(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "the answer", answer.Response)
	assert.Equal(t, "hello", exec.got)

	call := llmStub.lastCall()
	assert.Equal(t, "rewritten query", call[len(call)-1].Content)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChatRequestsTotal.WithLabelValues("success")))
}

func TestChatbot_AskAgentError(t *testing.T) {
	m := metrics.New()
	bot := NewChatbot(&stubExecutor{err: errors.New("agent failed")}, newTestController(t, &fakeLLM{}, 5), WarmupConfig{}, m, nil)
	require.NoError(t, bot.Warmup(context.Background()))

	_, err := bot.Ask(context.Background(), "hello")
	assert.ErrorContains(t, err, "agent failed")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChatRequestsTotal.WithLabelValues("error")))
}

func TestChatbot_WarmupClearsHistory(t *testing.T) {
	llmStub := &fakeLLM{}
	controller := newTestController(t, llmStub, 5)
	bot := NewChatbot(&stubExecutor{}, controller, WarmupConfig{Enabled: true, Prompt: "warm up"}, nil, nil)

	require.NoError(t, bot.Warmup(context.Background()))
	assert.True(t, bot.Ready())

	require.Len(t, llmStub.calls, 1)
	assert.Equal(t, "warm up", llmStub.lastCall()[1].Content)

	history, err := controller.GetHistory(context.Background())
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestChatbot_WarmupFailureKeepsInitializing(t *testing.T) {
	bot := NewChatbot(&stubExecutor{}, newTestController(t, &fakeLLM{err: errors.New("no model")}, 5),
		WarmupConfig{Enabled: true, Prompt: "warm up"}, nil, nil)

	err := bot.Warmup(context.Background())
	assert.ErrorContains(t, err, "no model")
	assert.False(t, bot.Ready())
}
