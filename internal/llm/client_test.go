package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatbot_rag/internal/models"
)

type capturedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newFakeServer(t *testing.T, choices string, got *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-1","object":"chat.completion","created":1,"model":"test-model","choices":` + choices + `}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIClient_Complete(t *testing.T) {
	var got capturedRequest
	srv := newFakeServer(t, `[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"  xin chào  "}}]`, &got)

	client, err := NewOpenAIClient(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1/", Model: "test-model"})
	require.NoError(t, err)

	answer, err := client.Complete(context.Background(), []Message{
		{Role: models.RoleSystem, Content: "be nice"},
		{Role: models.RoleUser, Content: "hi"},
		{Role: models.RoleAssistant, Content: "hello"},
		{Role: models.RoleUser, Content: "again"},
	})
	require.NoError(t, err)
	assert.Equal(t, "xin chào", answer)

	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 4)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "assistant", got.Messages[2].Role)
	assert.Equal(t, "again", got.Messages[3].Content)
}

func TestOpenAIClient_NoChoices(t *testing.T) {
	var got capturedRequest
	srv := newFakeServer(t, `[]`, &got)

	client, err := NewOpenAIClient(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1/", Model: "test-model"})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), []Message{{Role: models.RoleUser, Content: "hi"}})
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestNewOpenAIClient_RequiresModel(t *testing.T) {
	_, err := NewOpenAIClient(Config{APIKey: "sk-test"})
	assert.Error(t, err)
}
