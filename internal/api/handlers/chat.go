package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chatbot_rag/internal/agent"
	"chatbot_rag/internal/service"
)

// MessageInput 是 /get_message 的請求內容，Input 為 nil 代表缺少該欄位
type MessageInput struct {
	Input *string `json:"input"`
}

// ChatHandler 處理對話請求
type ChatHandler struct {
	chat   ChatService
	logger *zap.Logger
}

// NewChatHandler 創建一個新的 ChatHandler 實例
func NewChatHandler(chat ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, logger: logger}
}

// Health 回報系統是否完成暖機
func (h *ChatHandler) Health(c *gin.Context) {
	status := "initializing"
	if h.chat.Ready() {
		status = "healthy"
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

// GetMessage 處理 POST /get_message
func (h *ChatHandler) GetMessage(c *gin.Context) {
	var input MessageInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Input == nil {
		respondError(c, http.StatusBadRequest, "Prompt is required")
		return
	}

	code, body := h.reply(c.Request.Context(), *input.Input)
	c.JSON(code, body)
}

// HandleFrame 以與 /get_message 相同的格式處理一個 WebSocket frame
func (h *ChatHandler) HandleFrame(ctx context.Context, payload []byte) interface{} {
	var input MessageInput
	if err := json.Unmarshal(payload, &input); err != nil || input.Input == nil {
		return errorBody("Prompt is required")
	}
	_, body := h.reply(ctx, *input.Input)
	return body
}

func (h *ChatHandler) reply(ctx context.Context, prompt string) (int, gin.H) {
	answer, err := h.chat.Ask(ctx, prompt)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotReady):
			return http.StatusServiceUnavailable, errorBody(err.Error())
		case errors.Is(err, agent.ErrEmptyPrompt):
			return http.StatusBadRequest, errorBody("Prompt is required")
		}
		h.logger.Info("failed to process message", zap.Error(err))
		return http.StatusInternalServerError, errorBody(err.Error())
	}

	return http.StatusOK, gin.H{
		"response": answer.Response,
		"time":     answer.Elapsed.Seconds(),
		"status":   statusSuccess,
	}
}
