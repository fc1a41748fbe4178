package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"chatbot_rag/internal/models"
	"chatbot_rag/internal/service"
)

// ChatService 是 /get_message 與 /ws 依賴的對話服務
type ChatService interface {
	Ready() bool
	Ask(ctx context.Context, prompt string) (*service.Answer, error)
}

// HistoryService 提供對話歷史的讀取與刪除
type HistoryService interface {
	GetHistory(ctx context.Context) ([]models.HistoryMessage, error)
	DeleteHistory(ctx context.Context) (string, error)
}

// ConfigService 提供 num_history 的讀寫
type ConfigService interface {
	NumHistory() int
	SetNumHistory(n int) error
}

const (
	statusSuccess = "success"
	statusError   = "error"
)

func errorBody(msg string) gin.H {
	return gin.H{"error": msg, "status": statusError}
}

func respondError(c *gin.Context, code int, msg string) {
	c.JSON(code, errorBody(msg))
}

// NotFound 處理未定義的路徑
func NotFound(c *gin.Context) {
	respondError(c, http.StatusNotFound, "Endpoint not found")
}

// MethodNotAllowed 處理路徑存在但方法不符的請求
func MethodNotAllowed(c *gin.Context) {
	respondError(c, http.StatusMethodNotAllowed, "Method not allowed")
}

// Recovery 把 panic 轉成統一的 JSON 錯誤
func Recovery(c *gin.Context, _ any) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody("Internal server error"))
}
