package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HistoryHandler 處理對話歷史的查詢、刪除與匯出
type HistoryHandler struct {
	history HistoryService
	logger  *zap.Logger
	now     func() time.Time
}

// NewHistoryHandler 創建一個新的 HistoryHandler 實例
func NewHistoryHandler(history HistoryService, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{history: history, logger: logger, now: time.Now}
}

// GetHistory 處理 GET /get_history，回傳完整歷史與筆數
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	history, err := h.history.GetHistory(c.Request.Context())
	if err != nil {
		h.logger.Info("failed to load history", zap.Error(err))
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history": history,
		"count":   len(history),
		"status":  statusSuccess,
	})
}

// DeleteHistory 處理 DELETE /delete_history
func (h *HistoryHandler) DeleteHistory(c *gin.Context) {
	message, err := h.history.DeleteHistory(c.Request.Context())
	if err != nil {
		h.logger.Info("failed to delete history", zap.Error(err))
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message, "status": statusSuccess})
}

// ExportHistory 匯出完整歷史並附上匯出時間 (unix 秒)
func (h *HistoryHandler) ExportHistory(c *gin.Context) {
	history, err := h.history.GetHistory(c.Request.Context())
	if err != nil {
		h.logger.Info("failed to export history", zap.Error(err))
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	exportedAt := float64(h.now().UnixNano()) / float64(time.Second)
	c.JSON(http.StatusOK, gin.H{
		"history":     history,
		"exported_at": exportedAt,
		"count":       len(history),
		"status":      statusSuccess,
	})
}
