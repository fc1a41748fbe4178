package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ConfigInput 是 POST /config 的請求內容，欄位缺少時不做修改
type ConfigInput struct {
	NumHistory json.RawMessage `json:"num_history"`
}

// ConfigHandler 讀取與更新執行期設定
type ConfigHandler struct {
	config ConfigService
	logger *zap.Logger
}

// NewConfigHandler 創建一個新的 ConfigHandler 實例
func NewConfigHandler(config ConfigService, logger *zap.Logger) *ConfigHandler {
	return &ConfigHandler{config: config, logger: logger}
}

// GetConfig 處理 GET /config
func (h *ConfigHandler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"num_history": h.config.NumHistory(), "status": statusSuccess})
}

// UpdateConfig 處理 POST /config，僅在帶有 num_history 時更新
func (h *ConfigHandler) UpdateConfig(c *gin.Context) {
	var input ConfigInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if input.NumHistory != nil {
		n, err := parseNumHistory(input.NumHistory)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		if err := h.config.SetNumHistory(n); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Configuration updated successfully",
		"num_history": h.config.NumHistory(),
		"status":      statusSuccess,
	})
}

// parseNumHistory 接受整數、會被截斷的小數，或十進位字串
func parseNumHistory(raw json.RawMessage) (int, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return 0, fmt.Errorf("invalid num_history: %w", err)
	}

	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return toInt(i)
		}
		f, err := val.Float64()
		if err != nil || math.IsInf(f, 0) {
			return 0, fmt.Errorf("invalid num_history: %s", val)
		}
		return toInt(int64(math.Trunc(f)))
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid num_history: %q", val)
		}
		return toInt(i)
	default:
		return 0, errors.New("num_history must be an integer")
	}
}

func toInt(i int64) (int, error) {
	if i > math.MaxInt32 || i < math.MinInt32 {
		return 0, fmt.Errorf("num_history out of range: %d", i)
	}
	return int(i), nil
}
