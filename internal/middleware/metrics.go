package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"chatbot_rag/internal/metrics"
)

// Metrics 記錄請求數與延遲，未匹配的路徑統一標記為 unmatched
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
