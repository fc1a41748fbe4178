package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveChat(t *testing.T) {
	m := New()
	m.ObserveChat(nil, time.Second)
	m.ObserveChat(errors.New("boom"), time.Second)
	m.ObserveChat(nil, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ChatRequestsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChatRequestsTotal.WithLabelValues("error")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveChat(nil, time.Second)
		m.ObserveHTTP("GET", "/health", "200", time.Millisecond)
		m.WebSocketConnected()
		m.WebSocketDisconnected()
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveHTTP("GET", "/health", "200", time.Millisecond)
	m.WebSocketConnected()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `chatbot_http_requests_total{method="GET",route="/health",status="200"} 1`))
	assert.True(t, strings.Contains(body, "chatbot_websocket_clients 1"))
}
