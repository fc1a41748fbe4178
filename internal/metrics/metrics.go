// Package metrics 定義 /metrics 輸出的 Prometheus 指標，名稱皆以 chatbot_ 開頭。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 持有各項指標與其註冊表，nil 時不記錄任何資料
type Metrics struct {
	registry *prometheus.Registry

	// 依方法、路由與狀態碼統計的請求數
	HTTPRequestsTotal *prometheus.CounterVec

	// 請求延遲
	HTTPRequestDuration *prometheus.HistogramVec

	// 對話請求數，result 為 success 或 error
	ChatRequestsTotal *prometheus.CounterVec

	// Agent 加上 LLM 的處理時間
	ChatDuration prometheus.Histogram

	// 在線的 WebSocket 客戶端數
	WebSocketClients prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatbot_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chatbot_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		ChatRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatbot_chat_requests_total",
				Help: "Total number of chat requests by result.",
			},
			[]string{"result"},
		),
		ChatDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chatbot_chat_duration_seconds",
				Help:    "Duration of the agent and LLM pipeline in seconds.",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60, 120},
			},
		),
		WebSocketClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "chatbot_websocket_clients",
				Help: "Number of connected websocket clients.",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ChatRequestsTotal,
		m.ChatDuration,
		m.WebSocketClients,
	)
	return m
}

// Handler 以 Prometheus 格式輸出註冊表
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry 回傳底層註冊表
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveHTTP(method, route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveChat(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.ChatRequestsTotal.WithLabelValues(result).Inc()
	m.ChatDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) WebSocketConnected() {
	if m != nil {
		m.WebSocketClients.Inc()
	}
}

func (m *Metrics) WebSocketDisconnected() {
	if m != nil {
		m.WebSocketClients.Dec()
	}
}
