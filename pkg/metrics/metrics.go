package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP 请求维度的基础指标
var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, path and status",
	}, []string{"method", "path", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	sosAlerts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sos_alerts_total",
		Help: "SOS alerts dispatched",
	})

	chatRelayFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_relay_failures_total",
		Help: "Chat relay upstream failures",
	})
)

// RecordSOSAlert SOS 警报计数
func RecordSOSAlert() { sosAlerts.Inc() }

// RecordChatRelayFailure 聊天转发上游失败计数
func RecordChatRelayFailure() { chatRelayFailures.Inc() }
