package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "smsbot_http_requests_total", Help: "HTTP requests served"},
		[]string{"route", "status"},
	)
	Updates = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "smsbot_updates_total", Help: "Chat updates received"},
		[]string{"kind"},
	)
	GatewaySend = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "mekong_send_total", Help: "MekongSMS send outcomes"},
		[]string{"result", "http_status"},
	)
	GatewayLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "mekong_send_latency_seconds", Help: "MekongSMS send latency"},
	)
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "smsbot_active_sessions", Help: "Conversations in progress"},
	)
	ReplyErrors = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "smsbot_reply_errors_total", Help: "Failed replies to chat users"},
	)
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequests, Updates, GatewaySend, GatewayLatency, ActiveSessions, ReplyErrors)
}
