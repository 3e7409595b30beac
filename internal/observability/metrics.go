package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConversationsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "conversa",
		Name:      "conversations_recorded_total",
		Help:      "Total number of conversations recorded",
	})

	MatchAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "conversa",
		Name:      "match_attempts_total",
		Help:      "Total number of face match attempts by outcome",
	}, []string{"outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "conversa",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "conversa",
		Name:      "ws_connections",
		Help:      "Number of active WebSocket connections",
	})
)
