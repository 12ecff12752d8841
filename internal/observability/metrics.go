package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lineup_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by SQL operation.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lineup_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// MessagesSent counts messages persisted per conversation type.
	MessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lineup_messages_sent_total",
		Help: "Total number of messages persisted",
	}, []string{"conversation_type"})

	// NotificationsCreated counts notifications created by type.
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lineup_notifications_created_total",
		Help: "Total number of notifications created",
	}, []string{"type"})

	// WebSocketConnections is the gauge of active WebSocket connections.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lineup_websocket_connections",
		Help: "Number of active WebSocket connections",
	})

	// WebSocketBackpressureDrops counts frames dropped because a client's send
	// buffer was full.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lineup_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket frames dropped due to backpressure",
	}, []string{"reason"})

	// CacheHits counts cache-aside hits and misses by key prefix.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lineup_cache_lookups_total",
		Help: "Cache lookups by key prefix and outcome",
	}, []string{"prefix", "outcome"})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
