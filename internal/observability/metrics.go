package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeedBatchesTotal counts feed batches served by scope and authorization outcome.
	FeedBatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glimpse_feed_batches_total",
		Help: "Total number of feed batches served by scope and authorization outcome",
	}, []string{"scope", "authorized"})

	// FeedBatchSize records how many posts each feed batch delivered.
	FeedBatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "glimpse_feed_batch_size",
		Help:    "Number of posts delivered per feed batch",
		Buckets: []float64{0, 1, 2, 3, 5, 10},
	})

	// FeedExhaustedTotal counts batches that found no eligible posts.
	FeedExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glimpse_feed_exhausted_total",
		Help: "Total number of feed requests that found no eligible posts",
	}, []string{"scope"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "glimpse_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// WebSocketConnectionsTotal is the gauge of active WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "glimpse_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketEventsTotal counts WebSocket events by type.
	WebSocketEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glimpse_websocket_events_total",
		Help: "Total WebSocket events by type",
	}, []string{"event_type"})

	// WebSocketBackpressureDrops counts messages dropped because a client's
	// send buffer was full or closed.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glimpse_websocket_backpressure_drops_total",
		Help: "Total WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// RecordFeedBatch records the outcome of a single feed batch.
func RecordFeedBatch(scope string, authorized bool, size int) {
	authLabel := "true"
	if !authorized {
		authLabel = "false"
	}
	FeedBatchesTotal.WithLabelValues(scope, authLabel).Inc()
	FeedBatchSize.Observe(float64(size))
	if size == 0 {
		FeedExhaustedTotal.WithLabelValues(scope).Inc()
	}
}
