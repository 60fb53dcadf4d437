package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ForumVotes counts vote ledger mutations by target, direction and resulting action.
	ForumVotes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinetheque_forum_votes_total",
		Help: "Total number of forum vote ledger mutations",
	}, []string{"target", "direction", "action"})

	// ForumContentCreated counts topics, posts and replies created.
	ForumContentCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinetheque_forum_content_created_total",
		Help: "Total number of forum topics, posts and replies created",
	}, []string{"kind"})

	// StatsRollupDuration records how long a full user statistics roll-up takes.
	StatsRollupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cinetheque_stats_rollup_duration_seconds",
		Help:    "Duration of the forum user statistics roll-up",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	// StatsRollupFailures counts users whose statistics could not be recomputed.
	StatsRollupFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinetheque_stats_rollup_failures_total",
		Help: "Total number of per-user statistics roll-up failures",
	})

	// WebSocketRoomConnections is the gauge of connections per topic room.
	WebSocketRoomConnections = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cinetheque_websocket_room_connections",
		Help: "Number of websocket connections per forum topic room",
	}, []string{"room_id"})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinetheque_websocket_backpressure_drops_total",
		Help: "Total number of websocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)
