package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики scheduler'а, отдаются через /metrics.
var (
	postsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "publica_scheduler_posts_published_total",
		Help: "Posts published by the scheduler",
	})

	postsRepaired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "publica_scheduler_posts_repaired_total",
		Help: "Posts whose status was repaired to published from an existing ledger record",
	})

	postsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "publica_scheduler_posts_failed_total",
		Help: "Posts marked failed by the scheduler",
	})

	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "publica_scheduler_tick_duration_seconds",
		Help:    "Duration of one scheduler tick",
		Buckets: prometheus.DefBuckets,
	})
)
