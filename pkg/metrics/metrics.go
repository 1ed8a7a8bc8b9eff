package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "message_dispatcher"

var (
	DispatchAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dispatch_attempts_total",
		Help:      "Dispatch attempts by channel and result (sent, retryable, transport_fault).",
	}, []string{"channel", "result"})

	DispatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dispatch_duration_seconds",
		Help:      "Time spent inside a platform adapter call.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"channel"})

	SchedulerFirings = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scheduler_firings_total",
		Help:      "Completed scheduler firings.",
	})

	SchedulerSkippedFirings = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scheduler_skipped_firings_total",
		Help:      "Ticks skipped because a previous firing was still running.",
	})

	BulkCreateItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bulk_create_items_total",
		Help:      "Bulk ingestion items by result (created, failed).",
	}, []string{"result"})
)
