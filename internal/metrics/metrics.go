package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Notification processing metrics
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dropgate_relay_notifications_total",
			Help: "Total number of notifications processed, by outcome",
		},
		[]string{"outcome"},
	)

	MessagesPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dropgate_relay_messages_published_total",
			Help: "Total number of relay messages written to the queue sink",
		},
	)

	// Lease metrics
	LeaseConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dropgate_relay_lease_conflicts_total",
			Help: "Total number of lease acquisitions rejected because the blob was already held",
		},
	)

	BlobsMissing = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dropgate_relay_blobs_missing_total",
			Help: "Total number of notifications whose blob no longer existed",
		},
	)

	LeaseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dropgate_relay_lease_duration_seconds",
			Help:    "Duration of lease acquisition in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ProbeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dropgate_relay_probe_duration_seconds",
			Help:    "Duration of blob existence probes in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Publish metrics
	PublishDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dropgate_relay_publish_duration_seconds",
			Help:    "Duration of queue publish operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	PublishErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dropgate_relay_publish_errors_total",
			Help: "Total number of queue publish failures",
		},
	)

	// DLQ metrics
	DLQWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dropgate_relay_dlq_written_total",
			Help: "Total number of notifications written to the dead letter queue",
		},
		[]string{"reason"},
	)
)
