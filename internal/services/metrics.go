package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filebridge_uploads_total",
		Help: "Uploads by outcome",
	}, []string{"result"})

	uploadSizeBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "filebridge_upload_size_bytes",
		Help:    "Size of successfully stored uploads",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
	})

	deletesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filebridge_deletes_total",
		Help: "Delete requests by outcome",
	}, []string{"result"})

	presignFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filebridge_presign_failures_total",
		Help: "Records returned without a download URL",
	}, []string{"reason"})

	orphanedObjectsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filebridge_orphaned_objects_total",
		Help: "Objects left in the bucket without metadata after a failed compensating delete",
	})

	cleanupRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filebridge_cleanup_runs_total",
		Help: "Reaper runs",
	})

	cleanupResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filebridge_cleanup_results_total",
		Help: "Queued blob deletions by outcome",
	}, []string{"result"})

	cleanupPending = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "filebridge_cleanup_pending",
		Help: "Queued blob deletions still eligible for a retry",
	})
)
