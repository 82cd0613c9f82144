package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodboard_transfers_total",
			Help: "Cross-board transfer attempts by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	imagesTransferred = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moodboard_images_transferred_total",
			Help: "Images successfully committed to a destination board",
		},
	)

	cleanupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moodboard_cleanup_failures_total",
			Help: "Best-effort deletions that failed and left orphaned data",
		},
	)
)
