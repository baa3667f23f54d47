package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// scoresTotal counts scoring requests by result.
	scoresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "repohealth_scores_total",
		Help: "Scoring requests by result",
	}, []string{"result"})

	// scoreDuration tracks collect-and-score latency for successful requests.
	scoreDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "repohealth_score_duration_seconds",
		Help:    "Collect and score duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~50s
	})

	// totalScores and gradesTotal describe stored reports across all
	// repositories.
	totalScores = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "repohealth_total_score",
		Help:    "Total health score of stored reports",
		Buckets: prometheus.LinearBuckets(10, 10, 9), // 10 to 90
	})

	gradesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "repohealth_grades_total",
		Help: "Stored reports by grade",
	}, []string{"grade"})
)
