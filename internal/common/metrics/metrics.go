// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	MatchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scholarship_match_requests_total",
			Help: "Ranking requests by outcome",
		},
		[]string{"status", "error_code"},
	)

	MatchResultsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scholarship_match_results",
			Help:    "Number of scholarships returned per ranking request",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 50},
		},
	)

	StrategySelections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "essay_strategy_selections_total",
			Help: "Selected essay archetypes",
		},
		[]string{"cluster_name"},
	)

	EssayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "essay_requests_total",
			Help: "Essay generation requests by outcome",
		},
		[]string{"status", "error_code"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "essay_generation_duration_seconds",
			Help:    "Time spent waiting on the generation provider",
			Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 90, 120},
		},
		[]string{"provider", "status"},
	)

	EmbeddingCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_cache_lookups_total",
			Help: "Embedding cache lookups by result",
		},
		[]string{"result"},
	)
)
