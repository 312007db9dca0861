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

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	// ReportsGenerated counts pipeline outcomes; status is "ok" or "error".
	ReportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reports_generated_total",
			Help: "Total number of reports emitted by template and status",
		},
		[]string{"template", "status"},
	)

	ReportBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "report_build_duration_seconds",
			Help:    "Time spent composing a report",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		},
		[]string{"template"},
	)

	AggregateScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "report_aggregate_score",
			Help:    "Distribution of weighted aggregate scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"template"},
	)

	ProviderCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_calls_total",
			Help: "Calls made to data providers",
		},
		[]string{"provider", "status"},
	)

	ProviderCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_cache_hits_total",
			Help: "Provider readings served from Redis",
		},
		[]string{"provider"},
	)

	SinkDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_sink_deliveries_total",
			Help: "Report deliveries per sink and status",
		},
		[]string{"sink", "status"},
	)
)
