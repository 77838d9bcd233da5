package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are registered with the default registry on import and served
// from /metrics by the server.
var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ifcfilter_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ifcfilter_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path"},
	)

	// FilterRunsTotal counts finished filter runs by outcome
	// (completed, failed, retried).
	FilterRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ifcfilter_filter_runs_total",
			Help: "Total number of filter jobs processed",
		},
		[]string{"outcome"},
	)

	FilterRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ifcfilter_filter_run_duration_seconds",
			Help:    "Duration of subset extraction in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	FilterSubsetEntities = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ifcfilter_subset_entities",
			Help:    "Number of entities in produced subset models",
			Buckets: prometheus.ExponentialBuckets(10, 4, 10),
		},
	)

	ModelsUploadedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ifcfilter_models_uploaded_total",
			Help: "Total number of uploaded models",
		},
	)
)

const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeRetried   = "retried"
)

// ObserveRun records one filter run.
func ObserveRun(outcome string, seconds float64, entities int) {
	FilterRunsTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeCompleted {
		FilterRunDuration.Observe(seconds)
		FilterSubsetEntities.Observe(float64(entities))
	}
}
