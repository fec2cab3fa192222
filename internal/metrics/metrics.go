// Package metrics defines Prometheus metrics for the comparison engine.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "concord_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concord_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ComparisonsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "concord_comparisons_total",
			Help: "Total graph comparisons performed",
		},
	)

	ComparisonDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "concord_comparison_duration_seconds",
			Help:    "Graph comparison duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ImbalanceWarningsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "concord_imbalance_warnings_total",
			Help: "Comparisons that tripped the cardinality imbalance warning",
		},
	)

	InconsistentScoresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "concord_inconsistent_scores_total",
			Help: "Accuracy assessments flagged as inconsistent with overall similarity",
		},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concord_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal,
		ComparisonsTotal, ComparisonDuration,
		ImbalanceWarningsTotal, InconsistentScoresTotal,
		ErrorsTotal,
	)
}
