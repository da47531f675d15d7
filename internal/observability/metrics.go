package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	httpErrorsTotal       *prometheus.CounterVec
	ingestStagesTotal     *prometheus.CounterVec
	ingestFailuresTotal   *prometheus.CounterVec
	ingestDurationSeconds prometheus.Histogram
	evaluationsTotal      *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "visen_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "visen_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "visen_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		ingestStagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "visen_ingest_stages_total",
			Help: "Number of ingestion pipeline stage transitions.",
		}, []string{"stage"})

		ingestFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "visen_ingest_failures_total",
			Help: "Number of ingestion pipeline failures by stage.",
		}, []string{"stage"})

		ingestDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "visen_ingest_duration_seconds",
			Help:    "End-to-end duration of resume ingestion runs.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		})

		evaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "visen_answer_evaluations_total",
			Help: "Number of interview answer evaluations by outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			ingestStagesTotal,
			ingestFailuresTotal,
			ingestDurationSeconds,
			evaluationsTotal,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// IngestStages exposes the counter for pipeline stage transitions.
func IngestStages() *prometheus.CounterVec {
	RegisterMetrics()
	return ingestStagesTotal
}

// IngestFailures exposes the counter for pipeline failures.
func IngestFailures() *prometheus.CounterVec {
	RegisterMetrics()
	return ingestFailuresTotal
}

// IngestDuration exposes the pipeline duration histogram.
func IngestDuration() prometheus.Histogram {
	RegisterMetrics()
	return ingestDurationSeconds
}

// Evaluations exposes the counter for answer evaluations.
func Evaluations() *prometheus.CounterVec {
	RegisterMetrics()
	return evaluationsTotal
}
