package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	apiRequestsTotal       *prometheus.CounterVec
	apiLatencySeconds      *prometheus.HistogramVec
	progressRequestsTotal  *prometheus.CounterVec
	progressLatencySeconds prometheus.Histogram
	activityRequestsTotal  *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lentera_api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lentera_api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		progressRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lentera_progress_requests_total",
			Help: "Course progress aggregations by outcome (hit, miss, not_found, error).",
		}, []string{"outcome"})

		progressLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lentera_progress_aggregation_seconds",
			Help:    "Time spent computing course progress aggregates on cache misses.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		})

		activityRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lentera_activity_requests_total",
			Help: "Activity feed reads by outcome (hit, miss, error).",
		}, []string{"outcome"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			progressRequestsTotal,
			progressLatencySeconds,
			activityRequestsTotal,
		)
	})
}

// APIRequests exposes the counter for served API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// ProgressRequests exposes the counter for progress aggregation outcomes.
func ProgressRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return progressRequestsTotal
}

// ProgressLatency exposes the histogram for aggregation compute time.
func ProgressLatency() prometheus.Histogram {
	RegisterMetrics()
	return progressLatencySeconds
}

// ActivityRequests exposes the counter for activity feed outcomes.
func ActivityRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return activityRequestsTotal
}
