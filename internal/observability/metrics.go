package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	apiRequestsTotal   *prometheus.CounterVec
	apiLatencySeconds  *prometheus.HistogramVec
	apiErrorsTotal     *prometheus.CounterVec
	feedRequestsTotal  *prometheus.CounterVec
	feedLatencySeconds prometheus.Histogram
	reportRequests     *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teamboard_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "teamboard_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teamboard_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		feedRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teamboard_activity_feed_requests_total",
			Help: "Recent activity feed builds by outcome.",
		}, []string{"outcome"})

		feedLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "teamboard_activity_feed_latency_seconds",
			Help:    "Time spent loading candidates and building the recent activity feed.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		})

		reportRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teamboard_dashboard_requests_total",
			Help: "Dashboard and report aggregations by view and cache outcome.",
		}, []string{"view", "outcome"})

		prometheus.MustRegister(apiRequestsTotal, apiLatencySeconds, apiErrorsTotal, feedRequestsTotal, feedLatencySeconds, reportRequests)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// FeedRequests counts feed builds labelled ok or error.
func FeedRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return feedRequestsTotal
}

// FeedLatency exposes the feed build latency histogram.
func FeedLatency() prometheus.Histogram {
	RegisterMetrics()
	return feedLatencySeconds
}

// DashboardRequests counts aggregations labelled by view and hit, miss or error.
func DashboardRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return reportRequests
}
