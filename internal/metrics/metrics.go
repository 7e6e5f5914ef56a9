// Package metrics provides Prometheus metrics for inkboard.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "inkboard"

var (
	// HTTPRequests counts handled requests by route pattern and status code.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration measures request latency.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// ProviderCalls counts provider calls by outcome ("ok" or "error").
	ProviderCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_calls_total",
			Help:      "Total number of AI provider calls",
		},
		[]string{"provider", "outcome"},
	)

	// ProviderDuration measures provider call latency. Model calls are slow,
	// so buckets reach a minute.
	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_call_duration_seconds",
			Help:      "Duration of AI provider calls in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"provider"},
	)

	// Fallbacks counts recoveries from unusable provider output.
	Fallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Total number of fallback results served in place of provider output",
		},
		[]string{"operation", "reason"},
	)

	// SecondaryFailures counts best-effort calls replaced by a placeholder.
	SecondaryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "secondary_failures_total",
			Help:      "Total number of failed best-effort provider calls",
		},
		[]string{"provider"},
	)
)

// RecordRequest records a handled HTTP request.
func RecordRequest(method, route, status string, duration float64) {
	HTTPRequests.WithLabelValues(method, route, status).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(duration)
}

// RecordProviderCall records one provider call.
func RecordProviderCall(provider string, err error, duration float64) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ProviderCalls.WithLabelValues(provider, outcome).Inc()
	ProviderDuration.WithLabelValues(provider).Observe(duration)
}

// RecordFallback records a fallback served for operation.
func RecordFallback(operation, reason string) {
	Fallbacks.WithLabelValues(operation, reason).Inc()
}

// RecordSecondaryFailure records a failed best-effort call.
func RecordSecondaryFailure(provider string) {
	SecondaryFailures.WithLabelValues(provider).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
