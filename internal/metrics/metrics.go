// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics (admin and portal frontends)
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookwise_http_requests_total",
			Help: "Total number of HTTP requests served by the web frontends",
		},
		[]string{"app", "method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookwise_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"app", "method", "route"},
	)

	HTTPActiveRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bookwise_http_active_requests",
			Help: "Current number of in-flight HTTP requests",
		},
		[]string{"app"},
	)

	HTTPRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookwise_http_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"app"},
	)

	// Upstream API Metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookwise_api_requests_total",
			Help: "Total number of requests sent to the Book Wise API",
		},
		[]string{"endpoint", "status_code"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookwise_api_request_duration_seconds",
			Help:    "Book Wise API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	// Query Layer Metrics
	QueryResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookwise_query_results_total",
			Help: "Total number of query reads by outcome",
		},
		[]string{"resource", "result"}, // result: "hit", "fetched", "error"
	)

	QueryRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookwise_query_retries_total",
			Help: "Total number of query fetch retries",
		},
		[]string{"resource"},
	)

	NetworkWarningsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookwise_network_warnings_total",
			Help: "Total number of network warning toasts raised",
		},
	)

	CacheInvalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookwise_cache_invalidations_total",
			Help: "Total number of cache entries invalidated or patched by mutations",
		},
		[]string{"resource", "kind"}, // kind: "invalidate", "patch"
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookwise_cache_entries",
			Help: "Current number of cached query results",
		},
	)

	// Mutation Metrics
	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookwise_mutations_total",
			Help: "Total number of mutation commands by outcome",
		},
		[]string{"command", "result"}, // result: "success", "failure"
	)

	// Session Metrics
	SessionOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookwise_session_operations_total",
			Help: "Total number of session store operations",
		},
		[]string{"operation"}, // "create", "destroy", "expire", "reject"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordHTTPRequest records a request served by one of the web frontends.
func RecordHTTPRequest(app, method, route string, statusCode int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(app, method, route, strconv.Itoa(statusCode)).Inc()
	HTTPRequestDuration.WithLabelValues(app, method, route).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight HTTP requests
func TrackActiveRequest(app string, inc bool) {
	if inc {
		HTTPActiveRequests.WithLabelValues(app).Inc()
	} else {
		HTTPActiveRequests.WithLabelValues(app).Dec()
	}
}

// RecordRateLimitHit records a request rejected by the rate limiter.
func RecordRateLimitHit(app string) {
	HTTPRateLimitHits.WithLabelValues(app).Inc()
}

// RecordUpstreamRequest records a call to the Book Wise API. A zero status
// code means the request never produced a response.
func RecordUpstreamRequest(endpoint string, statusCode int, duration time.Duration) {
	status := "network_error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	UpstreamRequestsTotal.WithLabelValues(endpoint, status).Inc()
	UpstreamRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordQueryResult records the outcome of a query read.
func RecordQueryResult(resource, result string) {
	QueryResultsTotal.WithLabelValues(resource, result).Inc()
}

// RecordQueryRetry records a retried query fetch.
func RecordQueryRetry(resource string) {
	QueryRetriesTotal.WithLabelValues(resource).Inc()
}

// RecordNetworkWarning records a raised network warning toast.
func RecordNetworkWarning() {
	NetworkWarningsTotal.Inc()
}

// RecordCacheInvalidation records cache entries removed or patched by a
// mutation.
func RecordCacheInvalidation(resource, kind string, count int) {
	if count <= 0 {
		return
	}
	CacheInvalidationsTotal.WithLabelValues(resource, kind).Add(float64(count))
}

// SetCacheEntries updates the cached result count gauge.
func SetCacheEntries(n int) {
	CacheEntries.Set(float64(n))
}

// RecordMutation records a mutation command outcome.
func RecordMutation(command string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	MutationsTotal.WithLabelValues(command, result).Inc()
}

// RecordSessionOperation records a session store operation.
func RecordSessionOperation(operation string) {
	SessionOperationsTotal.WithLabelValues(operation).Inc()
}
