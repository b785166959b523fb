// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Delivery outcome labels for deliveries_total.
const (
	DeliveryPosted  = "posted"
	DeliveryNoop    = "noop"
	DeliveryInvalid = "invalid_payload"
	DeliveryFailed  = "failed"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Current number of active HTTP requests",
		},
	)

	HTTPRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Delivery Metrics
	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deliveries_total",
			Help: "Total number of trigger delivery attempts by outcome",
		},
		[]string{"outcome"}, // "posted", "noop", "invalid_payload", "failed"
	)

	DeliveryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "delivery_duration_seconds",
			Help:    "End-to-end duration of webhook delivery handling",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Twitter API Metrics
	TwitterCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "twitter_api_call_duration_seconds",
			Help:    "Duration of Twitter API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	TwitterCallErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "twitter_api_call_errors_total",
			Help: "Total number of failed Twitter API calls",
		},
		[]string{"operation", "error_type"}, // "duplicate", "rate_limited", "unauthorized", "api", "network"
	)

	// Counter Store Metrics
	CounterStoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "counter_store_errors_total",
			Help: "Total number of delivery counter store failures",
		},
		[]string{"operation"}, // "increment", "get"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
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

	// Session Metrics
	SessionsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_issued_total",
			Help: "Total number of sessions issued after OAuth sign-in",
		},
	)

	SessionValidationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "session_validation_failures_total",
			Help: "Total number of rejected session tokens",
		},
	)
)

// RecordHTTPRequest records one completed HTTP request.
func RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest moves the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		HTTPActiveRequests.Inc()
	} else {
		HTTPActiveRequests.Dec()
	}
}

// RecordDelivery records one delivery attempt outcome.
func RecordDelivery(outcome string) {
	DeliveriesTotal.WithLabelValues(outcome).Inc()
}

// RecordTwitterCall records one Twitter API call. errorType is empty on
// success.
func RecordTwitterCall(operation string, duration time.Duration, errorType string) {
	TwitterCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if errorType != "" {
		TwitterCallErrors.WithLabelValues(operation, errorType).Inc()
	}
}

// RecordCounterStoreError records a counter store failure.
func RecordCounterStoreError(operation string) {
	CounterStoreErrors.WithLabelValues(operation).Inc()
}

// RecordCircuitBreakerTransition records a breaker state change and updates
// the state gauge.
func RecordCircuitBreakerTransition(name, from, to string, state float64) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(state)
}
