// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

/*
Package metrics provides Prometheus metrics collection and export.

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:9292/metrics

# Available Metrics

HTTP Metrics:
  - http_requests_total: Total HTTP requests (counter)
    Labels: method, endpoint, status_code
  - http_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - http_active_requests: In-flight requests (gauge)
  - http_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

Delivery Metrics:
  - deliveries_total: Delivery attempts by outcome (counter)
    Labels: outcome (posted, noop, invalid_payload, failed)
  - delivery_duration_seconds: End-to-end webhook handling time (histogram)

Twitter Metrics:
  - twitter_api_call_duration_seconds: API call latency (histogram)
    Labels: operation
  - twitter_api_call_errors_total: Failed API calls (counter)
    Labels: operation, error_type

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_state_transitions_total: Transitions (counter)
    Labels: name, from_state, to_state

Note the deliveries_total series is observability only: the authoritative
delivery counts live in the counter store and survive restarts, which
Prometheus counters do not.

# Cardinality

Endpoint labels use the route pattern (for example /triggers/{hash}/send),
never the raw URL path, so trigger hashes cannot explode the series count.
Error types are limited to predefined constants.

All recording functions are safe for concurrent use.
*/
package metrics
