// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/chirpcast/chirpcast/internal/metrics"
)

// RouterMiddleware builds the CORS and rate limiting middleware from
// configuration, using the production-hardened chi ecosystem
// implementations.
type RouterMiddleware struct {
	corsHandler func(http.Handler) http.Handler

	requests int
	window   time.Duration
	disabled bool
}

// NewRouterMiddleware creates the middleware factory.
func NewRouterMiddleware(corsOrigins []string, requests int, window time.Duration, disabled bool) *RouterMiddleware {
	if requests <= 0 {
		requests = 100
	}
	if window <= 0 {
		window = time.Minute
	}

	return &RouterMiddleware{
		corsHandler: cors.Handler(cors.Options{
			AllowedOrigins:   corsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           86400,
		}),
		requests: requests,
		window:   window,
		disabled: disabled,
	}
}

// CORS returns the CORS middleware. Origins default to none; cross-origin
// browser access requires explicit configuration.
func (m *RouterMiddleware) CORS() func(http.Handler) http.Handler {
	return m.corsHandler
}

// RateLimit is the baseline per-IP limit for the management API.
func (m *RouterMiddleware) RateLimit() func(http.Handler) http.Handler {
	return m.limit(m.requests, m.window, "api")
}

// RateLimitWebhook is the limit for the public delivery webhook. Feed
// monitors legitimately burst, so this is looser than the management API.
func (m *RouterMiddleware) RateLimitWebhook() func(http.Handler) http.Handler {
	return m.limit(m.requests*5, m.window, "webhook")
}

// RateLimitAuth is the strict limit for the sign-in endpoints.
func (m *RouterMiddleware) RateLimitAuth() func(http.Handler) http.Handler {
	return m.limit(10, m.window, "auth")
}

func (m *RouterMiddleware) limit(requests int, window time.Duration, endpoint string) func(http.Handler) http.Handler {
	if m.disabled {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.HTTPRateLimitHits.WithLabelValues(endpoint).Inc()
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
		}),
	)
}
