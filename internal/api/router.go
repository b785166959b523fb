// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chirpcast/chirpcast/internal/auth"
	"github.com/chirpcast/chirpcast/internal/middleware"
)

// Router bundles the handler set with the auth and policy middleware.
type Router struct {
	handler   *Handler
	mw        *RouterMiddleware
	sessions  *auth.SessionManager
	basicAuth *auth.BasicAuthManager
}

// NewRouter wires the route table dependencies. basicAuth may be nil, in
// which case /stats is not registered.
func NewRouter(handler *Handler, mw *RouterMiddleware, sessions *auth.SessionManager, basicAuth *auth.BasicAuthManager) *Router {
	return &Router{
		handler:   handler,
		mw:        mw,
		sessions:  sessions,
		basicAuth: basicAuth,
	}
}

// Setup builds the chi route tree.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5))
	r.Use(router.mw.CORS())
	r.Use(middleware.PrometheusMetrics)

	// Delivery counters, guarded by the admin Basic Auth credential.
	if router.basicAuth != nil {
		r.Method(http.MethodGet, "/stats",
			router.basicAuth.RequireBasicAuth(http.HandlerFunc(router.handler.Stats)))
	}

	// Twitter sign-in dance.
	r.Route("/auth", func(r chi.Router) {
		r.Use(router.mw.RateLimitAuth())
		r.Get("/twitter", router.handler.TwitterLogin)
		r.Get("/twitter/callback", router.handler.TwitterCallback)
		r.Post("/logout", router.handler.Logout)
		r.With(router.sessions.RequireSession).Get("/me", router.handler.Me)
	})

	r.Route("/triggers", func(r chi.Router) {
		// Public webhook invoked by the feed-monitoring service; the
		// opaque hash is its only credential.
		r.With(router.mw.RateLimitWebhook()).Post("/{hash}/send", router.handler.SendTrigger)

		// Trigger management, session-authenticated.
		r.Group(func(r chi.Router) {
			r.Use(router.mw.RateLimit())
			r.Use(router.sessions.RequireSession)
			r.Post("/", router.handler.CreateTrigger)
			r.Get("/", router.handler.ListTriggers)
			r.Get("/{hash}", router.handler.GetTrigger)
			r.Put("/{hash}", router.handler.UpdateTrigger)
			r.Delete("/{hash}", router.handler.DeleteTrigger)
		})
	})

	// Operational endpoints.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.HealthLive)
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
