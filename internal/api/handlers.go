// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

// Package api provides the HTTP surface: the public webhook, the stats
// endpoint, trigger management, and the Twitter sign-in flow.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/chirpcast/chirpcast/internal/auth"
	"github.com/chirpcast/chirpcast/internal/config"
	"github.com/chirpcast/chirpcast/internal/counter"
	"github.com/chirpcast/chirpcast/internal/models"
	"github.com/chirpcast/chirpcast/internal/store"
	"github.com/chirpcast/chirpcast/internal/trigger"
)

// Version is stamped by the build; "dev" otherwise.
var Version = "dev"

// Deliverer runs one webhook delivery. Implemented by *trigger.Engine.
type Deliverer interface {
	Deliver(ctx context.Context, trig *models.Trigger, creds models.OAuthCredentials, rawBody []byte) (trigger.Outcome, error)
}

// CredentialsVerifier resolves an access token pair to the account's screen
// name. Implemented by *twitter.Client.
type CredentialsVerifier interface {
	VerifyCredentials(ctx context.Context, creds models.OAuthCredentials) (string, error)
}

// Handler holds the HTTP handlers and their collaborators.
type Handler struct {
	cfg       *config.Config
	store     *store.Store
	counters  counter.Store
	engine    Deliverer
	verifier  CredentialsVerifier
	sessions  *auth.SessionManager
	oauthFlow *auth.OAuthFlow
	startTime time.Time
}

// NewHandler wires the handler set.
func NewHandler(
	cfg *config.Config,
	st *store.Store,
	counters counter.Store,
	engine Deliverer,
	verifier CredentialsVerifier,
	sessions *auth.SessionManager,
	oauthFlow *auth.OAuthFlow,
) *Handler {
	return &Handler{
		cfg:       cfg,
		store:     st,
		counters:  counters,
		engine:    engine,
		verifier:  verifier,
		sessions:  sessions,
		oauthFlow: oauthFlow,
		startTime: time.Now(),
	}
}

// HealthLive reports process liveness.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, &models.HealthStatus{
		Status:         "ok",
		Version:        Version,
		StoreConnected: true,
		Uptime:         time.Since(h.startTime).Seconds(),
	})
}

// HealthReady reports whether the service can serve traffic: the trigger
// store and the counter store must both answer.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	storeOK := h.store.Ping() == nil

	_, counterErr := h.counters.Get(r.Context(), counter.TotalJobs)
	ready := storeOK && counterErr == nil

	status := http.StatusOK
	statusText := "ok"
	if !ready {
		status = http.StatusServiceUnavailable
		statusText = "unavailable"
	}

	respondJSON(w, status, &models.APIResponse{
		Status: statusText,
		Data: &models.HealthStatus{
			Status:         statusText,
			Version:        Version,
			StoreConnected: storeOK,
			Uptime:         time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
