// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/chirpcast/chirpcast/internal/logging"
	"github.com/chirpcast/chirpcast/internal/metrics"
	"github.com/chirpcast/chirpcast/internal/store"
	"github.com/chirpcast/chirpcast/internal/trigger"
)

// maxWebhookBody bounds the feed-event payload size.
const maxWebhookBody = 1 << 20

// SendTrigger is the public webhook: POST /triggers/{hash}/send.
//
// The response contract is plain text, consumed by the feed-monitoring
// service:
//
//	201 empty         delivery succeeded (or the trigger has no template)
//	404               unknown trigger hash
//	400 "Unable to deliver trigger: <message>"   payload or posting problem
//	500 "Unexpected error occurred: <message>"   anything else
func (h *Handler) SendTrigger(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		metrics.DeliveryDuration.Observe(time.Since(start).Seconds())
	}()

	hash := chi.URLParam(r, "hash")

	trig, err := h.store.GetTrigger(r.Context(), hash)
	if err != nil {
		if errors.Is(err, store.ErrTriggerNotFound) {
			http.Error(w, "Trigger not found", http.StatusNotFound)
			return
		}
		h.webhookInternalError(w, r, err)
		return
	}

	rawBody, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		h.webhookInternalError(w, r, fmt.Errorf("read payload: %w", err))
		return
	}

	owner, err := h.store.GetUser(r.Context(), trig.UserID)
	if err != nil {
		h.webhookInternalError(w, r, fmt.Errorf("load trigger owner: %w", err))
		return
	}

	outcome, err := h.engine.Deliver(r.Context(), trig, owner.Credentials(), rawBody)
	if err != nil {
		if de, ok := trigger.AsDeliveryError(err); ok {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "Unable to deliver trigger: %s", de.Message)
			return
		}
		h.webhookInternalError(w, r, err)
		return
	}

	if outcome.Posted {
		logging.Ctx(r.Context()).Info().
			Str("trigger_hash", trig.Hash).
			Msg("Webhook delivery posted")
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) webhookInternalError(w http.ResponseWriter, r *http.Request, err error) {
	logging.Ctx(r.Context()).Error().Err(err).Msg("Webhook delivery failed unexpectedly")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	fmt.Fprintf(w, "Unexpected error occurred: %s", err.Error())
}
