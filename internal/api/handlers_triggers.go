// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/chirpcast/chirpcast/internal/auth"
	"github.com/chirpcast/chirpcast/internal/logging"
	"github.com/chirpcast/chirpcast/internal/models"
	"github.com/chirpcast/chirpcast/internal/store"
	"github.com/chirpcast/chirpcast/internal/trigger"
)

// triggerRequest is the create/update body. The template may be empty; an
// empty template makes deliveries a no-op rather than an error.
type triggerRequest struct {
	Tweet string `json:"tweet" validate:"max=280"`
}

// CreateTrigger handles POST /triggers. The hash is assigned here, exactly
// once, and returned as the webhook path segment the caller should
// configure upstream.
func (h *Handler) CreateTrigger(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	var req triggerRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body", err)
		return
	}
	req.Tweet = strings.TrimSpace(req.Tweet)
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	trig := &models.Trigger{
		UserID: session.UserID,
		Tweet:  req.Tweet,
	}
	trigger.EnsureHash(trig)

	if err := h.store.CreateTrigger(r.Context(), trig); err != nil {
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "failed to create trigger", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("trigger_hash", trig.Hash).
		Str("user_id", session.UserID).
		Msg("Trigger created")
	respondSuccess(w, http.StatusCreated, &models.TriggerResponse{TriggerHash: trig.Hash})
}

// ListTriggers handles GET /triggers, returning the caller's own triggers.
func (h *Handler) ListTriggers(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	triggers, err := h.store.ListTriggersByUser(r.Context(), session.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "failed to list triggers", err)
		return
	}

	views := make([]*models.TriggerView, len(triggers))
	for i, t := range triggers {
		views[i] = triggerView(t)
	}
	respondSuccess(w, http.StatusOK, views)
}

// GetTrigger handles GET /triggers/{hash}. Triggers owned by someone else
// read as absent; the hash is the only thing an outsider may learn exists.
func (h *Handler) GetTrigger(w http.ResponseWriter, r *http.Request) {
	trig, ok := h.ownedTrigger(w, r)
	if !ok {
		return
	}
	respondSuccess(w, http.StatusOK, triggerView(trig))
}

// UpdateTrigger handles PUT /triggers/{hash}. Only the template changes; the
// hash is stable across edits so configured webhooks keep working.
func (h *Handler) UpdateTrigger(w http.ResponseWriter, r *http.Request) {
	trig, ok := h.ownedTrigger(w, r)
	if !ok {
		return
	}

	var req triggerRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body", err)
		return
	}
	req.Tweet = strings.TrimSpace(req.Tweet)
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	updated, err := h.store.UpdateTriggerTweet(r.Context(), trig.Hash, req.Tweet)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "failed to update trigger", err)
		return
	}
	respondSuccess(w, http.StatusOK, &models.TriggerResponse{TriggerHash: updated.Hash})
}

// DeleteTrigger handles DELETE /triggers/{hash}.
func (h *Handler) DeleteTrigger(w http.ResponseWriter, r *http.Request) {
	trig, ok := h.ownedTrigger(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteTrigger(r.Context(), trig.Hash); err != nil {
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "failed to delete trigger", err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("trigger_hash", trig.Hash).Msg("Trigger deleted")
	respondSuccess(w, http.StatusOK, &models.TriggerResponse{TriggerHash: trig.Hash})
}

// ownedTrigger loads the {hash} trigger and verifies the session user owns
// it, writing the error response itself when not.
func (h *Handler) ownedTrigger(w http.ResponseWriter, r *http.Request) (*models.Trigger, bool) {
	session := auth.SessionFromContext(r.Context())
	hash := chi.URLParam(r, "hash")

	trig, err := h.store.GetTrigger(r.Context(), hash)
	if err != nil {
		if errors.Is(err, store.ErrTriggerNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "trigger not found", nil)
			return nil, false
		}
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "failed to load trigger", err)
		return nil, false
	}

	if trig.UserID != session.UserID {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "trigger not found", nil)
		return nil, false
	}
	return trig, true
}

func triggerView(t *models.Trigger) *models.TriggerView {
	return &models.TriggerView{
		Hash:      t.Hash,
		Tweet:     t.Tweet,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
