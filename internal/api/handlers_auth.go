// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package api

import (
	"net/http"

	"github.com/chirpcast/chirpcast/internal/auth"
	"github.com/chirpcast/chirpcast/internal/logging"
)

// TwitterLogin handles GET /auth/twitter: obtain a request token and send
// the browser to Twitter's authorization page.
func (h *Handler) TwitterLogin(w http.ResponseWriter, r *http.Request) {
	authorizeURL, err := h.oauthFlow.BeginAuthorization()
	if err != nil {
		respondError(w, http.StatusBadGateway, "OAUTH_ERROR", "failed to start Twitter sign-in", err)
		return
	}
	http.Redirect(w, r, authorizeURL, http.StatusFound)
}

// TwitterCallback handles GET /auth/twitter/callback: trade the verifier
// for the user's access tokens, resolve the account, persist it, and issue
// a session cookie.
func (h *Handler) TwitterCallback(w http.ResponseWriter, r *http.Request) {
	requestToken := r.URL.Query().Get("oauth_token")
	verifier := r.URL.Query().Get("oauth_verifier")

	creds, err := h.oauthFlow.CompleteAuthorization(requestToken, verifier)
	if err != nil {
		respondError(w, http.StatusBadRequest, "OAUTH_ERROR", "Twitter sign-in failed", err)
		return
	}

	screenName, err := h.verifier.VerifyCredentials(r.Context(), creds)
	if err != nil {
		respondError(w, http.StatusBadGateway, "OAUTH_ERROR", "failed to verify Twitter credentials", err)
		return
	}

	user, err := h.store.UpsertUser(r.Context(), screenName, creds.Token, creds.Secret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "failed to save user", err)
		return
	}

	if err := h.sessions.IssueCookie(w, user); err != nil {
		respondError(w, http.StatusInternalServerError, "SESSION_ERROR", "failed to issue session", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("twitter_name", sanitizeLogValue(screenName)).
		Msg("User signed in")
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	respondSuccess(w, http.StatusOK, nil)
}

// Me handles GET /auth/me, returning the signed-in identity.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	respondSuccess(w, http.StatusOK, map[string]string{
		"user_id":      session.UserID,
		"twitter_name": session.TwitterName,
	})
}
