// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package auth

import (
	"context"
	"net/http"

	"github.com/chirpcast/chirpcast/internal/logging"
)

type contextKey string

// SessionContextKey holds the *SessionClaims of the authenticated user.
const SessionContextKey contextKey = "session"

// RequireSession rejects requests without a valid session cookie and puts
// the session claims on the request context for the handler.
func (m *SessionManager) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			http.Error(w, "Unauthorized: sign in with Twitter first", http.StatusUnauthorized)
			return
		}

		claims, err := m.ValidateToken(cookie.Value)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Session token rejected")
			http.Error(w, "Unauthorized: session expired or invalid", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionFromContext returns the claims RequireSession stored, or nil.
func SessionFromContext(ctx context.Context) *SessionClaims {
	claims, _ := ctx.Value(SessionContextKey).(*SessionClaims)
	return claims
}

// RequireBasicAuth guards a handler with the admin Basic Auth credential.
func (m *BasicAuthManager) RequireBasicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			w.Header().Set("WWW-Authenticate", m.GetWWWAuthenticateHeader())
			http.Error(w, "Unauthorized: authentication required", http.StatusUnauthorized)
			return
		}

		if _, err := m.ValidateCredentials(authHeader); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Basic auth rejected")
			w.Header().Set("WWW-Authenticate", m.GetWWWAuthenticateHeader())
			http.Error(w, "Unauthorized: invalid credentials", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
