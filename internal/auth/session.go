// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chirpcast/chirpcast/internal/metrics"
	"github.com/chirpcast/chirpcast/internal/models"
)

// SessionCookieName is the cookie the browser carries between the OAuth
// callback and the trigger management calls.
const SessionCookieName = "chirpcast_session"

// SessionClaims are the JWT claims inside a session token.
type SessionClaims struct {
	UserID      string `json:"user_id"`
	TwitterName string `json:"twitter_name"`
	jwt.RegisteredClaims
}

// SessionManager issues and validates the HS256-signed session tokens
// handed out after a completed Twitter sign-in. Tokens are stateless; a
// session ends by cookie expiry or logout, not server-side revocation.
type SessionManager struct {
	secret       []byte
	timeout      time.Duration
	cookieSecure bool
}

// NewSessionManager creates a session manager. The secret must be at least
// 32 characters; shorter secrets make HS256 brute-forceable.
func NewSessionManager(secret string, timeout time.Duration, cookieSecure bool) (*SessionManager, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("session secret must be at least 32 characters")
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("session timeout must be positive")
	}
	return &SessionManager{
		secret:       []byte(secret),
		timeout:      timeout,
		cookieSecure: cookieSecure,
	}, nil
}

// GenerateToken signs a session token for the given user.
func (m *SessionManager) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		UserID:      user.ID,
		TwitterName: user.TwitterName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.timeout)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies signature, algorithm, and the time-based claims.
func (m *SessionManager) ValidateToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		metrics.SessionValidationFailures.Inc()
		return nil, fmt.Errorf("failed to parse session token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		metrics.SessionValidationFailures.Inc()
		return nil, fmt.Errorf("invalid session claims")
	}
	return claims, nil
}

// IssueCookie signs a session token for user and sets it as an HTTP-only
// cookie on the response.
func (m *SessionManager) IssueCookie(w http.ResponseWriter, user *models.User) error {
	token, err := m.GenerateToken(user)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.timeout.Seconds()),
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	metrics.SessionsIssued.Inc()
	return nil
}

// ClearCookie expires the session cookie. The token itself stays valid
// until its expiry; logout is client-side by design.
func (m *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
