// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirpcast/chirpcast/internal/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testSessionManager(t *testing.T, timeout time.Duration) *SessionManager {
	t.Helper()
	m, err := NewSessionManager(testSecret, timeout, false)
	require.NoError(t, err)
	return m
}

func testUser() *models.User {
	return &models.User{ID: "user-1", TwitterName: "alice"}
}

func TestNewSessionManagerValidation(t *testing.T) {
	_, err := NewSessionManager("short", time.Hour, false)
	assert.Error(t, err)

	_, err = NewSessionManager(testSecret, 0, false)
	assert.Error(t, err)
}

func TestSessionTokenRoundTrip(t *testing.T) {
	m := testSessionManager(t, time.Hour)

	token, err := m.GenerateToken(testUser())
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.TwitterName)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	m := testSessionManager(t, time.Millisecond)

	token, err := m.GenerateToken(testUser())
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	m := testSessionManager(t, time.Hour)
	other, err := NewSessionManager("ffffffffffffffffffffffffffffffff", time.Hour, false)
	require.NoError(t, err)

	token, err := m.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	m := testSessionManager(t, time.Hour)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := m.ValidateToken(token)
		assert.Error(t, err, token)
	}
}

func TestIssueAndClearCookie(t *testing.T) {
	m := testSessionManager(t, time.Hour)

	rec := httptest.NewRecorder()
	require.NoError(t, m.IssueCookie(rec, testUser()))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Positive(t, cookie.MaxAge)

	claims, err := m.ValidateToken(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)

	rec = httptest.NewRecorder()
	m.ClearCookie(rec)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestRequireSession(t *testing.T) {
	m := testSessionManager(t, time.Hour)

	var gotClaims *SessionClaims
	handler := m.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("no cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/triggers", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/triggers", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid cookie", func(t *testing.T) {
		token, err := m.GenerateToken(testUser())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/triggers", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotClaims)
		assert.Equal(t, "user-1", gotClaims.UserID)
	})
}
