// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package auth

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func basicHeader(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

func TestNewBasicAuthManagerValidation(t *testing.T) {
	_, err := NewBasicAuthManager("", "longenough")
	assert.Error(t, err)

	_, err = NewBasicAuthManager("admin", "")
	assert.Error(t, err)

	_, err = NewBasicAuthManager("admin", "short")
	assert.Error(t, err)

	_, err = NewBasicAuthManager("admin", "longenough")
	assert.NoError(t, err)
}

func TestValidateCredentials(t *testing.T) {
	m, err := NewBasicAuthManager("admin", "correct horse battery")
	require.NoError(t, err)

	username, err := m.ValidateCredentials(basicHeader("admin", "correct horse battery"))
	require.NoError(t, err)
	assert.Equal(t, "admin", username)

	tests := []struct {
		name   string
		header string
	}{
		{"wrong password", basicHeader("admin", "wrong")},
		{"wrong username", basicHeader("other", "correct horse battery")},
		{"not basic", "Bearer abc"},
		{"bad base64", "Basic !!!"},
		{"no colon", "Basic " + base64.StdEncoding.EncodeToString([]byte("admincorrect"))},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.ValidateCredentials(tt.header)
			assert.Error(t, err)
		})
	}
}

func TestRequireBasicAuth(t *testing.T) {
	m, err := NewBasicAuthManager("admin", "correct horse battery")
	require.NoError(t, err)

	handler := m.RequireBasicAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("no header issues challenge", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")
	})

	t.Run("bad credentials rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/stats", nil)
		req.Header.Set("Authorization", basicHeader("admin", "nope"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid credentials pass", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/stats", nil)
		req.Header.Set("Authorization", basicHeader("admin", "correct horse battery"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
