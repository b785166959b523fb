// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package twitter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirpcast/chirpcast/internal/models"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{
		ConsumerKey:    "consumer-key",
		ConsumerSecret: "consumer-secret",
		APIBaseURL:     server.URL,
	})
}

func testCreds() models.OAuthCredentials {
	return models.OAuthCredentials{Token: "user-token", Secret: "user-secret"}
}

func TestPostStatus(t *testing.T) {
	var gotPath, gotStatus, gotAuth string

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseForm())
		gotStatus = r.PostFormValue("status")
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id": 1}`))
	})

	err := client.PostStatus(context.Background(), testCreds(), "Temperature is 21.5")
	require.NoError(t, err)

	assert.Equal(t, "/statuses/update.json", gotPath)
	assert.Equal(t, "Temperature is 21.5", gotStatus)
	assert.Contains(t, gotAuth, "OAuth")
	assert.Contains(t, gotAuth, `oauth_consumer_key="consumer-key"`)
	assert.Contains(t, gotAuth, `oauth_token="user-token"`)
}

func TestPostStatusDuplicate(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"errors":[{"code":187,"message":"Status is a duplicate."}]}`))
	})

	err := client.PostStatus(context.Background(), testCreds(), "same tweet")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateStatus)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, 187, apiErr.Code)
}

func TestPostStatusRateLimited(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http 429", http.StatusTooManyRequests, `{"errors":[{"code":88,"message":"Rate limit exceeded"}]}`},
		{"code 88 on 403", http.StatusForbidden, `{"errors":[{"code":88,"message":"Rate limit exceeded"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := client.PostStatus(context.Background(), testCreds(), "x")
			assert.ErrorIs(t, err, ErrRateLimited)
		})
	}
}

func TestPostStatusUnauthorized(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"code":32,"message":"Could not authenticate you."}]}`))
	})

	err := client.PostStatus(context.Background(), testCreds(), "x")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestPostStatusNonJSONError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("Bad Gateway"))
	})

	err := client.PostStatus(context.Background(), testCreds(), "x")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestPostStatusTooLong(t *testing.T) {
	called := false
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	err := client.PostStatus(context.Background(), testCreds(), strings.Repeat("x", 281))
	assert.ErrorIs(t, err, ErrStatusTooLong)
	assert.False(t, called, "overlong status must not reach the API")
}

func TestVerifyCredentials(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/account/verify_credentials.json", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"id": 12, "screen_name": "alice"}`))
	})

	name, err := client.VerifyCredentials(context.Background(), testCreds())
	require.NoError(t, err)
	assert.Equal(t, "alice", name)
}

func TestVerifyCredentialsRejected(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"code":89,"message":"Invalid or expired token."}]}`))
	})

	_, err := client.VerifyCredentials(context.Background(), testCreds())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestErrorType(t *testing.T) {
	assert.Equal(t, "", errorType(nil))
	assert.Equal(t, "duplicate", errorType(newAPIError(403, 187, "dup")))
	assert.Equal(t, "rate_limited", errorType(newAPIError(429, 0, "slow down")))
	assert.Equal(t, "unauthorized", errorType(newAPIError(401, 32, "no")))
	assert.Equal(t, "api", errorType(newAPIError(500, 0, "boom")))
	assert.Equal(t, "network", errorType(context.DeadlineExceeded))
}
