// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package auth

import (
	"fmt"
	"sync"
	"time"

	"github.com/dghubble/oauth1"

	"github.com/chirpcast/chirpcast/internal/logging"
	"github.com/chirpcast/chirpcast/internal/models"
)

// DefaultTwitterEndpoint is Twitter's three-legged OAuth1 endpoint set.
// The authenticate URL (rather than authorize) skips the approval screen
// for users who already granted access.
var DefaultTwitterEndpoint = oauth1.Endpoint{
	RequestTokenURL: "https://api.twitter.com/oauth/request_token",
	AuthorizeURL:    "https://api.twitter.com/oauth/authenticate",
	AccessTokenURL:  "https://api.twitter.com/oauth/access_token",
}

// pendingTTL bounds how long a started sign-in may sit between the redirect
// to Twitter and the callback.
const pendingTTL = 15 * time.Minute

type pendingAuthorization struct {
	secret    string
	createdAt time.Time
}

// OAuthFlow drives the three-legged OAuth1 dance: obtain a request token,
// send the user to Twitter, and trade the callback verifier for the user's
// access token pair.
//
// Request token secrets are held in memory between the two legs; a restart
// mid-dance just means the user signs in again.
type OAuthFlow struct {
	config *oauth1.Config

	mu      sync.Mutex
	pending map[string]pendingAuthorization
}

// NewOAuthFlow builds the flow against Twitter's production endpoints.
func NewOAuthFlow(consumerKey, consumerSecret, callbackURL string) *OAuthFlow {
	return NewOAuthFlowWithEndpoint(consumerKey, consumerSecret, callbackURL, DefaultTwitterEndpoint)
}

// NewOAuthFlowWithEndpoint builds the flow against a custom endpoint set.
// Tests point this at an httptest server.
func NewOAuthFlowWithEndpoint(consumerKey, consumerSecret, callbackURL string, endpoint oauth1.Endpoint) *OAuthFlow {
	return &OAuthFlow{
		config: &oauth1.Config{
			ConsumerKey:    consumerKey,
			ConsumerSecret: consumerSecret,
			CallbackURL:    callbackURL,
			Endpoint:       endpoint,
		},
		pending: make(map[string]pendingAuthorization),
	}
}

// BeginAuthorization obtains a request token and returns the URL to send
// the user to.
func (f *OAuthFlow) BeginAuthorization() (string, error) {
	requestToken, requestSecret, err := f.config.RequestToken()
	if err != nil {
		return "", fmt.Errorf("obtain request token: %w", err)
	}

	f.mu.Lock()
	f.pending[requestToken] = pendingAuthorization{
		secret:    requestSecret,
		createdAt: time.Now(),
	}
	f.mu.Unlock()

	authorizeURL, err := f.config.AuthorizationURL(requestToken)
	if err != nil {
		return "", fmt.Errorf("build authorization URL: %w", err)
	}
	return authorizeURL.String(), nil
}

// CompleteAuthorization trades the callback's token and verifier for the
// user's access credentials. Each request token is good for one attempt.
func (f *OAuthFlow) CompleteAuthorization(requestToken, verifier string) (models.OAuthCredentials, error) {
	if requestToken == "" || verifier == "" {
		return models.OAuthCredentials{}, fmt.Errorf("callback missing oauth_token or oauth_verifier")
	}

	f.mu.Lock()
	entry, ok := f.pending[requestToken]
	delete(f.pending, requestToken)
	f.mu.Unlock()

	if !ok {
		return models.OAuthCredentials{}, fmt.Errorf("unknown or already used request token")
	}
	if time.Since(entry.createdAt) > pendingTTL {
		return models.OAuthCredentials{}, fmt.Errorf("authorization attempt expired")
	}

	accessToken, accessSecret, err := f.config.AccessToken(requestToken, entry.secret, verifier)
	if err != nil {
		return models.OAuthCredentials{}, fmt.Errorf("exchange access token: %w", err)
	}
	return models.OAuthCredentials{Token: accessToken, Secret: accessSecret}, nil
}

// CleanupExpired drops abandoned sign-in attempts and returns how many were
// removed. Called periodically by the supervisor's cleanup service.
func (f *OAuthFlow) CleanupExpired() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	removed := 0
	for token, entry := range f.pending {
		if time.Since(entry.createdAt) > pendingTTL {
			delete(f.pending, token)
			removed++
		}
	}
	if removed > 0 {
		logging.Debug().Int("removed", removed).Msg("Dropped expired authorization attempts")
	}
	return removed
}
