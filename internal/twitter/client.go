// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

// Package twitter is the OAuth1-signed Twitter API client used to post
// tweets on behalf of users. The app holds one consumer key pair; each call
// is signed with the acting user's access token.
package twitter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/chirpcast/chirpcast/internal/logging"
	"github.com/chirpcast/chirpcast/internal/metrics"
	"github.com/chirpcast/chirpcast/internal/models"
)

// DefaultAPIBaseURL is the Twitter REST API root.
const DefaultAPIBaseURL = "https://api.twitter.com/1.1"

const defaultTimeout = 10 * time.Second

// maxStatusRunes is Twitter's tweet length limit. Longer statuses are
// rejected locally before a signed call is wasted.
const maxStatusRunes = 280

// ErrStatusTooLong is returned before posting when the rendered status
// exceeds the tweet length limit.
var ErrStatusTooLong = errors.New("status exceeds 280 characters")

// Config configures the client. ConsumerKey and ConsumerSecret identify the
// application; user tokens are supplied per call.
type Config struct {
	ConsumerKey    string
	ConsumerSecret string
	APIBaseURL     string
	Timeout        time.Duration
}

// Client posts statuses through the Twitter REST API. A circuit breaker
// sits in front of the network: when Twitter itself is down or throttling,
// calls fail fast instead of piling up webhook handlers.
//
// User-level rejections (bad tokens, duplicate statuses) do not count as
// breaker failures; one user's revoked credentials must not cut off posting
// for everyone else.
type Client struct {
	oauthConfig *oauth1.Config
	baseURL     string
	timeout     time.Duration
	cb          *gobreaker.CircuitBreaker[*http.Response]
}

// NewClient builds a Twitter client from the app consumer credentials.
func NewClient(cfg Config) *Client {
	baseURL := cfg.APIBaseURL
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	cbName := "twitter-api"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		// Only availability problems open the circuit. A 4xx means
		// Twitter answered; the request was just bad.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.StatusCode < 500 && apiErr.StatusCode != 429
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state transition")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String(), stateToFloat(to))
		},
	})

	return &Client{
		oauthConfig: oauth1.NewConfig(cfg.ConsumerKey, cfg.ConsumerSecret),
		baseURL:     strings.TrimRight(baseURL, "/"),
		timeout:     timeout,
		cb:          cb,
	}
}

// PostStatus posts a tweet as the user identified by creds.
func (c *Client) PostStatus(ctx context.Context, creds models.OAuthCredentials, status string) error {
	if len([]rune(status)) > maxStatusRunes {
		return fmt.Errorf("%w (%d runes)", ErrStatusTooLong, len([]rune(status)))
	}

	form := url.Values{"status": {status}}
	start := time.Now()
	err := c.call(ctx, creds, http.MethodPost, "/statuses/update.json", form, nil)
	metrics.RecordTwitterCall("statuses/update", time.Since(start), errorType(err))
	return err
}

// VerifyCredentials confirms the token pair is valid and returns the
// account's screen name. Called once at the end of the OAuth sign-in flow.
func (c *Client) VerifyCredentials(ctx context.Context, creds models.OAuthCredentials) (string, error) {
	var account struct {
		ScreenName string `json:"screen_name"`
	}
	start := time.Now()
	err := c.call(ctx, creds, http.MethodGet, "/account/verify_credentials.json", nil, &account)
	metrics.RecordTwitterCall("account/verify_credentials", time.Since(start), errorType(err))
	if err != nil {
		return "", err
	}
	if account.ScreenName == "" {
		return "", fmt.Errorf("twitter: verify_credentials returned no screen name")
	}
	return account.ScreenName, nil
}

// call performs one signed API request through the circuit breaker and
// decodes the JSON response into out when out is non-nil.
func (c *Client) call(ctx context.Context, creds models.OAuthCredentials, method, path string, form url.Values, out interface{}) error {
	httpClient := c.oauthConfig.Client(ctx, oauth1.NewToken(creds.Token, creds.Secret))
	httpClient.Timeout = c.timeout

	resp, err := c.cb.Execute(func() (*http.Response, error) {
		var body io.Reader
		if form != nil {
			body = strings.NewReader(form.Encode())
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		if form != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("twitter request: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			defer resp.Body.Close()
			return nil, decodeAPIError(resp)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logging.Ctx(ctx).Warn().Str("path", path).Msg("Twitter call rejected by open circuit breaker")
			return fmt.Errorf("twitter unavailable: %w", err)
		}
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode twitter response: %w", err)
	}
	return nil
}

// decodeAPIError parses Twitter's error envelope:
//
//	{"errors": [{"code": 187, "message": "Status is a duplicate."}]}
func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var envelope struct {
		Errors []struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Errors) > 0 {
		first := envelope.Errors[0]
		return newAPIError(resp.StatusCode, first.Code, first.Message)
	}
	return newAPIError(resp.StatusCode, 0, strings.TrimSpace(string(body)))
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}
