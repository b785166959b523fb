// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package twitter

import (
	"errors"
	"fmt"
)

// Sentinel errors for the Twitter API failures callers care about. All are
// wrapped in an *APIError carrying the HTTP status and Twitter error code.
var (
	// ErrDuplicateStatus: Twitter refused the tweet as an exact duplicate
	// of a recent one (error code 187).
	ErrDuplicateStatus = errors.New("duplicate status")

	// ErrRateLimited: the user or app hit a rate limit (HTTP 429 or error
	// code 88).
	ErrRateLimited = errors.New("rate limited")

	// ErrUnauthorized: the OAuth credentials were rejected (HTTP 401).
	ErrUnauthorized = errors.New("invalid or expired credentials")
)

// Twitter API error codes.
const (
	codeRateLimited      = 88
	codeInvalidOrExpired = 89
	codeDuplicateStatus  = 187
)

// APIError is a non-2xx response from the Twitter API.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
	wrapped    error
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("twitter: %d (code %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("twitter: %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.wrapped
}

// newAPIError classifies the response so errors.Is works against the
// sentinels above.
func newAPIError(statusCode, code int, message string) *APIError {
	e := &APIError{StatusCode: statusCode, Code: code, Message: message}
	switch {
	case code == codeDuplicateStatus:
		e.wrapped = ErrDuplicateStatus
	case statusCode == 429 || code == codeRateLimited:
		e.wrapped = ErrRateLimited
	case statusCode == 401 || code == codeInvalidOrExpired:
		e.wrapped = ErrUnauthorized
	}
	return e
}

// errorType maps a call error to a low-cardinality metrics label.
func errorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDuplicateStatus):
		return "duplicate"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	default:
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return "api"
		}
		return "network"
	}
}
