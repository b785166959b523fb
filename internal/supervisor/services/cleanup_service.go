// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package services

import (
	"context"
	"time"

	"github.com/chirpcast/chirpcast/internal/logging"
)

// ExpiredCleaner matches the OAuth flow's pending-authorization sweeper.
//
// Satisfied by *auth.OAuthFlow from internal/auth.
type ExpiredCleaner interface {
	CleanupExpired() int
}

// OAuthCleanupService periodically sweeps expired pending Twitter
// authorizations so abandoned sign-in attempts don't accumulate.
type OAuthCleanupService struct {
	cleaner  ExpiredCleaner
	interval time.Duration
	name     string
}

// NewOAuthCleanupService creates a new cleanup loop.
func NewOAuthCleanupService(cleaner ExpiredCleaner, interval time.Duration) *OAuthCleanupService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &OAuthCleanupService{
		cleaner:  cleaner,
		interval: interval,
		name:     "oauth-cleanup",
	}
}

// Serve implements suture.Service.
func (s *OAuthCleanupService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if removed := s.cleaner.CleanupExpired(); removed > 0 {
				logging.Debug().Int("removed", removed).Msg("Swept expired pending authorizations")
			}
		}
	}
}

// String implements fmt.Stringer for logging.
func (s *OAuthCleanupService) String() string {
	return s.name
}
