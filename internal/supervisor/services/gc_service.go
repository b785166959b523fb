// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package services

import (
	"context"
	"time"
)

// GarbageCollector matches the store's value-log GC method.
//
// Satisfied by *store.Store from internal/store.
type GarbageCollector interface {
	RunGC()
}

// BadgerGCService runs Badger value-log garbage collection on a fixed
// interval as a supervised service. Badger does not reclaim value-log
// space on its own; the embedding application has to drive it.
type BadgerGCService struct {
	gc       GarbageCollector
	interval time.Duration
	name     string
}

// NewBadgerGCService creates a new GC loop. Intervals below one minute
// are clamped; GC is cheap but not free, and running it more often than
// that just burns IO.
func NewBadgerGCService(gc GarbageCollector, interval time.Duration) *BadgerGCService {
	if interval < time.Minute {
		interval = 5 * time.Minute
	}
	return &BadgerGCService{
		gc:       gc,
		interval: interval,
		name:     "badger-gc",
	}
}

// Serve implements suture.Service. It runs one GC cycle per tick until
// the context is canceled.
func (s *BadgerGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.gc.RunGC()
		}
	}
}

// String implements fmt.Stringer for logging.
func (s *BadgerGCService) String() string {
	return s.name
}
