// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package counter

import (
	"context"
	"sync"
	"sync/atomic"
)

// MemoryStore is an in-process counter store backed by sync/atomic.
// Counters do not survive restarts; use RedisStore or BadgerStore when
// persistence matters.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]*atomic.Int64
}

// NewMemoryStore creates an empty in-memory counter store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: make(map[string]*atomic.Int64)}
}

// counter returns the named counter, creating it on first use.
func (s *MemoryStore) counter(name string) *atomic.Int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.counters[name]
	if !ok {
		c = &atomic.Int64{}
		s.counters[name] = c
	}
	return c
}

// Increment atomically adds one to the named counter.
func (s *MemoryStore) Increment(_ context.Context, name string) error {
	s.counter(name).Add(1)
	return nil
}

// Get returns the current value of the named counter.
func (s *MemoryStore) Get(_ context.Context, name string) (int64, error) {
	return s.counter(name).Load(), nil
}
