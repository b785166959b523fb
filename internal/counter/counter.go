// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

// Package counter provides the shared delivery counters.
//
// The delivery engine increments two monotonic, process-shared counters:
// TotalJobs (successful deliveries) and TotalErrors (failed deliveries).
// Increments must be atomic; concurrent deliveries losing updates is a
// correctness bug, not an acceptable race. The engine holds a Store handle
// injected at construction, never package-level state.
//
// Three implementations are provided:
//
//   - RedisStore: shared across processes, the production default when Redis
//     is configured
//   - BadgerStore: single-node persistent fallback
//   - MemoryStore: in-process atomics, used by tests and ephemeral runs
package counter

import (
	"context"
)

// Counter names. There is deliberately no reset operation.
const (
	TotalJobs   = "total_jobs"
	TotalErrors = "total_errors"
)

// Store is an atomic counter store.
//
// Increment must be safe for concurrent use and must never lose updates:
// implementations use a native atomic increment (Redis INCR, Badger
// transaction retry, sync/atomic) rather than read-modify-write.
type Store interface {
	// Increment atomically adds one to the named counter.
	Increment(ctx context.Context, name string) error

	// Get returns the current value of the named counter. Counters that
	// have never been incremented read as zero.
	Get(ctx context.Context, name string) (int64, error)
}
