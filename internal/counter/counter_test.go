// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package counter

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dgraph-io/badger/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// newBadgerStore opens an in-memory Badger database for one test.
func newBadgerStore(t *testing.T) *BadgerStore {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewBadgerStore(db)
}

// newRedisStore spins up miniredis for one test.
func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStoreWithClient(client)
}

// stores returns every Store implementation under a descriptive name so the
// contract tests run against all of them.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"memory": NewMemoryStore(),
		"badger": newBadgerStore(t),
		"redis":  newRedisStore(t),
	}
}

func TestStoreStartsAtZero(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			got, err := store.Get(context.Background(), TotalJobs)
			require.NoError(t, err)
			require.Zero(t, got)
		})
	}
}

func TestStoreIncrement(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < 5; i++ {
				require.NoError(t, store.Increment(ctx, TotalJobs))
			}
			require.NoError(t, store.Increment(ctx, TotalErrors))

			jobs, err := store.Get(ctx, TotalJobs)
			require.NoError(t, err)
			require.EqualValues(t, 5, jobs)

			errs, err := store.Get(ctx, TotalErrors)
			require.NoError(t, err)
			require.EqualValues(t, 1, errs)
		})
	}
}

// TestStoreConcurrentIncrements verifies that N concurrent increments move
// the counter by exactly N on every implementation. Lost updates here are a
// correctness bug.
func TestStoreConcurrentIncrements(t *testing.T) {
	const workers = 50
	const perWorker = 20

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			var wg sync.WaitGroup
			wg.Add(workers)
			for i := 0; i < workers; i++ {
				go func() {
					defer wg.Done()
					for j := 0; j < perWorker; j++ {
						if err := store.Increment(ctx, TotalJobs); err != nil {
							t.Error(err)
							return
						}
					}
				}()
			}
			wg.Wait()

			got, err := store.Get(ctx, TotalJobs)
			require.NoError(t, err)
			require.EqualValues(t, workers*perWorker, got)
		})
	}
}

func TestRedisStoreSharedKeyspace(t *testing.T) {
	mr := miniredis.RunT(t)

	clientA := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	clientB := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = clientA.Close()
		_ = clientB.Close()
	})

	// Two stores on the same Redis see each other's increments, mirroring
	// multiple server processes sharing counters.
	storeA := NewRedisStoreWithClient(clientA)
	storeB := NewRedisStoreWithClient(clientB)

	ctx := context.Background()
	require.NoError(t, storeA.Increment(ctx, TotalJobs))
	require.NoError(t, storeB.Increment(ctx, TotalJobs))

	got, err := storeA.Get(ctx, TotalJobs)
	require.NoError(t, err)
	require.EqualValues(t, 2, got)
}

func TestBadgerStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)

	store := NewBadgerStore(db)
	ctx := context.Background()
	require.NoError(t, store.Increment(ctx, TotalErrors))
	require.NoError(t, db.Close())

	db, err = badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	got, err := NewBadgerStore(db).Get(ctx, TotalErrors)
	require.NoError(t, err)
	require.EqualValues(t, 1, got)
}
