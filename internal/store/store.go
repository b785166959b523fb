// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

// Package store persists triggers and users in BadgerDB.
//
// Records are stored as JSON values under typed key prefixes:
//
//	trigger:<hash>                 -> models.Trigger
//	user_trigger:<userID>:<hash>   -> <hash>         (ownership index)
//	user:<id>                      -> models.User
//	user_name:<twitterName>        -> <id>           (login lookup index)
//
// The same Badger database also hosts the fallback delivery counters (see
// the counter package); each concern keeps to its own prefix.
package store

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/chirpcast/chirpcast/internal/logging"
)

// Key prefixes for BadgerDB storage.
const (
	triggerKeyPrefix     = "trigger:"
	userTriggerKeyPrefix = "user_trigger:"
	userKeyPrefix        = "user:"
	userNameKeyPrefix    = "user_name:"
)

// Sentinel errors returned by lookups.
var (
	ErrTriggerNotFound = errors.New("trigger not found")
	ErrUserNotFound    = errors.New("user not found")
)

// Store wraps a Badger database with trigger and user operations.
type Store struct {
	db *badger.DB
}

// Options configures Open.
type Options struct {
	// Path is the on-disk directory. Ignored when InMemory is set.
	Path string

	// InMemory runs Badger without persistence. Used in development and
	// tests.
	InMemory bool
}

// Open opens (or creates) the Badger database.
func Open(opts Options) (*Store, error) {
	badgerOpts := badger.DefaultOptions(opts.Path).
		WithInMemory(opts.InMemory).
		WithLogger(nil)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", opts.Path, err)
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing Badger database. Used by tests and by callers
// that share the database with the counter store.
func NewWithDB(db *badger.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying Badger handle so collaborators (the fallback
// counter store) can share the database.
func (s *Store) DB() *badger.DB {
	return s.db
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is usable. Used by the readiness probe.
func (s *Store) Ping() error {
	return s.db.View(func(*badger.Txn) error { return nil })
}

// RunGC runs one value-log garbage collection cycle. Badger recommends
// calling this periodically; ErrNoRewrite simply means there was nothing to
// collect.
func (s *Store) RunGC() {
	if s.db.Opts().InMemory {
		return
	}
	err := s.db.RunValueLogGC(0.5)
	switch {
	case err == nil:
		logging.Debug().Msg("Badger value log GC rewrote a file")
	case errors.Is(err, badger.ErrNoRewrite):
		// Nothing to collect this cycle.
	default:
		logging.Warn().Err(err).Msg("Badger value log GC failed")
	}
}
