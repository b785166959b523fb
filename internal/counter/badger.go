// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package counter

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"
)

const badgerKeyPrefix = "counter:"

// BadgerStore is a counter store persisted in BadgerDB. It is the fallback
// when no Redis is configured: counters survive restarts but are local to
// one node.
//
// Badger transactions are serializable and conflict-checked, so Increment
// retries on write conflicts instead of losing updates.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore creates a counter store on an existing Badger database.
// The database is shared with the trigger/user store; counter keys live
// under their own prefix.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Increment atomically adds one to the named counter. Conflicting
// concurrent transactions are retried until one wins; every call therefore
// contributes exactly one increment.
func (s *BadgerStore) Increment(_ context.Context, name string) error {
	key := []byte(badgerKeyPrefix + name)

	for {
		err := s.db.Update(func(txn *badger.Txn) error {
			current, err := readCounter(txn, key)
			if err != nil {
				return err
			}
			return txn.Set(key, []byte(strconv.FormatInt(current+1, 10)))
		})
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		if err != nil {
			return fmt.Errorf("increment %s: %w", name, err)
		}
		return nil
	}
}

// Get returns the current value of the named counter.
func (s *BadgerStore) Get(_ context.Context, name string) (int64, error) {
	var value int64
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		value, err = readCounter(txn, []byte(badgerKeyPrefix+name))
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", name, err)
	}
	return value, nil
}

// readCounter reads a counter value inside a transaction; missing keys read
// as zero.
func readCounter(txn *badger.Txn, key []byte) (int64, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var value int64
	err = item.Value(func(val []byte) error {
		parsed, perr := strconv.ParseInt(string(val), 10, 64)
		if perr != nil {
			return fmt.Errorf("corrupt counter value %q: %w", val, perr)
		}
		value = parsed
		return nil
	})
	return value, err
}
