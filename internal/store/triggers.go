// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/chirpcast/chirpcast/internal/models"
)

// CreateTrigger stores a new trigger. The trigger must already carry its
// hash; assignment happens in the trigger package before the first save.
func (s *Store) CreateTrigger(ctx context.Context, trigger *models.Trigger) error {
	if trigger.Hash == "" {
		return fmt.Errorf("trigger has no hash")
	}
	if trigger.UserID == "" {
		return fmt.Errorf("trigger has no owner")
	}

	now := time.Now().UTC()
	trigger.CreatedAt = now
	trigger.UpdatedAt = now

	data, err := json.Marshal(trigger)
	if err != nil {
		return fmt.Errorf("marshal trigger: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(triggerKeyPrefix + trigger.Hash)

		// The hash is globally unique and assigned exactly once.
		if _, err := txn.Get(key); err == nil {
			return fmt.Errorf("trigger hash %q already exists", trigger.Hash)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check trigger: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set trigger: %w", err)
		}

		indexKey := []byte(userTriggerKeyPrefix + trigger.UserID + ":" + trigger.Hash)
		if err := txn.Set(indexKey, []byte(trigger.Hash)); err != nil {
			return fmt.Errorf("set owner index: %w", err)
		}
		return nil
	})
}

// GetTrigger retrieves a trigger by its public hash.
func (s *Store) GetTrigger(ctx context.Context, hash string) (*models.Trigger, error) {
	var trigger models.Trigger

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(triggerKeyPrefix + hash))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrTriggerNotFound
		}
		if err != nil {
			return fmt.Errorf("get trigger: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &trigger)
		})
	})
	if err != nil {
		return nil, err
	}
	return &trigger, nil
}

// UpdateTriggerTweet replaces the tweet template of an existing trigger.
// The hash never changes across edits.
func (s *Store) UpdateTriggerTweet(ctx context.Context, hash, tweet string) (*models.Trigger, error) {
	var trigger models.Trigger

	err := s.db.Update(func(txn *badger.Txn) error {
		key := []byte(triggerKeyPrefix + hash)
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrTriggerNotFound
		}
		if err != nil {
			return fmt.Errorf("get trigger: %w", err)
		}

		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &trigger)
		}); err != nil {
			return fmt.Errorf("unmarshal trigger: %w", err)
		}

		trigger.Tweet = tweet
		trigger.UpdatedAt = time.Now().UTC()

		data, err := json.Marshal(&trigger)
		if err != nil {
			return fmt.Errorf("marshal trigger: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return nil, err
	}
	return &trigger, nil
}

// DeleteTrigger removes a trigger and its ownership index entry. Deleting a
// trigger that does not exist returns ErrTriggerNotFound.
func (s *Store) DeleteTrigger(ctx context.Context, hash string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(triggerKeyPrefix + hash)
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrTriggerNotFound
		}
		if err != nil {
			return fmt.Errorf("get trigger: %w", err)
		}

		var trigger models.Trigger
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &trigger)
		}); err != nil {
			return fmt.Errorf("unmarshal trigger: %w", err)
		}

		if err := txn.Delete(key); err != nil {
			return fmt.Errorf("delete trigger: %w", err)
		}

		indexKey := []byte(userTriggerKeyPrefix + trigger.UserID + ":" + hash)
		if err := txn.Delete(indexKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete owner index: %w", err)
		}
		return nil
	})
}

// ListTriggersByUser returns all triggers owned by the given user, newest
// first.
func (s *Store) ListTriggersByUser(ctx context.Context, userID string) ([]*models.Trigger, error) {
	var triggers []*models.Trigger

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(userTriggerKeyPrefix + userID + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var hash string
			if err := it.Item().Value(func(val []byte) error {
				hash = string(val)
				return nil
			}); err != nil {
				continue
			}

			item, err := txn.Get([]byte(triggerKeyPrefix + hash))
			if err != nil {
				// Index entry without a record; skip rather than fail the
				// whole listing.
				continue
			}

			var trigger models.Trigger
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &trigger)
			}); err != nil {
				continue
			}
			triggers = append(triggers, &trigger)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list triggers: %w", err)
	}

	sort.Slice(triggers, func(i, j int) bool {
		return triggers[i].CreatedAt.After(triggers[j].CreatedAt)
	})
	return triggers, nil
}
