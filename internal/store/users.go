// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/chirpcast/chirpcast/internal/models"
)

// UpsertUser finds the user with the given Twitter name, creating one when
// absent, and stores the freshest OAuth token pair. The OAuth flow calls
// this on every successful callback because Twitter may rotate tokens.
func (s *Store) UpsertUser(ctx context.Context, twitterName, oauthToken, oauthSecret string) (*models.User, error) {
	var user models.User

	err := s.db.Update(func(txn *badger.Txn) error {
		nameKey := []byte(userNameKeyPrefix + twitterName)
		now := time.Now().UTC()

		item, err := txn.Get(nameKey)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			user = models.User{
				ID:          uuid.New().String(),
				TwitterName: twitterName,
				CreatedAt:   now,
			}
		case err != nil:
			return fmt.Errorf("lookup user name: %w", err)
		default:
			var id string
			if err := item.Value(func(val []byte) error {
				id = string(val)
				return nil
			}); err != nil {
				return fmt.Errorf("read user name index: %w", err)
			}

			userItem, err := txn.Get([]byte(userKeyPrefix + id))
			if err != nil {
				return fmt.Errorf("get user %s: %w", id, err)
			}
			if err := userItem.Value(func(val []byte) error {
				return json.Unmarshal(val, &user)
			}); err != nil {
				return fmt.Errorf("unmarshal user: %w", err)
			}
		}

		user.OAuthToken = oauthToken
		user.OAuthSecret = oauthSecret
		user.UpdatedAt = now

		data, err := json.Marshal(&user)
		if err != nil {
			return fmt.Errorf("marshal user: %w", err)
		}
		if err := txn.Set([]byte(userKeyPrefix+user.ID), data); err != nil {
			return fmt.Errorf("set user: %w", err)
		}
		return txn.Set(nameKey, []byte(user.ID))
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUser retrieves a user by internal id.
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		})
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByName retrieves a user by Twitter screen name.
func (s *Store) GetUserByName(ctx context.Context, twitterName string) (*models.User, error) {
	var id string

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userNameKeyPrefix + twitterName))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("lookup user name: %w", err)
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}
