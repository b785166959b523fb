// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirpcast/chirpcast/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateAndGetTrigger(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	trigger := &models.Trigger{
		Hash:   "ab0873bb6e418b95b2b3ab2a8102b1d078f09e47",
		UserID: "user-1",
		Tweet:  "Temperature is {value}",
	}
	require.NoError(t, s.CreateTrigger(ctx, trigger))
	assert.False(t, trigger.CreatedAt.IsZero())

	got, err := s.GetTrigger(ctx, trigger.Hash)
	require.NoError(t, err)
	assert.Equal(t, trigger.Hash, got.Hash)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "Temperature is {value}", got.Tweet)
}

func TestCreateTriggerRejectsDuplicateHash(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	trigger := &models.Trigger{Hash: "deadbeef", UserID: "user-1", Tweet: "a"}
	require.NoError(t, s.CreateTrigger(ctx, trigger))

	dup := &models.Trigger{Hash: "deadbeef", UserID: "user-2", Tweet: "b"}
	err := s.CreateTrigger(ctx, dup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCreateTriggerRequiresHashAndOwner(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	err := s.CreateTrigger(ctx, &models.Trigger{UserID: "user-1"})
	require.Error(t, err)

	err = s.CreateTrigger(ctx, &models.Trigger{Hash: "deadbeef"})
	require.Error(t, err)
}

func TestGetTriggerNotFound(t *testing.T) {
	s := testStore(t)

	_, err := s.GetTrigger(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTriggerNotFound)
}

func TestUpdateTriggerTweetPreservesHash(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	trigger := &models.Trigger{Hash: "cafebabe", UserID: "user-1", Tweet: "old {value}"}
	require.NoError(t, s.CreateTrigger(ctx, trigger))

	updated, err := s.UpdateTriggerTweet(ctx, "cafebabe", "new {value} at {time}")
	require.NoError(t, err)
	assert.Equal(t, "cafebabe", updated.Hash)
	assert.Equal(t, "new {value} at {time}", updated.Tweet)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))

	got, err := s.GetTrigger(ctx, "cafebabe")
	require.NoError(t, err)
	assert.Equal(t, "new {value} at {time}", got.Tweet)
}

func TestUpdateTriggerTweetNotFound(t *testing.T) {
	s := testStore(t)

	_, err := s.UpdateTriggerTweet(context.Background(), "missing", "x")
	assert.ErrorIs(t, err, ErrTriggerNotFound)
}

func TestDeleteTrigger(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	trigger := &models.Trigger{Hash: "feedface", UserID: "user-1", Tweet: "x"}
	require.NoError(t, s.CreateTrigger(ctx, trigger))
	require.NoError(t, s.DeleteTrigger(ctx, "feedface"))

	_, err := s.GetTrigger(ctx, "feedface")
	assert.ErrorIs(t, err, ErrTriggerNotFound)

	assert.ErrorIs(t, s.DeleteTrigger(ctx, "feedface"), ErrTriggerNotFound)

	// The ownership index entry goes with the record.
	list, err := s.ListTriggersByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListTriggersByUser(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, h := range []string{"hash-a", "hash-b", "hash-c"} {
		require.NoError(t, s.CreateTrigger(ctx, &models.Trigger{
			Hash:   h,
			UserID: "user-1",
			Tweet:  "t",
		}))
	}
	require.NoError(t, s.CreateTrigger(ctx, &models.Trigger{
		Hash:   "hash-other",
		UserID: "user-2",
		Tweet:  "t",
	}))

	list, err := s.ListTriggersByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	for _, tr := range list {
		assert.Equal(t, "user-1", tr.UserID)
	}

	empty, err := s.ListTriggersByUser(ctx, "user-none")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUpsertUserCreatesAndUpdates(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	created, err := s.UpsertUser(ctx, "alice", "token-1", "secret-1")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "alice", created.TwitterName)
	assert.Equal(t, "token-1", created.OAuthToken)

	// A second login with rotated tokens keeps the same identity.
	updated, err := s.UpsertUser(ctx, "alice", "token-2", "secret-2")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "token-2", updated.OAuthToken)
	assert.Equal(t, "secret-2", updated.OAuthSecret)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	got, err := s.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "token-2", got.OAuthToken)
}

func TestGetUserByName(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	created, err := s.UpsertUser(ctx, "bob", "tok", "sec")
	require.NoError(t, err)

	got, err := s.GetUserByName(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = s.GetUserByName(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUserNotFound(t *testing.T) {
	s := testStore(t)

	_, err := s.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPing(t *testing.T) {
	s := testStore(t)
	assert.NoError(t, s.Ping())
}
