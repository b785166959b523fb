// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package counter

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "chirpcast:counters:"

const defaultDialTimeout = 5 * time.Second

// RedisConfig configures a Redis-backed counter store connection.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
}

// RedisStore is a counter store backed by Redis INCR. Redis increments are
// atomic server-side, so counters stay correct across concurrent deliveries
// and across multiple Chirpcast processes sharing the same Redis.
type RedisStore struct {
	client goredis.UniversalClient
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Username:    cfg.Username,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: defaultDialTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreWithClient wraps an existing client. Used by tests.
func NewRedisStoreWithClient(client goredis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Increment atomically adds one to the named counter via INCR.
func (s *RedisStore) Increment(ctx context.Context, name string) error {
	if err := s.client.Incr(ctx, redisKeyPrefix+name).Err(); err != nil {
		return fmt.Errorf("incr %s: %w", name, err)
	}
	return nil
}

// Get returns the current value of the named counter. Missing keys read as
// zero.
func (s *RedisStore) Get(ctx context.Context, name string) (int64, error) {
	val, err := s.client.Get(ctx, redisKeyPrefix+name).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", name, err)
	}
	return val, nil
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
