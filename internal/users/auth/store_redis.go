// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/roots/internal/platform/constants"
	"github.com/taibuivan/roots/internal/platform/dberr"
)

// # Refresh Sessions

// RedisSessionStore implements [SessionStore] with one key per refresh token.
type RedisSessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a Redis-backed [SessionStore].
func NewSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (store *RedisSessionStore) Save(context context.Context, tokenHash, userID string, ttl time.Duration) error {
	if err := store.client.Set(context, constants.RedisPrefixSession+tokenHash, userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}
	return nil
}

func (store *RedisSessionStore) Take(context context.Context, tokenHash string) (string, error) {
	userID, err := store.client.GetDel(context, constants.RedisPrefixSession+tokenHash).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", dberr.ErrNotFound
		}
		return "", fmt.Errorf("redis_session_take_failed: %w", err)
	}
	return userID, nil
}

func (store *RedisSessionStore) Delete(context context.Context, tokenHash string) error {
	if err := store.client.Del(context, constants.RedisPrefixSession+tokenHash).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}

// # Attempt Counters

// RedisAttemptCounter implements [AttemptCounter] as INCR with a window expiry.
type RedisAttemptCounter struct {
	client *redis.Client
}

// NewAttemptCounter creates a Redis-backed [AttemptCounter].
func NewAttemptCounter(client *redis.Client) *RedisAttemptCounter {
	return &RedisAttemptCounter{client: client}
}

/*
Hit increments the counter and starts the window on the first attempt.

The expiry is only set when the key has none, so repeated attempts never
extend a running window.
*/
func (counter *RedisAttemptCounter) Hit(context context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)

	_, err := counter.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(context, key)
		pipe.ExpireNX(context, key, window)
		ttl = pipe.TTL(context, key)
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("redis_attempt_hit_failed: %w", err)
	}

	remaining := ttl.Val()
	if remaining <= 0 {
		remaining = window
	}
	return incr.Val(), remaining, nil
}

func (counter *RedisAttemptCounter) Reset(context context.Context, key string) error {
	if err := counter.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_attempt_reset_failed: %w", err)
	}
	return nil
}
