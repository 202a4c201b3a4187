// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis connects the Roots API to Redis.

Redis holds everything in the auth flow that must expire on its own:
hashed refresh sessions and the login attempt counters. Nothing stored
there is needed to rebuild a family tree, so losing it only signs
users out.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
	pingTimeout  = 2 * time.Second

	defaultPoolSize = 10
)

// ClientOptions configures the Redis connection.
type ClientOptions struct {
	URL      string
	PoolSize int
}

// NewClient parses the URL, applies the timeouts and pings the server once.
func NewClient(context stdctx.Context, options ClientOptions, logger *slog.Logger) (*redis.Client, error) {
	redisOptions, err := redis.ParseURL(options.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	redisOptions.PoolSize = defaultPoolSize
	if options.PoolSize > 0 {
		redisOptions.PoolSize = options.PoolSize
	}
	redisOptions.MinIdleConns = 1
	redisOptions.DialTimeout = dialTimeout
	redisOptions.ReadTimeout = readTimeout
	redisOptions.WriteTimeout = writeTimeout

	client := redis.NewClient(redisOptions)

	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", redisOptions.Addr),
		slog.Int("db", redisOptions.DB),
		slog.Int("pool_size", redisOptions.PoolSize),
	)

	return client, nil
}

// Ping checks that the server answers within a short deadline.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
