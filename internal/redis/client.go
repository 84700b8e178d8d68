package redisdb

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"go-mythos/internal/config"
)

// NewClient builds a client from the redis section of the config. Redis is
// optional for the objective engine: when no address is configured this
// returns nil and callers fall back to their in-memory paths.
func NewClient(cfg *config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// Ping reports whether the configured server answers within the timeout.
// A nil client is simply "not configured", not an error.
func Ping(client *redis.Client, timeout time.Duration) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return client.Ping(ctx).Err()
}
