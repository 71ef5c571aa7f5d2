package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces calculator keys in a shared Redis.
const DefaultRedisPrefix = "abacus:"

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	// URL is the Redis connection URL (required).
	// Format: redis://[:password@]host:port[/db]
	URL string
	// Prefix is prepended to every key (default abacus:).
	Prefix string
	// Timeout is the per-operation timeout (default 5s).
	Timeout time.Duration
}

// Redis stores keys as plain Redis strings.
type Redis struct {
	config RedisConfig
	client *goredis.Client
}

// NewRedis creates a Redis-backed store. It does not dial until first use.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis store requires a URL")
	}
	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis store: invalid URL: %w", err)
	}
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultRedisPrefix
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Redis{config: cfg, client: goredis.NewClient(opts)}, nil
}

// Get implements Store.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	value, err := r.client.Get(ctx, r.config.Prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, NewStorageError(ErrNotFound, "get", key, err)
	}
	if err != nil {
		return nil, wrap(err, "get", key)
	}
	return value, nil
}

// Set implements Store.
func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()
	return wrap(r.client.Set(ctx, r.config.Prefix+key, value, 0).Err(), "set", key)
}

// Delete implements Store.
func (r *Redis) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()
	return wrap(r.client.Del(ctx, r.config.Prefix+key).Err(), "delete", key)
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
