package settings

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps settings in a single Redis hash.
type RedisStore struct {
	client *redis.Client
	key    string
	closed atomic.Bool
}

// NewRedisStore returns a store backed by the hash at key. The connection is
// verified with a PING; on failure the client is closed.
func NewRedisStore(ctx context.Context, client *redis.Client, key string) (*RedisStore, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client, key: key}, nil
}

// Get reads key from the settings hash; a missing field is not an error.
func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	if r.closed.Load() {
		return "", false, ErrClosed
	}
	v, err := r.client.HGet(ctx, r.key, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %q: %w", key, err)
	}
	return v, true, nil
}

// Set writes value to key in the settings hash.
func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if r.closed.Load() {
		return ErrClosed
	}
	if err := r.client.HSet(ctx, r.key, key, value).Err(); err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// All returns the whole settings hash.
func (r *RedisStore) All(ctx context.Context) (map[string]string, error) {
	if r.closed.Load() {
		return nil, ErrClosed
	}
	m, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return m, nil
}

// Ping performs a health check by sending a PING command.
func (r *RedisStore) Ping(ctx context.Context) error {
	if r.closed.Load() {
		return ErrClosed
	}
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (r *RedisStore) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	return r.client.Close()
}
