package session

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisPreferenceStore persists preferences in Redis so the remember-me
// choice survives process restarts and is shared across instances.
type RedisPreferenceStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisPreferenceStore connects to Redis and verifies the connection
// with a ping.
func NewRedisPreferenceStore(redisURL string) (*RedisPreferenceStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisPreferenceStore{
		client:    client,
		keyPrefix: "storefront:prefs",
	}, nil
}

func (r *RedisPreferenceStore) key(k string) string {
	return r.keyPrefix + ":" + k
}

// Get retrieves a preference value, "" when absent
func (r *RedisPreferenceStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

// Set stores a preference value with no expiry
func (r *RedisPreferenceStore) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Delete removes a preference
func (r *RedisPreferenceStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection
func (r *RedisPreferenceStore) Close() error {
	return r.client.Close()
}
