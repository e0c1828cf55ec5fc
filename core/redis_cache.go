package core

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisCache is a Redis-backed implementation of the Cache interface for
// deployments that share a response cache across processes. Expiry is
// delegated to Redis TTLs.
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
	logger    Logger
}

// NewRedisCache connects to Redis and verifies the connection with a ping.
func NewRedisCache(redisURL, keyPrefix string) (*RedisCache, error) {
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

	if keyPrefix == "" {
		keyPrefix = "storefront:cache"
	}

	return &RedisCache{
		client:    client,
		keyPrefix: keyPrefix,
		logger:    &NoOpLogger{},
	}, nil
}

// SetLogger configures the logger for this cache
func (r *RedisCache) SetLogger(logger Logger) {
	if logger != nil {
		r.logger = logger
	}
}

func (r *RedisCache) key(k string) string {
	return r.keyPrefix + ":" + k
}

// Get retrieves a cached payload
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	r.logger.Debug("Cache hit", map[string]interface{}{
		"operation": "cache_get",
		"key":       key,
		"provider":  "redis",
	})
	return data, true, nil
}

// Set stores a payload; the TTL is enforced server-side by Redis
func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Delete removes a single entry
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// Clear removes every entry under this cache's prefix
func (r *RedisCache) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.keyPrefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis clear failed: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection
func (r *RedisCache) Close() error {
	return r.client.Close()
}
