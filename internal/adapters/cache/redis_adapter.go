package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guiomkt/cheff-guio-sub000/internal/domain/providers"
	redisclient "github.com/guiomkt/cheff-guio-sub000/internal/infrastructure/clients/redis"
)

// RedisAdapter keeps cache snapshots in Redis under a shared namespace so
// several services can use one database.
type RedisAdapter struct {
	client    *redisclient.Client
	namespace string
}

// NewRedisAdapter creates a cache whose keys are stored as "<namespace>:<key>"
func NewRedisAdapter(client *redisclient.Client, namespace string) providers.CacheProvider {
	return &RedisAdapter{
		client:    client,
		namespace: namespace,
	}
}

func (a *RedisAdapter) redisKey(key string) string {
	if a.namespace == "" {
		return key
	}
	return a.namespace + ":" + key
}

// Get returns the snapshot under key
func (a *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := a.client.Client().Get(ctx, a.redisKey(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, providers.ErrCacheMiss
	case err != nil:
		return nil, fmt.Errorf("cache get %q: %w", key, err)
	}
	return value, nil
}

// Set stores value under key. Redis treats a zero expiration as "keep".
func (a *RedisAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := a.client.Client().Set(ctx, a.redisKey(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

// Invalidate deletes all keys in one round trip
func (a *RedisAdapter) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	redisKeys := make([]string, len(keys))
	for i, key := range keys {
		redisKeys[i] = a.redisKey(key)
	}

	if err := a.client.Client().Del(ctx, redisKeys...).Err(); err != nil {
		return fmt.Errorf("cache invalidate %v: %w", keys, err)
	}
	return nil
}
