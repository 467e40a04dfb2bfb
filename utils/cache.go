// File: utils/cache.go
package utils

import (
	"context"
	"errors"
	"log"
	"time"

	"cliniq/config"

	"github.com/go-redis/redis/v8"
)

// RollupCachePrefix is the prefix used for cached analytics rollups.
const RollupCachePrefix = "rollup:"

// ErrCacheMiss is returned when a key has no cached value.
var ErrCacheMiss = errors.New("cache miss")

// CacheClient is the generic cache client, used for analytics rollups.
var CacheClient *redis.Client

// InitCache initializes the Redis cache client.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := CacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// RedisRollupCache stores serialized analytics rollups in Redis under
// RollupCachePrefix keys.
type RedisRollupCache struct {
	Client *redis.Client
}

// NewRollupCache wraps a Redis client as a rollup cache.
func NewRollupCache(client *redis.Client) *RedisRollupCache {
	return &RedisRollupCache{Client: client}
}

// Get returns the cached payload for key, or ErrCacheMiss.
func (c *RedisRollupCache) Get(ctx context.Context, key string) ([]byte, error) {
	payload, err := c.Client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// Set stores payload under key for ttl.
func (c *RedisRollupCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return c.Client.Set(ctx, key, payload, ttl).Err()
}

// Invalidate drops every cached rollup. Called after appointment writes so
// dashboards never serve stale aggregates past one scan.
func (c *RedisRollupCache) Invalidate(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.Client.Scan(ctx, cursor, RollupCachePrefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.Client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
