package fxsource

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tellimer/econify/domain"
)

// RedisCache is the second-tier Cache implementation for Source, grounded
// in the teacher's RedisGridCache (src/storage/grid_cache_redis.go): a
// thin JSON-over-Redis layer with a configurable key prefix and TTL.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache constructs a RedisCache. An empty prefix defaults to
// "econify:fx:".
func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	if prefix == "" {
		prefix = "econify:fx:"
	}
	return &RedisCache{client: client, prefix: prefix}
}

// Get implements Cache.Get.
func (c *RedisCache) Get(ctx context.Context, key string) (domain.FXTable, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Result()
	if err == redis.Nil {
		return domain.FXTable{}, false, nil
	}
	if err != nil {
		return domain.FXTable{}, false, err
	}

	var table domain.FXTable
	if err := json.Unmarshal([]byte(val), &table); err != nil {
		return domain.FXTable{}, false, err
	}
	return table, true, nil
}

// Set implements Cache.Set.
func (c *RedisCache) Set(ctx context.Context, key string, table domain.FXTable, ttl time.Duration) error {
	payload, err := json.Marshal(table)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.prefix+key, payload, ttl).Err()
}
