package cache

import (
	"context"
	"errors"
	"time"

	"github.com/harish-v07/CreatorHub/internal/logger"
	"github.com/redis/go-redis/v9"
)

// AccountCache remembers creator id -> gateway account id lookups.
// Misses and backend errors look the same to callers.
type AccountCache interface {
	Get(ctx context.Context, creatorID string) (string, bool)
	Set(ctx context.Context, creatorID, accountID string)
	Invalidate(ctx context.Context, creatorID string)
}

type RedisAccountCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAccountCache returns a redis-backed cache, or a no-op one when client is nil.
func NewAccountCache(client *redis.Client, ttl time.Duration) AccountCache {
	if client == nil {
		return NopAccountCache{}
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisAccountCache{client: client, ttl: ttl}
}

func accountKey(creatorID string) string {
	return "creator:" + creatorID + ":gateway_account"
}

func (c *RedisAccountCache) Get(ctx context.Context, creatorID string) (string, bool) {
	val, err := c.client.Get(ctx, accountKey(creatorID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("Account cache get failed for %s: %v", creatorID, err)
		}
		return "", false
	}
	return val, true
}

func (c *RedisAccountCache) Set(ctx context.Context, creatorID, accountID string) {
	if err := c.client.Set(ctx, accountKey(creatorID), accountID, c.ttl).Err(); err != nil {
		logger.Warn("Account cache set failed for %s: %v", creatorID, err)
	}
}

func (c *RedisAccountCache) Invalidate(ctx context.Context, creatorID string) {
	if err := c.client.Del(ctx, accountKey(creatorID)).Err(); err != nil {
		logger.Warn("Account cache invalidate failed for %s: %v", creatorID, err)
	}
}

// NopAccountCache always misses.
type NopAccountCache struct{}

func (NopAccountCache) Get(context.Context, string) (string, bool) { return "", false }
func (NopAccountCache) Set(context.Context, string, string)         {}
func (NopAccountCache) Invalidate(context.Context, string)          {}
