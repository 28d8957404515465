package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisCart clears the buyer's cart kept by the storefront under cart:<user id>.
type RedisCart struct {
	client *redis.Client
}

func NewRedisCart(client *redis.Client) *RedisCart {
	return &RedisCart{client: client}
}

func cartKey(userID string) string {
	return "cart:" + userID
}

func (c *RedisCart) Clear(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart for %s: %w", userID, err)
	}
	return nil
}
