package cache

import (
	"context"
	"fmt"

	"github.com/harish-v07/CreatorHub/internal/config"
	"github.com/harish-v07/CreatorHub/internal/logger"
	"github.com/redis/go-redis/v9"
)

// Connect returns a client for cfg, or nil when no address is configured.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect redis at %s: %w", cfg.Addr, err)
	}

	logger.Info("Redis connected at %s", cfg.Addr)
	return client, nil
}
