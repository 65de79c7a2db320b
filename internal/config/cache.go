package config

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type RedisConfig struct {
	Addr string
}

func NewRedisConfig() *RedisConfig {
	return &RedisConfig{Addr: os.Getenv("REDIS_ADDR")}
}

// NewRedisClient connects to Redis when REDIS_ADDR is set. The cache is
// optional: a missing address or a failed ping returns nil and the portal
// serves every read from MongoDB.
func NewRedisClient(lc fx.Lifecycle, config *RedisConfig, logger *zap.Logger) *redis.Client {
	if config.Addr == "" {
		logger.Info("REDIS_ADDR not set, running without cache")
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: config.Addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable, continuing without cache", zap.Error(err))
		return nil
	}

	logger.Info("Connected to Redis", zap.String("addr", config.Addr))
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client
}
