package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisConfig configures the Redis connection
type RedisConfig struct {
	URL          string
	MaxRetries   int
	RetryBackoff time.Duration
	PoolSize     int
	MinIdleConns int
	KeyPrefix    string
}

// RedisAdapter keeps values as plain Redis strings
type RedisAdapter struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisAdapter connects to Redis and verifies the connection
func NewRedisAdapter(ctx context.Context, cfg RedisConfig, logger *zap.Logger) (*RedisAdapter, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	if cfg.MaxRetries > 0 {
		opts.MaxRetries = cfg.MaxRetries
	}
	if cfg.RetryBackoff > 0 {
		opts.MinRetryBackoff = cfg.RetryBackoff
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisAdapter{
		client: client,
		prefix: cfg.KeyPrefix,
		logger: logger,
	}, nil
}

func (a *RedisAdapter) key(key string) string {
	return a.prefix + key
}

// Get retrieves the value stored under key
func (a *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := a.client.Get(ctx, a.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		a.logger.Error("failed to get value from redis", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to get value: %w", err)
	}
	return value, nil
}

// Set replaces the value stored under key without expiry
func (a *RedisAdapter) Set(ctx context.Context, key string, value []byte) error {
	if err := a.client.Set(ctx, a.key(key), value, 0).Err(); err != nil {
		a.logger.Error("failed to set value in redis", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to set value: %w", err)
	}
	return nil
}

// Delete removes the value stored under key
func (a *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := a.client.Del(ctx, a.key(key)).Err(); err != nil {
		a.logger.Error("failed to delete value from redis", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to delete value: %w", err)
	}
	return nil
}

// Close releases the connection pool
func (a *RedisAdapter) Close() error {
	return a.client.Close()
}
