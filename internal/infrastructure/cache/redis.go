package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/turtacn/BrandLens-AI/pkg/errors"
)

// RedisCache is a Cache backed by Redis, for sharing memoized query sets and
// completions across engine processes.  Concurrent Gets for the same key are
// collapsed through singleflight so a cold key hits Redis once.
type RedisCache struct {
	client *redis.Client
	prefix string
	group  singleflight.Group
}

// RedisConfig carries the connection settings for a RedisCache.
type RedisConfig struct {
	Addr     string `json:"addr" mapstructure:"addr"`
	Password string `json:"password" mapstructure:"password"`
	DB       int    `json:"db" mapstructure:"db"`
	// KeyPrefix namespaces every key; defaults to "brandlens:".
	KeyPrefix string `json:"key_prefix" mapstructure:"key_prefix"`
}

// NewRedisCache connects to Redis and verifies the connection with a ping.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	if cfg.Addr == "" {
		return nil, apperrors.Configuration("redis cache requires an address")
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "brandlens:"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeConfiguration, "redis ping failed")
	}
	return &RedisCache{client: client, prefix: prefix}, nil
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	full := c.prefix + key
	payload, err, _ := c.group.Do(full, func() (interface{}, error) {
		raw, err := c.client.Get(ctx, full).Bytes()
		if err == redis.Nil {
			return nil, ErrMiss
		}
		if err != nil {
			return nil, fmt.Errorf("redis get %s: %w", full, err)
		}
		return raw, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(payload.([]byte), dest)
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, key string, val interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(val)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.prefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", c.prefix+key, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
