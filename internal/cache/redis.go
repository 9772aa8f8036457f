package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"startup-risk-lab/internal/domain"
	"startup-risk-lab/internal/observability"
)

// DefaultKeyPrefix namespaces result keys in a shared Redis.
const DefaultKeyPrefix = "risklab:result:"

// Redis is a ResultCache storing JSON-encoded results with a TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// RedisOptions configures a Redis cache.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration // 0: no expiry
	Prefix   string        // default DefaultKeyPrefix
}

// NewRedis connects to Redis and verifies the connection with a ping.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return NewRedisWithClient(client, opts.TTL, opts.Prefix), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, ttl time.Duration, prefix string) *Redis {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Redis{client: client, ttl: ttl, prefix: prefix}
}

// Get returns the cached result. A missing key is a miss, not an error.
func (c *Redis) Get(ctx context.Context, key string) (*domain.ScenarioResult, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.RecordCacheLookup("redis", false)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var r domain.ScenarioResult
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, false, fmt.Errorf("decode cached result: %w", err)
	}
	observability.RecordCacheLookup("redis", true)
	return &r, true, nil
}

// Set stores r as JSON with the configured TTL.
func (c *Redis) Set(ctx context.Context, key string, r *domain.ScenarioResult) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (c *Redis) Close() error {
	return c.client.Close()
}

var _ ResultCache = (*Redis)(nil)
