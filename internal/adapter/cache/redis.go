package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zulfalsa/danusan-x/internal/domain/model"
	"github.com/zulfalsa/danusan-x/internal/domain/repository"
)

const keyPrefix = "tracking:"

// redisClient is the subset of *redis.Client the cache needs.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisTracking stores tracking snapshots as JSON under tracking:<code>.
type RedisTracking struct {
	client redisClient
	ttl    time.Duration
}

var _ repository.TrackingCache = (*RedisTracking)(nil)

// NewRedisTracking wraps client with entries expiring after ttl.
func NewRedisTracking(client redisClient, ttl time.Duration) *RedisTracking {
	return &RedisTracking{client: client, ttl: ttl}
}

func key(code string) string {
	return keyPrefix + code
}

func (c *RedisTracking) Get(ctx context.Context, code string) (*model.Order, bool, error) {
	data, err := c.client.Get(ctx, key(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var order model.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, false, fmt.Errorf("decode cached order: %w", err)
	}
	return &order, true, nil
}

func (c *RedisTracking) Set(ctx context.Context, code string, order *model.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}
	if err := c.client.Set(ctx, key(code), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisTracking) Invalidate(ctx context.Context, code string) error {
	if err := c.client.Del(ctx, key(code)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Nop is the cache used when no redis address is configured.
type Nop struct{}

var _ repository.TrackingCache = Nop{}

func (Nop) Get(context.Context, string) (*model.Order, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, string, *model.Order) error         { return nil }
func (Nop) Invalidate(context.Context, string) error                { return nil }
