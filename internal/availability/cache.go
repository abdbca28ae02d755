package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/tirechange-hub/internal/booking"
)

const mergedCacheKey = "availability:merged"

// Cache stores the merged availability list between requests.
type Cache interface {
	Get(ctx context.Context) ([]booking.Slot, bool, error)
	Set(ctx context.Context, slots []booking.Slot) error
	Invalidate(ctx context.Context) error
}

// RedisCache keeps the merged list under a single key with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed availability cache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached list; ok is false on a miss.
func (c *RedisCache) Get(ctx context.Context) ([]booking.Slot, bool, error) {
	data, err := c.client.Get(ctx, mergedCacheKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("availability cache: get: %w", err)
	}
	var slots []booking.Slot
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, false, fmt.Errorf("availability cache: unmarshal: %w", err)
	}
	return slots, true, nil
}

// Set stores slots for the configured TTL.
func (c *RedisCache) Set(ctx context.Context, slots []booking.Slot) error {
	data, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("availability cache: marshal: %w", err)
	}
	if err := c.client.Set(ctx, mergedCacheKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("availability cache: set: %w", err)
	}
	return nil
}

// Invalidate drops the cached list.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, mergedCacheKey).Err(); err != nil {
		return fmt.Errorf("availability cache: delete: %w", err)
	}
	return nil
}
