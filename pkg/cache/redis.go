package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of the go-redis API the cache uses.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisCache stores entries in Redis with native key expiry.
type RedisCache struct {
	client RedisClient
	closer func() error
}

// NewRedisCache creates a cache on client. If client is a *redis.Client,
// Close closes it.
func NewRedisCache(client RedisClient) *RedisCache {
	c := &RedisCache{client: client}
	if rc, ok := client.(*redis.Client); ok {
		c.closer = rc.Close
	}
	return c
}

// Get retrieves a value. Transport failures are retryable.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, Retryable(fmt.Errorf("%w: redis get: %v", ErrNetwork, err))
	}
	return data, true, nil
}

// Set stores a value. A zero ttl keeps it until evicted.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return Retryable(fmt.Errorf("%w: redis set: %v", ErrNetwork, err))
	}
	return nil
}

// Delete removes a value.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return Retryable(fmt.Errorf("%w: redis del: %v", ErrNetwork, err))
	}
	return nil
}

// Close closes the underlying client when the cache owns it.
func (c *RedisCache) Close() error {
	if c.closer != nil {
		return c.closer()
	}
	return nil
}

var _ Cache = (*RedisCache)(nil)
