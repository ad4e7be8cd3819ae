package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// MemoryCache is a size-bounded LRU cache in process memory.
type MemoryCache struct {
	lru *lru.Cache
	now func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache creates a cache holding at most size entries.
func NewMemoryCache(size int) (*MemoryCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{lru: c, now: time.Now}, nil
}

// Get retrieves a value and marks it recently used.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	e := v.(memoryEntry)
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.lru.Remove(key)
		return nil, false, nil
	}
	return e.data, true, nil
}

// Set stores a copy of data, evicting the least recently used entry when
// full.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := memoryEntry{data: append([]byte(nil), data...)}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.lru.Add(key, e)
	return nil
}

// Delete removes a value.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// Len returns the number of entries, expired ones included.
func (c *MemoryCache) Len() int { return c.lru.Len() }

// Close empties the cache.
func (c *MemoryCache) Close() error {
	c.lru.Purge()
	return nil
}

var _ Cache = (*MemoryCache)(nil)
