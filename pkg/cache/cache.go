// Package cache provides response caching for rendered hover results.
//
// # Overview
//
// Hovering a stored figure at a given position is deterministic: the same
// figure, mode, subplot and pointer position always produce the same
// labels and spikes. The HTTP server caches the SVG hover layer of such
// requests under keys built by a [Keyer].
//
// Backends:
//   - [NullCache]: caching disabled
//   - [MemoryCache]: bounded LRU in process memory
//   - [FileCache]: one file per entry, for the CLI
//   - [RedisCache]: shared between server instances
//
// # Usage
//
//	c, err := cache.NewMemoryCache(1024)
//	if err != nil {
//	    return err
//	}
//	key := cache.NewDefaultKeyer().HoverKey(figureID, cache.HoverKeyOpts{
//	    Mode: "closest", XPx: 120, YPx: 80,
//	})
//	if data, hit, _ := c.Get(ctx, key); hit {
//	    return data
//	}
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with an optional TTL.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// FigureKey is the key of a stored figure document.
	FigureKey(figureID string) string

	// HoverKey is the key of a hover result on a figure revision.
	HoverKey(figureID string, opts HoverKeyOpts) string
}

// HoverKeyOpts holds everything a hover result depends on besides the
// figure.
type HoverKeyOpts struct {
	Revision string  `json:"rev,omitempty"` // figure content hash
	Mode     string  `json:"mode,omitempty"`
	Subplot  string  `json:"subplot,omitempty"`
	XPx      float64 `json:"x"`
	YPx      float64 `json:"y"`
	Format   string  `json:"format,omitempty"`
}

// DefaultKeyer builds unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// FigureKey returns "figure:<id>".
func (DefaultKeyer) FigureKey(figureID string) string { return "figure:" + figureID }

// HoverKey returns "hover:<id>:<hash of opts>".
func (DefaultKeyer) HoverKey(figureID string, opts HoverKeyOpts) string {
	return hashKey("hover:"+figureID, opts)
}
