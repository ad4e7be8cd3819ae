// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about hover cycles, cache operations, and HTTP requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetHoverHooks(&myHoverHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	observability.Hover().OnHoverStart(plotID, mode)
//	// ... search, label, resolve ...
//	observability.Hover().OnHoverComplete(plotID, mode, len(points), time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Hover Hooks
// =============================================================================

// HoverHooks receives events from hover cycles. Hover cycles run outside any
// request, so these hooks take no context.
type HoverHooks interface {
	// OnHoverStart fires when a cycle begins searching.
	OnHoverStart(plotID, mode string)

	// OnHoverComplete fires when a cycle has drawn its labels.
	OnHoverComplete(plotID, mode string, points int, duration time.Duration)

	// OnUnhover fires whenever hover state is cleared.
	OnUnhover(plotID string)

	// OnLabelsDeleted fires when the overlap resolver had to drop labels.
	OnLabelsDeleted(plotID string, count int)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopHoverHooks is a no-op implementation of HoverHooks.
type NoopHoverHooks struct{}

func (NoopHoverHooks) OnHoverStart(string, string)                        {}
func (NoopHoverHooks) OnHoverComplete(string, string, int, time.Duration) {}
func (NoopHoverHooks) OnUnhover(string)                                   {}
func (NoopHoverHooks) OnLabelsDeleted(string, int)                        {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	hoverHooks HoverHooks = NoopHoverHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetHoverHooks registers custom hover hooks.
// This should be called once at application startup before any plot hovers.
func SetHoverHooks(h HoverHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		hoverHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before the server starts.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Hover returns the registered hover hooks.
func Hover() HoverHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return hoverHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	hoverHooks = NoopHoverHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
