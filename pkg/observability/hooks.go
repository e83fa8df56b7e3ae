// Package observability provides hooks for metrics and tracing.
//
// Libraries in this module emit events through hook interfaces without
// depending on a metrics backend. The default hooks do nothing; the server
// registers Prometheus hooks from the [prom] subpackage at startup.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    m := prom.New(registry)
//	    observability.SetParseHooks(m)
//	    observability.SetCacheHooks(m)
//	    observability.SetHTTPHooks(m)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	res := p.Parse(name)
//	observability.Parse().OnParse(ctx, code, res.Parsed, res.Quality, time.Since(start))
//
// [prom]: github.com/matzehuels/gnparser/pkg/observability/prom
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Parse Hooks
// =============================================================================

// ParseHooks receives events from the parsing pipeline.
type ParseHooks interface {
	// OnParse records one name that went through the parser. code is the
	// nomenclatural code name, "" when none was given.
	OnParse(ctx context.Context, code string, parsed bool, quality int, duration time.Duration)

	// OnBatchStart records a batch entering the pipeline.
	OnBatchStart(ctx context.Context, size int)

	// OnBatchComplete records a finished batch with its output counts.
	OnBatchComplete(ctx context.Context, parsed, missing, faults int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from result cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, backend string)
	OnCacheMiss(ctx context.Context, backend string)
	OnCacheSet(ctx context.Context, backend string, size int)

	// OnCacheError records a failed cache operation. Cache errors never fail
	// a parse; they only disable caching for that name.
	OnCacheError(ctx context.Context, backend, op string, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API server. route is the chi
// route pattern, not the raw path, to keep label cardinality bounded.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopParseHooks is a no-op implementation of ParseHooks.
type NoopParseHooks struct{}

func (NoopParseHooks) OnParse(context.Context, string, bool, int, time.Duration) {}
func (NoopParseHooks) OnBatchStart(context.Context, int)                         {}
func (NoopParseHooks) OnBatchComplete(context.Context, int, int, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)                  {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)                 {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int)             {}
func (NoopCacheHooks) OnCacheError(context.Context, string, string, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	parseHooks ParseHooks = NoopParseHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetParseHooks registers custom parse hooks. Call once at startup.
func SetParseHooks(h ParseHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		parseHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Call once at startup.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. Call once at startup.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Parse returns the registered parse hooks.
func Parse() ParseHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return parseHooks
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
	parseHooks = NoopParseHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
