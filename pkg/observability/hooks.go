// Package observability provides hooks for metrics, tracing and logging of
// generation runs.
//
// Hooks keep the library free of any particular observability backend.
// Every hook interface has a no-op default; a program registers its own
// implementations once at startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetOutputHooks(&myOutputHooks{})
//	    // ... run generation
//	}
//
// Libraries call the registered hooks:
//
//	observability.Pipeline().OnScreenStart(ctx, name)
//	// ... resolve and emit the screen ...
//	observability.Pipeline().OnScreenComplete(ctx, name, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from a generation run.
type PipelineHooks interface {
	// Run events
	OnRunStart(ctx context.Context, runID string, declarations int)
	OnRunComplete(ctx context.Context, runID string, screens int, duration time.Duration, err error)

	// Per-screen events (extraction through emission)
	OnScreenStart(ctx context.Context, screen string)
	OnScreenComplete(ctx context.Context, screen string, duration time.Duration, err error)

	// Graph assembly events
	OnAssembleComplete(ctx context.Context, graphs int, duration time.Duration, err error)
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
// Output Hooks
// =============================================================================

// OutputHooks receives events for generated artifacts.
type OutputHooks interface {
	// OnWrite records a written artifact.
	OnWrite(ctx context.Context, path string, size int)

	// OnSkip records an artifact left untouched because it did not change.
	OnSkip(ctx context.Context, path string)

	// OnDelete records a stale artifact removed from the output.
	OnDelete(ctx context.Context, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnRunStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnRunComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnScreenStart(context.Context, string)                            {}
func (NoopPipelineHooks) OnScreenComplete(context.Context, string, time.Duration, error)   {}
func (NoopPipelineHooks) OnAssembleComplete(context.Context, int, time.Duration, error)    {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopOutputHooks is a no-op implementation of OutputHooks.
type NoopOutputHooks struct{}

func (NoopOutputHooks) OnWrite(context.Context, string, int)    {}
func (NoopOutputHooks) OnSkip(context.Context, string)          {}
func (NoopOutputHooks) OnDelete(context.Context, string, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	outputHooks   OutputHooks   = NoopOutputHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at startup before any run.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetOutputHooks registers custom output hooks.
func SetOutputHooks(h OutputHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		outputHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Output returns the registered output hooks.
func Output() OutputHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return outputHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	outputHooks = NoopOutputHooks{}
}
