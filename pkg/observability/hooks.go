// Package observability provides hooks for metrics and progress reporting.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about pixel placement and canvas API calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// [Stats] is the in-process implementation used by the CLI; it counts
// placement outcomes and serves them through the status endpoint.
//
// # Usage
//
// Register hooks at application startup:
//
//	stats := observability.NewStats()
//	observability.SetPlacementHooks(stats)
//	observability.SetHTTPHooks(stats)
//
// Libraries call hooks to emit events:
//
//	observability.Placement().OnPlaced(ctx, x, y, color, rejected, wait)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Placement Hooks
// =============================================================================

// PlacementHooks receives events from the pixel placer and driver.
type PlacementHooks interface {
	// OnProbe records a pixel-state read. err is non-nil if the probe failed.
	OnProbe(ctx context.Context, x, y int, err error)

	// OnSkip records a pixel that already had the desired color.
	OnSkip(ctx context.Context, x, y, color int)

	// OnPlaced records a write response. rejected is true if the canvas
	// refused the write; wait is the cooldown it reported.
	OnPlaced(ctx context.Context, x, y, color int, rejected bool, wait time.Duration)

	// OnPassComplete records the end of a full pass over the image.
	OnPassComplete(ctx context.Context, pass int, duration time.Duration)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPlacementHooks is a no-op implementation of PlacementHooks.
type NoopPlacementHooks struct{}

func (NoopPlacementHooks) OnProbe(context.Context, int, int, error)                     {}
func (NoopPlacementHooks) OnSkip(context.Context, int, int, int)                        {}
func (NoopPlacementHooks) OnPlaced(context.Context, int, int, int, bool, time.Duration) {}
func (NoopPlacementHooks) OnPassComplete(context.Context, int, time.Duration)           {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	placementHooks PlacementHooks = NoopPlacementHooks{}
	httpHooks      HTTPHooks      = NoopHTTPHooks{}
	hooksMu        sync.RWMutex
)

// SetPlacementHooks registers custom placement hooks.
// This should be called once at application startup before placement begins.
func SetPlacementHooks(h PlacementHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		placementHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Placement returns the registered placement hooks.
func Placement() PlacementHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return placementHooks
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
	placementHooks = NoopPlacementHooks{}
	httpHooks = NoopHTTPHooks{}
}
