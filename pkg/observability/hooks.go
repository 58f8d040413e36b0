// Package observability lets callers observe renders, cache traffic and
// preview-server requests without the library depending on a metrics backend.
//
// Hooks default to no-ops. Register replacements once at startup:
//
//	observability.SetRenderHooks(observability.NewLogHooks(logger))
//
// Library code emits events through the accessors:
//
//	observability.Render().OnRenderStart(ctx, "diagram", "png")
//	data, err := sink.RenderPNG(d)
//	observability.Render().OnRenderComplete(ctx, "diagram", "png", len(data), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// RenderHooks receives events for each artifact the pipeline produces.
type RenderHooks interface {
	OnRenderStart(ctx context.Context, vizType, format string)
	OnRenderComplete(ctx context.Context, vizType, format string, size int, duration time.Duration, err error)
}

// CacheHooks receives artifact cache events.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// ServerHooks receives one event per handled preview-server request.
type ServerHooks interface {
	OnRequest(ctx context.Context, requestID, method, path string, status int, duration time.Duration)
}

// NoopRenderHooks ignores all render events.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string, string) {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, string, int, time.Duration, error) {
}

// NoopCacheHooks ignores all cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks ignores all request events.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string, string, int, time.Duration) {}

// LogHooks reports every event at debug level on a charmbracelet logger.
// It implements all three hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnRenderStart(_ context.Context, vizType, format string) {
	h.logger.Debug("render start", "type", vizType, "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, vizType, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "type", vizType, "format", format, "error", err)
		return
	}
	h.logger.Debug("render done", "type", vizType, "format", format, "bytes", size, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "key", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "key", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "key", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, requestID, method, path string, status int, d time.Duration) {
	h.logger.Info("request", "id", requestID, "method", method, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

var (
	renderHooks RenderHooks = NoopRenderHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	serverHooks ServerHooks = NoopServerHooks{}
	hooksMu     sync.RWMutex
)

// SetRenderHooks registers render hooks. Nil is ignored.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetServerHooks registers server hooks. Nil is ignored.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Server returns the registered server hooks.
func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Reset restores the no-op defaults. Tests use it between cases.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
	cacheHooks = NoopCacheHooks{}
	serverHooks = NoopServerHooks{}
}
