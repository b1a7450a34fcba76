// Package observability lets glow's libraries report what they are doing
// without depending on the CLI.
//
// The pipeline reports each data source and event it documents, the
// integrations client reports every Tableau request and retry, and the
// cache reports hits and misses. By default every hook is a no-op. With
// --verbose the CLI registers [LogHooks], which reports each event at
// debug level:
//
//	observability.NewLogHooks(logger).Register()
//
// Libraries call hooks through the registry:
//
//	observability.Pipeline().OnDatasourceStart(ctx, ds.Name)
//	err := builder.GenerateDAG(ds)
//	observability.Pipeline().OnDatasourceComplete(ctx, ds.Name, len(ds.Relations), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives progress from documentation runs.
type PipelineHooks interface {
	// OnDatasourceStart and OnDatasourceComplete bracket lineage
	// generation for one data source. err is set when no lineage could be
	// derived.
	OnDatasourceStart(ctx context.Context, name string)
	OnDatasourceComplete(ctx context.Context, name string, relations int, duration time.Duration, err error)

	// OnEventStart and OnEventComplete bracket writing one event page.
	OnEventStart(ctx context.Context, key string)
	OnEventComplete(ctx context.Context, key string, duration time.Duration, err error)
}

// CacheHooks receives lookups in the response cache. namespace is the
// key prefix of the client doing the lookup.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, namespace string)
	OnCacheMiss(ctx context.Context, namespace string)
	OnCacheSet(ctx context.Context, namespace string, size int)
}

// HTTPHooks receives requests made to the BI server.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError records a transport failure (network error, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
	// OnRetry records that attempt failed with err and the request is
	// repeated after wait.
	OnRetry(ctx context.Context, method, host, path string, attempt int, wait time.Duration, err error)
}

// NoopPipelineHooks ignores every pipeline event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnDatasourceStart(context.Context, string)                            {}
func (NoopPipelineHooks) OnDatasourceComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnEventStart(context.Context, string)                                 {}
func (NoopPipelineHooks) OnEventComplete(context.Context, string, time.Duration, error)        {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every HTTP event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                          {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration)     {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                     {}
func (NoopHTTPHooks) OnRetry(context.Context, string, string, string, int, time.Duration, error) {}

type registry struct {
	mu       sync.RWMutex
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var hooks = newRegistry()

func newRegistry() *registry {
	return &registry{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		http:     NoopHTTPHooks{},
	}
}

// SetPipelineHooks registers pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	hooks.pipeline = h
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	hooks.cache = h
}

// SetHTTPHooks registers HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	hooks.http = h
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.pipeline
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.cache
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.http
}

// Reset restores the no-op hooks.
func Reset() {
	fresh := newRegistry()
	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	hooks.pipeline, hooks.cache, hooks.http = fresh.pipeline, fresh.cache, fresh.http
}
