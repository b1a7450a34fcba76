package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event to a logger at debug level. Failures are
// reported at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

// Register installs h for every hook category.
func (h *LogHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnDatasourceStart(_ context.Context, name string) {
	h.logger.Debug("datasource started", "name", name)
}

func (h *LogHooks) OnDatasourceComplete(_ context.Context, name string, relations int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("datasource failed", "name", name, "duration", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Debug("datasource done", "name", name, "relations", relations, "duration", d.Round(time.Millisecond))
}

func (h *LogHooks) OnEventStart(_ context.Context, key string) {
	h.logger.Debug("event started", "key", key)
}

func (h *LogHooks) OnEventComplete(_ context.Context, key string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("event failed", "key", key, "duration", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Debug("event done", "key", key, "duration", d.Round(time.Millisecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, namespace string) {
	h.logger.Debug("cache hit", "namespace", namespace)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, namespace string) {
	h.logger.Debug("cache miss", "namespace", namespace)
}

func (h *LogHooks) OnCacheSet(_ context.Context, namespace string, size int) {
	h.logger.Debug("cache set", "namespace", namespace, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("http error", "method", method, "host", host, "path", path, "err", err)
}

func (h *LogHooks) OnRetry(_ context.Context, method, host, path string, attempt int, wait time.Duration, err error) {
	h.logger.Debug("retrying request", "method", method, "path", path, "attempt", attempt, "wait", wait.Round(time.Millisecond), "err", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
