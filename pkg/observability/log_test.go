package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)

	Reset()
	h.Register()
	defer Reset()

	ctx := context.Background()
	Pipeline().OnDatasourceComplete(ctx, "Sales", 4, 1200*time.Millisecond, nil)
	Pipeline().OnEventComplete(ctx, "signup", time.Second, errors.New("git log failed"))
	HTTP().OnResponse(ctx, "GET", "tableau.example.com", "/api/3.13/auth/signin", 200, time.Millisecond)
	Cache().OnCacheHit(ctx, "download")
	HTTP().OnRetry(ctx, "GET", "tableau.example.com", "/api/3.13/sites/1/datasources", 1, 2*time.Second, errors.New("status 429"))

	out := buf.String()
	for _, want := range []string{"datasource done", "relations=4", "event failed", "git log failed", "http response", "cache hit", "retrying request", "attempt=1", "wait=2s"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooks_DebugHiddenAtInfo(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}))

	h.OnRequest(context.Background(), "GET", "host", "/path")
	if buf.Len() != 0 {
		t.Errorf("debug event logged at info level: %s", buf.String())
	}
}
