package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestSiteHandler(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>glow</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(newSiteHandler(dir))
	defer srv.Close()

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/healthz", http.StatusOK, "ok\n"},
		{"/", http.StatusOK, "<h1>glow</h1>"},
		{"/missing.html", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)

			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.body != "" && string(body) != tt.body {
				t.Errorf("body = %q, want %q", body, tt.body)
			}
		})
	}
}

func TestRebuilderSkipsOverlappingRuns(t *testing.T) {
	logger := log.New(io.Discard)
	release := make(chan struct{})
	started := make(chan struct{})

	r := newRebuilder(logger, func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	})

	done := make(chan bool)
	go func() { done <- r.run(context.Background()) }()
	<-started

	if r.run(context.Background()) {
		t.Error("second run should be skipped while the first is running")
	}

	close(release)
	if !<-done {
		t.Error("first run should have run")
	}
	if r.runs != 1 {
		t.Errorf("runs = %d, want 1", r.runs)
	}
}

func TestRebuilderLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	r := newRebuilder(logger, func(context.Context) error { return errors.New("boom") })
	if !r.run(context.Background()) {
		t.Fatal("run should report that it ran")
	}
	if !bytes.Contains(buf.Bytes(), []byte("rebuild failed")) || !bytes.Contains(buf.Bytes(), []byte("boom")) {
		t.Errorf("log = %q, want rebuild failure", buf.String())
	}
}

func TestRebuilderSchedule(t *testing.T) {
	r := newRebuilder(log.New(io.Discard), func(context.Context) error { return nil })

	if err := r.Schedule(context.Background(), "0 6 * * *"); err != nil {
		t.Errorf("Schedule(valid) error: %v", err)
	}
	if err := r.Schedule(context.Background(), "every morning"); err == nil {
		t.Error("Schedule(invalid) should fail")
	}

	r.Start()
	r.Stop()
}
