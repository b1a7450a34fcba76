package integrations

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/glow/pkg/cache"
	"github.com/matzehuels/glow/pkg/httputil"
	"github.com/matzehuels/glow/pkg/observability"
)

func TestNewClient(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	defer c.Close()

	headers := map[string]string{"X-Tableau-Auth": "token"}
	client := NewClient(c, "test:", time.Hour, headers)

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if client.cache != c {
		t.Error("NewClient() cache not set correctly")
	}
	if client.headers["X-Tableau-Auth"] != "token" {
		t.Error("NewClient() headers not set correctly")
	}
}

func TestNewClientNilCache(t *testing.T) {
	client := NewClient(nil, "test:", time.Hour, nil)
	if _, ok := client.cache.(*cache.NullCache); !ok {
		t.Errorf("cache = %T, want *cache.NullCache", client.cache)
	}
}

type xmlResponse struct {
	Message string `xml:"message"`
}

func TestClientGetXML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		io.WriteString(w, `<tsResponse><message>hello</message></tsResponse>`)
	}))
	defer server.Close()

	client := NewClient(nil, "test:", time.Hour, nil)
	client.http = server.Client()

	var resp xmlResponse
	if err := client.GetXML(context.Background(), server.URL, nil, &resp); err != nil {
		t.Fatalf("GetXML() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("GetXML() message = %q, want %q", resp.Message, "hello")
	}
}

func TestClientHeaders(t *testing.T) {
	var auth, custom, agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("X-Tableau-Auth")
		custom = r.Header.Get("Accept")
		agent = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	client := NewClient(nil, "test:", time.Hour, map[string]string{"Accept": "text/xml"})
	client.http = server.Client()
	client.SetHeader("X-Tableau-Auth", "secret")

	_, err := client.Get(context.Background(), server.URL, map[string]string{"Accept": "application/xml"})
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if auth != "secret" {
		t.Errorf("X-Tableau-Auth = %q, want %q", auth, "secret")
	}
	if custom != "application/xml" {
		t.Errorf("Accept = %q, request header should override default", custom)
	}
	if agent == "" {
		t.Error("User-Agent not set")
	}
}

func TestClientPost(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, "ok")
	}))
	defer server.Close()

	client := NewClient(nil, "test:", time.Hour, nil)
	client.http = server.Client()

	data, err := client.Post(context.Background(), server.URL, []byte("<tsRequest/>"), nil)
	if err != nil {
		t.Fatalf("Post() error: %v", err)
	}
	if string(data) != "ok" || body != "<tsRequest/>" {
		t.Errorf("Post() = %q, server saw %q", data, body)
	}
}

func TestClientCached(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	defer c.Close()
	client := NewClient(c, "test:", time.Hour, nil)
	ctx := context.Background()

	calls := 0
	fetch := func() ([]byte, error) {
		calls++
		return []byte("payload"), nil
	}

	for range 2 {
		data, err := client.Cached(ctx, "key", false, fetch)
		if err != nil {
			t.Fatalf("Cached() error: %v", err)
		}
		if string(data) != "payload" {
			t.Errorf("Cached() = %q", data)
		}
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}

	if _, err := client.Cached(ctx, "key", true, fetch); err != nil {
		t.Fatalf("Cached(refresh) error: %v", err)
	}
	if calls != 2 {
		t.Errorf("refresh should bypass cache, fetch called %d times", calls)
	}

	if _, ok, _ := c.Get(ctx, "test:key"); !ok {
		t.Error("entry should be stored under the namespaced key")
	}
}

func TestClientCachedError(t *testing.T) {
	client := NewClient(nil, "test:", time.Hour, nil)
	_, err := client.Cached(context.Background(), "key", false, func() ([]byte, error) {
		return nil, ErrNotFound
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Cached() error = %v, want ErrNotFound", err)
	}
}

func TestClientDoStatus(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusInternalServerError, ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewClient(nil, "test:", time.Hour, nil)
			client.http = server.Client()

			_, err := client.Do(context.Background(), http.MethodGet, server.URL, nil, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("Do() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("<tsResponse/>"))
	}))
	defer server.Close()

	retries := &retryRecorder{}
	observability.SetHTTPHooks(retries)
	t.Cleanup(observability.Reset)

	client := NewClient(nil, "test:", time.Hour, nil)
	client.http = server.Client()
	client.SetRetry(httputil.Policy{Attempts: 3, Delay: time.Millisecond})

	data, err := client.Get(context.Background(), server.URL+"/api/3.13/sites", nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(data) != "<tsResponse/>" {
		t.Errorf("Get() = %q", data)
	}
	if calls != 3 {
		t.Errorf("server saw %d requests, want 3", calls)
	}
	if want := []string{"/api/3.13/sites#1", "/api/3.13/sites#2"}; !slices.Equal(retries.seen, want) {
		t.Errorf("retries = %v, want %v", retries.seen, want)
	}
}

type retryRecorder struct {
	observability.NoopHTTPHooks
	seen []string
}

func (r *retryRecorder) OnRetry(_ context.Context, _, _, path string, attempt int, _ time.Duration, _ error) {
	r.seen = append(r.seen, fmt.Sprintf("%s#%d", path, attempt))
}

func TestClientThrottledRetryAfter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(nil, "test:", time.Hour, nil)
	client.http = server.Client()

	_, err := client.Do(context.Background(), http.MethodGet, server.URL, nil, nil)
	var re *httputil.RetryableError
	if !errors.As(err, &re) {
		t.Fatalf("Do() error = %v, want RetryableError", err)
	}
	if re.After != 7*time.Second {
		t.Errorf("After = %v, want 7s", re.After)
	}
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Do() error = %v, want ErrNetwork", err)
	}
}

func TestClientRetryGivesUp(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(nil, "test:", time.Hour, nil)
	client.http = server.Client()
	client.SetRetry(httputil.Policy{Attempts: 2, Delay: time.Millisecond})

	if _, err := client.Get(context.Background(), server.URL, nil); !errors.Is(err, ErrNetwork) {
		t.Errorf("Get() error = %v, want ErrNetwork", err)
	}
	if calls != 2 {
		t.Errorf("server saw %d requests, want 2", calls)
	}
}

func TestClientRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	client := NewClient(nil, "test:", time.Hour, nil)
	client.http = server.Client()
	client.SetRateLimit(1, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if _, err := client.Do(ctx, http.MethodGet, server.URL, nil, nil); err != nil {
		t.Fatalf("first request error: %v", err)
	}
	if _, err := client.Do(ctx, http.MethodGet, server.URL, nil, nil); err == nil {
		t.Error("second request should be rate limited past the deadline")
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		code      int
		wantErr   bool
		retryable bool
	}{
		{200, false, false},
		{201, false, false},
		{204, false, false},
		{400, true, false},
		{401, true, false},
		{404, true, false},
		{429, true, true},
		{500, true, true},
		{503, true, true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			err := checkStatus(tt.code)
			if (err != nil) != tt.wantErr {
				t.Fatalf("checkStatus(%d) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			}
			var re *httputil.RetryableError
			if got := errors.As(err, &re); got != tt.retryable {
				t.Errorf("checkStatus(%d) retryable = %v, want %v", tt.code, got, tt.retryable)
			}
		})
	}
}
