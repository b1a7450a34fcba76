package integrations

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/matzehuels/glow/pkg/buildinfo"
	"github.com/matzehuels/glow/pkg/cache"
	"github.com/matzehuels/glow/pkg/httputil"
	"github.com/matzehuels/glow/pkg/observability"
)

// Client provides shared HTTP functionality for API clients.
// It handles caching, retry logic, rate limiting, and common request headers.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	namespace string
	ttl       time.Duration
	headers   map[string]string
	limiter   *rate.Limiter
	retry     httputil.Policy
}

// NewClient creates a Client with the given cache and default headers.
// Cache keys are prefixed with namespace and stored for ttl.
// Headers are applied to all requests made through this client; a
// User-Agent is added unless headers sets one.
func NewClient(c cache.Cache, namespace string, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:      NewHTTPClient(),
		cache:     c,
		namespace: namespace,
		ttl:       ttl,
		headers:   headers,
		limiter:   rate.NewLimiter(rate.Inf, 1),
		retry:     httputil.DefaultPolicy,
	}
}

// SetRetry replaces the retry policy used by Cached, Get and Post.
func (c *Client) SetRetry(p httputil.Policy) {
	c.retry = p
}

// SetRateLimit limits outgoing requests to rps per second with the given
// burst. A non-positive rps removes the limit.
func (c *Client) SetRateLimit(rps float64, burst int) {
	if rps <= 0 {
		c.limiter = rate.NewLimiter(rate.Inf, 1)
		return
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
}

// SetHeader sets a default header, e.g. a session token after sign-in.
func (c *Client) SetHeader(key, value string) {
	if c.headers == nil {
		c.headers = make(map[string]string)
	}
	c.headers[key] = value
}

// Cached returns the cached bytes for key or runs fetch (with retries) and
// caches its result. If refresh is true the cache is bypassed for reading.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, fetch func() ([]byte, error)) ([]byte, error) {
	key = c.namespace + key
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			observability.Cache().OnCacheHit(ctx, c.namespace)
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, c.namespace)
	}

	var data []byte
	err := c.retry.Do(ctx, func() error {
		var err error
		data, err = fetch()
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, c.namespace, len(data))
	}
	return data, nil
}

// Get performs a GET request with retries and returns the response body.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	return c.withRetry(ctx, http.MethodGet, url, nil, headers)
}

// Post performs a POST request with retries and returns the response body.
func (c *Client) Post(ctx context.Context, url string, body []byte, headers map[string]string) ([]byte, error) {
	return c.withRetry(ctx, http.MethodPost, url, body, headers)
}

// GetXML performs a GET request and XML-decodes the response into v.
func (c *Client) GetXML(ctx context.Context, url string, headers map[string]string, v any) error {
	data, err := c.Get(ctx, url, headers)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

func (c *Client) withRetry(ctx context.Context, method, url string, body []byte, headers map[string]string) ([]byte, error) {
	host, path := splitURL(url)
	p := c.retry
	p.OnRetry = func(attempt int, wait time.Duration, err error) {
		observability.HTTP().OnRetry(ctx, method, host, path, attempt, wait, err)
	}

	var data []byte
	err := p.Do(ctx, func() error {
		var err error
		data, err = c.Do(ctx, method, url, body, headers)
		return err
	})
	return data, err
}

// Do performs a single request without retries. Request-specific headers
// override client defaults for the same key.
func (c *Client) Do(ctx context.Context, method, rawURL string, body []byte, headers map[string]string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	host, path := splitURL(rawURL)
	observability.HTTP().OnRequest(ctx, method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, method, host, path, err)
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		if re, ok := err.(*httputil.RetryableError); ok {
			re.After = httputil.RetryAfter(resp.Header.Get("Retry-After"), time.Now())
		}
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: read body: %v", ErrNetwork, err)}
	}
	return data, nil
}

func splitURL(rawURL string) (host, path string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", rawURL
	}
	return u.Host, u.Path
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests || code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
