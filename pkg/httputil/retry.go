package httputil

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RetryableError marks a transient failure such as a network error, a 5xx
// response or Tableau's 429 throttling. After is the wait the server asked
// for in Retry-After, zero when it gave none.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Policy controls how often and how patiently an operation is retried.
type Policy struct {
	// Attempts is the total number of calls, at least one.
	Attempts int

	// Delay is the wait before the first retry. It doubles after every
	// failed attempt.
	Delay time.Duration

	// MaxDelay caps every wait, including one requested by the server.
	// Zero means no cap.
	MaxDelay time.Duration

	// OnRetry, if set, is called before each wait with the number of the
	// attempt that failed.
	OnRetry func(attempt int, wait time.Duration, err error)
}

// DefaultPolicy is what API clients start with. A throttled Tableau server
// asks for waits of a minute or more, so those are capped at 30 seconds.
var DefaultPolicy = Policy{Attempts: 3, Delay: time.Second, MaxDelay: 30 * time.Second}

// Do runs fn until it succeeds, fails with an error that is not a
// [RetryableError], or the attempts are used up. Each wait is the larger of
// the backoff delay and the server's Retry-After, capped at MaxDelay.
// It returns the last error, or ctx.Err() if ctx ends while waiting.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay

	var lastErr error
	for i := range attempts {
		lastErr = fn()
		var re *RetryableError
		if lastErr == nil || !errors.As(lastErr, &re) {
			return lastErr
		}
		if i == attempts-1 {
			break
		}

		wait := p.wait(delay, re.After)
		if p.OnRetry != nil {
			p.OnRetry(i+1, wait, lastErr)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		delay *= 2
	}
	return lastErr
}

func (p Policy) wait(backoff, requested time.Duration) time.Duration {
	d := max(backoff, requested)
	if p.MaxDelay > 0 {
		d = min(d, p.MaxDelay)
	}
	return d
}

// RetryAfter parses a Retry-After header, given either in seconds or as an
// HTTP date, into a wait relative to now. Missing, malformed and past
// values yield zero.
func RetryAfter(header string, now time.Time) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil {
		return max(time.Duration(secs)*time.Second, 0)
	}
	if at, err := http.ParseTime(header); err == nil {
		return max(at.Sub(now), 0)
	}
	return 0
}
