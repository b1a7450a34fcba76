package httputil

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestPolicyDo(t *testing.T) {
	errUnauthorized := errors.New("tableau sign in: unauthorized")
	errThrottled := &RetryableError{Err: errors.New("network error: status 429")}

	tests := []struct {
		name      string
		attempts  int
		failures  int
		err       error
		wantCalls int
		wantErr   bool
	}{
		{"first page loads", 3, 0, nil, 1, false},
		{"throttled then loads", 3, 2, errThrottled, 3, false},
		{"throttled on every attempt", 3, 5, errThrottled, 3, true},
		{"bad credentials are not retried", 3, 5, errUnauthorized, 1, true},
		{"zero attempts runs once", 0, 0, nil, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Policy{Attempts: tt.attempts, Delay: time.Millisecond}.Do(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})

			if (err != nil) != tt.wantErr {
				t.Errorf("Do() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestPolicyDo_HonorsRetryAfter(t *testing.T) {
	p := Policy{Attempts: 2, Delay: time.Millisecond}
	calls := 0

	start := time.Now()
	err := p.Do(context.Background(), func() error {
		calls++
		if calls == 1 {
			return &RetryableError{Err: errors.New("status 429"), After: 50 * time.Millisecond}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("retried after %v, want at least the requested 50ms", elapsed)
	}
}

func TestPolicyDo_OnRetry(t *testing.T) {
	type retry struct {
		attempt int
		wait    time.Duration
	}
	var got []retry
	p := Policy{
		Attempts: 3,
		Delay:    time.Millisecond,
		OnRetry: func(attempt int, wait time.Duration, err error) {
			got = append(got, retry{attempt, wait})
		},
	}

	_ = p.Do(context.Background(), func() error {
		return &RetryableError{Err: errors.New("status 503")}
	})

	want := []retry{{1, time.Millisecond}, {2, 2 * time.Millisecond}}
	if len(got) != len(want) {
		t.Fatalf("OnRetry called %d times, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("retry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPolicyWait(t *testing.T) {
	p := Policy{MaxDelay: time.Minute}
	tests := []struct {
		backoff, requested, want time.Duration
	}{
		{time.Second, 0, time.Second},
		{time.Second, 5 * time.Second, 5 * time.Second},
		{time.Second, time.Hour, time.Minute},
		{2 * time.Minute, 0, time.Minute},
	}
	for _, tt := range tests {
		if got := p.wait(tt.backoff, tt.requested); got != tt.want {
			t.Errorf("wait(%v, %v) = %v, want %v", tt.backoff, tt.requested, got, tt.want)
		}
	}

	if got := (Policy{}).wait(time.Second, time.Hour); got != time.Hour {
		t.Errorf("uncapped wait = %v, want 1h", got)
	}
}

func TestPolicyDo_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Policy{Attempts: 3, Delay: time.Hour}.Do(ctx, func() error {
		return &RetryableError{Err: errors.New("status 503")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do() error = %v, want context.Canceled", err)
	}
}

func TestRetryAfter(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		header string
		want   time.Duration
	}{
		{"", 0},
		{"120", 2 * time.Minute},
		{" 3 ", 3 * time.Second},
		{"-5", 0},
		{now.Add(90 * time.Second).Format(http.TimeFormat), 90 * time.Second},
		{now.Add(-time.Minute).Format(http.TimeFormat), 0},
		{"soon", 0},
	}

	for _, tt := range tests {
		if got := RetryAfter(tt.header, now); got != tt.want {
			t.Errorf("RetryAfter(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestRetryableError_Unwrap(t *testing.T) {
	base := errors.New("connection reset")
	err := &RetryableError{Err: base, After: time.Second}
	if !errors.Is(err, base) {
		t.Error("RetryableError should unwrap to its cause")
	}
	if err.Error() != "connection reset" {
		t.Errorf("Error() = %q", err.Error())
	}
}
