// Package httputil provides retry helpers for the Tableau REST client.
//
// A [Policy] re-runs an operation with exponential backoff when it fails
// with a [RetryableError]. Clients wrap transient failures (network errors,
// 5xx and 429 responses) so that only those are retried. A throttled
// server's Retry-After is carried in [RetryableError.After] and stretches
// the next wait:
//
//	p := httputil.Policy{Attempts: 4, Delay: time.Second, MaxDelay: time.Minute}
//	err := p.Do(ctx, func() error {
//	    resp, err := http.DefaultClient.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    if resp.StatusCode == http.StatusTooManyRequests {
//	        after := httputil.RetryAfter(resp.Header.Get("Retry-After"), time.Now())
//	        return &httputil.RetryableError{Err: errThrottled, After: after}
//	    }
//	    ...
//	})
//
// XML shape errors and 4xx responses other than 429 are deterministic and
// are returned immediately.
package httputil
