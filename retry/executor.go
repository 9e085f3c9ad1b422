package retry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

/* Executor wraps an outbound HTTP call in a bounded retry loop with
 * exponential backoff. Defaults: 3 retries after the initial attempt,
 * 750ms base delay doubled per attempt. A 429 response carrying a
 * Retry-After hint overrides the computed delay. Backoff sleeps block
 * only the current invocation and stop as soon as the caller's context
 * is cancelled; the in-flight request is cancelled with it.
 */

const (
	DefaultAttempts  = 3
	DefaultBaseDelay = 750 * time.Millisecond
)

// StatusError is the terminal outcome of a delivery whose final response
// was not a success status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %s", e.Status)
}

// Result reports the outcome of an executed call
type Result struct {
	// Response is the final HTTP response. Its body is open only on
	// success; failed responses are drained and closed internally.
	Response *http.Response
	// RetryCount is the number of retries performed after the first attempt
	RetryCount int
}

type Executor struct {
	Client    *http.Client
	Attempts  int           // retries after the initial attempt
	BaseDelay time.Duration // first backoff delay, doubled per attempt

	// RetryOn is an explicit set of retryable statuses. When nil, any
	// 5xx and 429 are retried.
	RetryOn map[int]bool
	// NoRetryOn statuses fail immediately without consuming attempts
	NoRetryOn map[int]bool

	// Sleep performs the backoff wait. Injectable so tests can observe
	// delays without waiting them out.
	Sleep func(ctx context.Context, d time.Duration) error
}

// New creates an executor with default retry settings
func New(client *http.Client) *Executor {
	if client == nil {
		client = http.DefaultClient
	}
	return &Executor{Client: client}
}

/* Do runs the request until it succeeds, exhausts its attempts or hits a
 * non-retryable status. newRequest is invoked once per attempt so request
 * bodies are rebuilt rather than replayed from a consumed reader.
 */
func (e *Executor) Do(ctx context.Context, newRequest func(ctx context.Context) (*http.Request, error)) (Result, error) {
	attempts := e.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	base := e.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return Result{RetryCount: attempt}, err
		}

		req, err := newRequest(ctx)
		if err != nil {
			return Result{RetryCount: attempt}, fmt.Errorf("building request: %w", err)
		}

		resp, err := e.Client.Do(req)
		if err != nil {
			// Network-level failures are treated like retryable server errors
			if attempt >= attempts {
				return Result{RetryCount: attempt}, fmt.Errorf("delivering request: %w", err)
			}
			if err := e.sleep(ctx, base<<attempt); err != nil {
				return Result{RetryCount: attempt}, err
			}
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return Result{Response: resp, RetryCount: attempt}, nil
		}

		delay := base << attempt
		if hint, ok := retryAfter(resp, time.Now()); ok {
			delay = hint
		}
		drain(resp)

		if !e.retryable(resp.StatusCode) || attempt >= attempts {
			return Result{Response: resp, RetryCount: attempt}, &StatusError{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
			}
		}

		if err := e.sleep(ctx, delay); err != nil {
			return Result{RetryCount: attempt}, err
		}
	}
}

func (e *Executor) retryable(status int) bool {
	if e.NoRetryOn[status] {
		return false
	}
	if e.RetryOn != nil {
		return e.RetryOn[status]
	}
	return status >= 500 || status == http.StatusTooManyRequests
}

func (e *Executor) sleep(ctx context.Context, d time.Duration) error {
	if e.Sleep != nil {
		return e.Sleep(ctx, d)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

/* retryAfter reads the server's rate-limit hint: either delay seconds or
 * an HTTP-date. The hint takes precedence over the computed backoff.
 */
func retryAfter(resp *http.Response, now time.Time) (time.Duration, bool) {
	raw := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if raw == "" {
		return 0, false
	}

	if seconds, err := strconv.Atoi(raw); err == nil {
		if seconds <= 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}

	for _, layout := range []string{time.RFC1123, time.RFC1123Z} {
		if at, err := time.Parse(layout, raw); err == nil {
			if at.After(now) {
				return at.Sub(now), true
			}
			return 0, false
		}
	}

	return 0, false
}

// drain discards the body so the connection can be reused
func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
