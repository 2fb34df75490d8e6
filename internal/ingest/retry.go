package ingest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"
)

// RetryPolicy controls how remote sources are re-fetched after transient
// failures
type RetryPolicy struct {
	MaxAttempts       int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}

// DefaultRetry applies to http(s) sources
var DefaultRetry = RetryPolicy{
	MaxAttempts:       3,
	InitialDelay:      time.Second,
	MaxDelay:          30 * time.Second,
	BackoffMultiplier: 2.0,
}

// statusError is a non-200 response from a remote source
type statusError struct {
	Code int
}

func (e *statusError) Error() string { return fmt.Sprintf("unexpected status %d", e.Code) }

// delay returns the wait before the given retry (1-based)
func (p RetryPolicy) delay(attempt int) time.Duration {
	d := time.Duration(float64(p.InitialDelay) * math.Pow(p.BackoffMultiplier, float64(attempt-1)))
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// retryable reports whether err may go away on another attempt. Client
// errors other than rate limiting are permanent.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var sErr *statusError
	if errors.As(err, &sErr) {
		return sErr.Code == http.StatusTooManyRequests || sErr.Code >= 500
	}
	return true
}

// withRetry runs fn until it succeeds, fails permanently, or the policy is
// exhausted
func withRetry[T any](ctx context.Context, p RetryPolicy, fn func() (T, error)) (T, error) {
	attempts := max(p.MaxAttempts, 1)
	var (
		v   T
		err error
	)
	for attempt := 1; ; attempt++ {
		v, err = fn()
		if err == nil || attempt >= attempts || !retryable(err) {
			return v, err
		}
		t := time.NewTimer(p.delay(attempt))
		select {
		case <-ctx.Done():
			t.Stop()
			return v, err
		case <-t.C:
		}
	}
}
