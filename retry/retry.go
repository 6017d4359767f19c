package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net/http"
	"time"
)

const (
	DefaultMaxRetries = 3
	DefaultBaseWait   = 1 * time.Second
)

// Option configures a Do call.
type Option func(*retrier)

// WithMaxRetries sets the maximum number of attempts.
func WithMaxRetries(maxRetries int) Option {
	return func(r *retrier) {
		r.maxRetries = maxRetries
	}
}

// WithBaseWait sets the wait before the first retry; later waits grow
// exponentially from it.
func WithBaseWait(baseWait time.Duration) Option {
	return func(r *retrier) {
		r.baseWait = baseWait
	}
}

type retrier struct {
	maxRetries int
	baseWait   time.Duration
}

// Do executes f, retrying with exponential backoff and jitter. An error is
// retried only when it carries a retryable HTTP status or was marked with
// NewRecoverableError; anything else stops immediately.
func Do(ctx context.Context, f func() error, opts ...Option) error {
	r := &retrier{
		maxRetries: DefaultMaxRetries,
		baseWait:   DefaultBaseWait,
	}
	for _, opt := range opts {
		opt(r)
	}

	var lastError error
	for attempt := 0; attempt < r.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(float64(r.baseWait) * math.Pow(2, float64(attempt-1)))
			jitter := time.Duration(rand.Float64() * float64(backoff) * 0.1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff + jitter):
			}
		}

		if err := f(); err != nil {
			lastError = err
			var apiErr APIError
			if errors.As(err, &apiErr) {
				if !ShouldRetry(apiErr.StatusCode()) {
					return err
				}
				continue
			}
			if !IsRecoverable(err) {
				return err
			}
			continue
		}
		return nil
	}
	return lastError
}

type recoverableError struct {
	err error
}

func (e *recoverableError) Error() string { return e.err.Error() }
func (e *recoverableError) Unwrap() error { return e.err }

// NewRecoverableError marks an error as transient, signaling that the
// operation is worth retrying.
func NewRecoverableError(err error) error {
	return &recoverableError{err: err}
}

// IsRecoverable reports whether err was marked with NewRecoverableError.
func IsRecoverable(err error) bool {
	var r *recoverableError
	return errors.As(err, &r)
}

// ShouldRetry determines if the given status code should trigger a retry
func ShouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || // 429
		statusCode == http.StatusServiceUnavailable || // 503
		statusCode == http.StatusGatewayTimeout // 504
}

// APIError interface for errors that contain HTTP status codes
type APIError interface {
	error
	StatusCode() int
}
