// Package retry runs a fallible call with exponential backoff and jitter.
// The server uses it to connect event sinks at startup.
package retry

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// PermanentError wraps an error that should not be retried.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so that Do will not retry it.
func Permanent(err error) error {
	return &PermanentError{Err: err}
}

// Notify is called before each backoff sleep with the 1-based attempt that
// just failed.
type Notify func(attempt int, err error, wait time.Duration)

// Do calls fn up to maxAttempts times. See DoNotify.
func Do(ctx context.Context, maxAttempts int, baseDelay time.Duration, fn func() error) error {
	return DoNotify(ctx, maxAttempts, baseDelay, fn, nil)
}

// DoNotify calls fn up to maxAttempts times, doubling baseDelay after each
// failure with +-25% jitter. It stops early on success, on a permanent
// error (returned unwrapped) or when ctx is cancelled.
func DoNotify(ctx context.Context, maxAttempts int, baseDelay time.Duration, fn func() error, notify Notify) error {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	var err error
	delay := baseDelay
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}

		var pe *PermanentError
		if errors.As(err, &pe) {
			return pe.Err
		}
		if attempt == maxAttempts {
			break
		}

		wait := jitter(delay)
		if notify != nil {
			notify(attempt, err, wait)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		delay *= 2
	}
	return err
}

func jitter(d time.Duration) time.Duration {
	j := int64(d / 4)
	if j <= 0 {
		return d
	}
	return d - time.Duration(j) + time.Duration(rand.Int64N(2*j+1))
}
