package providers

import (
	"context"
	"errors"
	"time"
)

// retryable reports whether a stream-establishment failure is worth
// retrying: rate limits and overload, nothing else. Auth and request
// errors never clear up on their own.
func retryable(err error) bool {
	var me *ModelError
	if !errors.As(err, &me) {
		return false
	}
	return me.Code == CodeRateLimited || me.Code == CodeOverloaded
}

// startedError marks a failure that happened after fragments were already
// delivered to the caller. Retrying would duplicate fragments, so the
// retry loop unwraps it and gives up.
type startedError struct{ err error }

func (e *startedError) Error() string { return e.err.Error() }
func (e *startedError) Unwrap() error { return e.err }

// retryWithBackoff retries fn with exponential backoff for retryable
// failures. fn signals "too late to retry" by returning a *startedError,
// which is unwrapped before being handed back.
func retryWithBackoff(ctx context.Context, maxRetries int, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		var se *startedError
		if errors.As(lastErr, &se) {
			return se.err
		}
		if !retryable(lastErr) {
			return lastErr
		}
		if attempt < maxRetries {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return lastErr
}
