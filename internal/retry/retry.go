package retry

import (
	"context"
	"errors"
	"strings"
	"time"
)

// PermanentError marks an error that must not be retried. Adapters wrap
// provider errors with Permanent when the provider reports an auth or
// balance failure by code.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent wraps err as non-retryable
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// nonRetryableSubstrings covers providers that only report auth/balance
// failures through a human-readable message. Fragile, but some aggregator
// responses carry no stable error code.
var nonRetryableSubstrings = []string{
	"잔액",
	"인증",
	"한도",
	"balance",
	"auth",
	"unauthorized",
	"forbidden",
}

// IsRetryable reports whether err is worth another attempt
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var perm *PermanentError
	if errors.As(err, &perm) {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, s := range nonRetryableSubstrings {
		if strings.Contains(msg, s) {
			return false
		}
	}
	return true
}

// Do runs fn up to attempts times, sleeping baseDelay * 2^i before retry
// i. Non-retryable errors abort immediately; on exhaustion the last error
// is returned. The backoff sleep respects ctx cancellation.
func Do(ctx context.Context, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			delay := baseDelay * (1 << (i - 1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			return lastErr
		}
	}

	return lastErr
}
