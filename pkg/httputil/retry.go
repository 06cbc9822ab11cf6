package httputil

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// MaxDelay caps the wait between two attempts.
const MaxDelay = 8 * time.Second

// RetryableError marks a transient failure so that [Retry] tries again.
// Status is the HTTP status that caused it, or zero for transport errors.
type RetryableError struct {
	Err    error
	Status int
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// RetryableStatus reports whether a response status is worth another
// attempt: any 5xx, and 429.
func RetryableStatus(code int) bool {
	return code >= 500 || code == http.StatusTooManyRequests
}

// Retry runs fn up to attempts times. Only errors wrapped in
// [RetryableError] are retried; the wait starts at delay and doubles up to
// [MaxDelay]. A cancelled ctx stops the loop with ctx.Err().
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
			delay = min(delay*2, MaxDelay)
		}
	}
	return lastErr
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
