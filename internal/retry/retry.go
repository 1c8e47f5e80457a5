// Package retry re-runs transient operations with a linear backoff.
package retry

import (
	"context"
	"fmt"
	"time"
)

// DefaultDelay is the base wait between attempts; attempt n waits n*delay.
const DefaultDelay = 500 * time.Millisecond

// Do calls fn up to attempts times, waiting delay, 2*delay, ... between
// failures. It stops early when ctx is done.
func Do[T any](ctx context.Context, attempts int, delay time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		wait := time.Duration(i+1) * delay
		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("after %d attempts: %w", i+1, ctx.Err())
		case <-time.After(wait):
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
