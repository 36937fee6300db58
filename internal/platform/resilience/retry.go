package resilience

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy re-runs a whole operation on failure, waiting out an explicit
// backoff schedule between attempts. The schedule is positional: attempt n
// waits Backoff[n-1] before retrying; a schedule shorter than MaxAttempts
// repeats its last entry.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     []time.Duration

	// sleep is swapped out by tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewRetryPolicy(maxAttempts int, backoff ...time.Duration) RetryPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if len(backoff) == 0 {
		backoff = []time.Duration{time.Second, 5 * time.Second, 15 * time.Second}
	}

	return RetryPolicy{
		MaxAttempts: maxAttempts,
		Backoff:     backoff,
		sleep:       sleepContext,
	}
}

// Run invokes op until it succeeds or the attempt ceiling is exhausted. The
// returned error wraps the final attempt's error; context cancellation stops
// retrying immediately.
func (p RetryPolicy) Run(ctx context.Context, op func(ctx context.Context) error) error {
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == p.MaxAttempts {
			break
		}
		if err := sleep(ctx, p.delayFor(attempt)); err != nil {
			return fmt.Errorf("retry interrupted after attempt %d: %w", attempt, err)
		}
	}

	return fmt.Errorf("retries exhausted after %d attempt(s): %w", p.MaxAttempts, lastErr)
}

func (p RetryPolicy) delayFor(attempt int) time.Duration {
	if len(p.Backoff) == 0 {
		return 0
	}
	idx := attempt - 1
	if idx >= len(p.Backoff) {
		idx = len(p.Backoff) - 1
	}
	return p.Backoff[idx]
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
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
