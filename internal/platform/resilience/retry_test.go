package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryPolicy_SucceedsAfterFailures(t *testing.T) {
	t.Parallel()

	policy := NewRetryPolicy(4, time.Second, 5*time.Second, 15*time.Second)

	var slept []time.Duration
	policy.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	calls := 0
	err := policy.Run(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}

	want := []time.Duration{time.Second, 5 * time.Second}
	if len(slept) != len(want) {
		t.Fatalf("unexpected sleep count: got=%v want=%v", slept, want)
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Fatalf("unexpected backoff at %d: got=%v want=%v", i, slept[i], want[i])
		}
	}
}

func TestRetryPolicy_ExhaustsCeiling(t *testing.T) {
	t.Parallel()

	policy := NewRetryPolicy(3, time.Millisecond)
	policy.sleep = func(context.Context, time.Duration) error { return nil }

	boom := errors.New("boom")
	calls := 0
	err := policy.Run(context.Background(), func(context.Context) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped final error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestRetryPolicy_SchedulePinsToLastEntry(t *testing.T) {
	t.Parallel()

	policy := NewRetryPolicy(5, time.Second, 5*time.Second)
	if got := policy.delayFor(4); got != 5*time.Second {
		t.Fatalf("expected last backoff entry to repeat, got %v", got)
	}
}

func TestRetryPolicy_ContextCancelStopsRetrying(t *testing.T) {
	t.Parallel()

	policy := NewRetryPolicy(3, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := policy.Run(ctx, func(context.Context) error {
		calls++
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}
