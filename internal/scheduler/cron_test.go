package scheduler

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func TestNew_RejectsInvalidCronSpec(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if _, err := New(nil, "not a cron spec", logger, context.Background()); err == nil {
		t.Fatalf("expected error for invalid cron spec")
	}
}

func TestNew_AcceptsStandardSpec(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := New(nil, "*/5 * * * *", logger, context.Background())
	if err != nil {
		t.Fatalf("create scheduler: %v", err)
	}
	if s == nil {
		t.Fatalf("expected scheduler instance")
	}
}
