// Package scheduler runs the recurring unlock sweep on a cron spec so leagues
// open for roster changes without an operator calling the internal job route.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/bluelinehq/blueline/internal/usecase"
)

type Scheduler struct {
	cron    *cron.Cron
	unlock  *usecase.UnlockService
	logger  *slog.Logger
	baseCtx context.Context
}

func New(unlockService *usecase.UnlockService, cronSpec string, logger *slog.Logger, baseCtx context.Context) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	s := &Scheduler{
		cron:    cron.New(),
		unlock:  unlockService,
		logger:  logger,
		baseCtx: baseCtx,
	}

	if _, err := s.cron.AddFunc(cronSpec, s.runUnlock); err != nil {
		return nil, fmt.Errorf("register unlock schedule %q: %w", cronSpec, err)
	}

	return s, nil
}

func (s *Scheduler) runUnlock() {
	ctx := s.baseCtx

	report, err := s.unlock.Run(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled unlock run failed", "error", err)
		return
	}

	s.logger.InfoContext(ctx, "scheduled unlock run finished",
		"leagues_visited", report.LeaguesVisited,
		"leagues_unlocked", report.LeaguesUnlocked,
		"claims_processed", report.Claims.Processed,
		"trades_processed", report.Trades.Processed,
	)
}

func (s *Scheduler) Start() {
	s.logger.Info("scheduler started")
	s.cron.Start()
}

// Stop halts the schedule and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}
