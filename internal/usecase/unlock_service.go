package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bluelinehq/blueline/internal/domain/league"
	"github.com/bluelinehq/blueline/internal/domain/week"
	"github.com/bluelinehq/blueline/internal/platform/resilience"
)

// UnlockReport summarizes one orchestrator invocation across all leagues.
type UnlockReport struct {
	LeaguesVisited  int
	LeaguesUnlocked int
	Claims          ProcessResult
	Trades          ProcessResult
}

// UnlockService is the scheduled entry point of the engine. For every league
// whose season currently has an unlocked week it runs the waiver processor,
// then the trade executor, then advances the league's current-week pointer.
// The whole invocation is retried with backoff; the batch is idempotent
// because processed claims and executed trades fall out of the next run's
// input set.
type UnlockService struct {
	leagueRepo league.Repository
	weekRepo   week.Repository
	waiverSvc  *WaiverService
	tradeSvc   *TradeService
	retry      resilience.RetryPolicy
	logger     *slog.Logger
	now        func() time.Time
}

func NewUnlockService(
	leagueRepo league.Repository,
	weekRepo week.Repository,
	waiverSvc *WaiverService,
	tradeSvc *TradeService,
	retry resilience.RetryPolicy,
	logger *slog.Logger,
) *UnlockService {
	if logger == nil {
		logger = slog.Default()
	}

	return &UnlockService{
		leagueRepo: leagueRepo,
		weekRepo:   weekRepo,
		waiverSvc:  waiverSvc,
		tradeSvc:   tradeSvc,
		retry:      retry,
		logger:     logger,
		now:        time.Now,
	}
}

// Run executes one orchestrator invocation under the retry policy. Exhausting
// retries is a fatal condition for the scheduler to surface to operators.
func (s *UnlockService) Run(ctx context.Context) (UnlockReport, error) {
	ctx, span := startUsecaseSpan(ctx, "UnlockService.Run")
	defer span.End()

	var report UnlockReport
	err := s.retry.Run(ctx, func(ctx context.Context) error {
		var runErr error
		report, runErr = s.runOnce(ctx)
		return runErr
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "unlock run exhausted retries",
			slog.String("error", err.Error()),
		)
		return report, fmt.Errorf("unlock run: %w", err)
	}

	return report, nil
}

func (s *UnlockService) runOnce(ctx context.Context) (UnlockReport, error) {
	leagues, err := s.leagueRepo.ListActive(ctx)
	if err != nil {
		return UnlockReport{}, fmt.Errorf("list active leagues: %w", err)
	}

	report := UnlockReport{}
	now := s.now().UTC()

	for _, leagueItem := range leagues {
		report.LeaguesVisited++

		weeks, err := s.weekRepo.ListBySeason(ctx, leagueItem.Season)
		if err != nil {
			return report, fmt.Errorf("list weeks for season %d: %w", leagueItem.Season, err)
		}
		open := week.Unlocked(weeks, now)
		if len(open) == 0 {
			continue
		}
		report.LeaguesUnlocked++
		unlockedWeek := open[len(open)-1].Number

		if leagueItem.WaiversEnabled {
			claims, err := s.waiverSvc.ProcessPending(ctx, leagueItem.ID, leagueItem.CurrentWeek, unlockedWeek)
			if err != nil {
				return report, fmt.Errorf("process waiver claims for league %s: %w", leagueItem.ID, err)
			}
			report.Claims.Processed += claims.Processed
			report.Claims.Successful += claims.Successful
			report.Claims.Failed += claims.Failed
		}

		trades, err := s.tradeSvc.ExecuteAccepted(ctx, leagueItem.ID, leagueItem.CurrentWeek, unlockedWeek)
		if err != nil {
			return report, fmt.Errorf("execute trades for league %s: %w", leagueItem.ID, err)
		}
		report.Trades.Processed += trades.Processed
		report.Trades.Successful += trades.Successful
		report.Trades.Failed += trades.Failed

		if unlockedWeek != leagueItem.CurrentWeek {
			if err := s.leagueRepo.UpdateCurrentWeek(ctx, leagueItem.ID, unlockedWeek); err != nil {
				return report, fmt.Errorf("advance current week for league %s: %w", leagueItem.ID, err)
			}
		}

		s.logger.InfoContext(ctx, "league unlock processed",
			slog.String("league_id", leagueItem.ID),
			slog.Int("unlocked_week", unlockedWeek),
			slog.Int("claims_processed", report.Claims.Processed),
			slog.Int("trades_processed", report.Trades.Processed),
		)
	}

	return report, nil
}
