package usecase

import (
	"testing"
	"time"

	"github.com/bluelinehq/blueline/internal/domain/league"
	"github.com/bluelinehq/blueline/internal/domain/roster"
	"github.com/bluelinehq/blueline/internal/domain/trade"
)

func TestUnlockService_Run_ProcessesClaimsThenTrades(t *testing.T) {
	f := newEngineFixture(
		[]league.League{testLeague(nil)},
		testTeams(),
		testPlayers(),
		testWeeks(),
		[]roster.Assignment{
			activeAssignment("a1", "team-a", "p1", 1),
			activeAssignment("a2", "team-b", "p4", 1),
		},
		nil,
	)

	// Queue work while the league is locked so the orchestrator releases it.
	lockedNow := time.Date(2026, time.March, 7, 12, 0, 0, 0, time.UTC)
	f.waiver.now = func() time.Time { return lockedNow }
	f.trade.now = func() time.Time { return lockedNow }

	submitClaim(t, f, "team-c", "p2", "")
	proposed := proposeTestTrade(t, f, []TradeItemInput{
		{Kind: trade.ItemKindPlayer, RefID: "p1", SourceTeamID: "team-a"},
		{Kind: trade.ItemKindPlayer, RefID: "p4", SourceTeamID: "team-b"},
	})
	if _, err := f.trade.AcceptTrade(t.Context(), proposed.ID, "team-b"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	// Week 2 unlocks.
	f.waiver.now = func() time.Time { return testNow }
	f.trade.now = func() time.Time { return testNow }

	report, err := f.unlock.Run(t.Context())
	if err != nil {
		t.Fatalf("unlock run failed: %v", err)
	}
	if report.LeaguesUnlocked != 1 {
		t.Fatalf("expected one unlocked league, got %+v", report)
	}
	if report.Claims.Successful != 1 || report.Trades.Successful != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}

	updated, _, err := f.leagueRepo.GetByID(t.Context(), "lg-1")
	if err != nil {
		t.Fatalf("get league failed: %v", err)
	}
	if updated.CurrentWeek != 2 {
		t.Fatalf("expected current week advanced to 2, got %d", updated.CurrentWeek)
	}

	p2, active, err := f.ledger.GetActiveByPlayer(t.Context(), "lg-1", "p2")
	if err != nil || !active {
		t.Fatalf("expected claimed player active: %v", err)
	}
	if p2.TeamID != "team-c" {
		t.Fatalf("unexpected claim result: %+v", p2)
	}
	if p1, _, _ := f.ledger.GetActiveByPlayer(t.Context(), "lg-1", "p1"); p1.TeamID != "team-b" {
		t.Fatalf("expected trade executed, got %+v", p1)
	}
}

// Re-running the orchestrator immediately after a successful run performs
// zero additional mutations: processed claims and executed trades drop out of
// the next run's input set.
func TestUnlockService_Run_IdempotentBatchRetry(t *testing.T) {
	f := newEngineFixture(
		[]league.League{testLeague(nil)},
		testTeams(),
		testPlayers(),
		testWeeks(),
		[]roster.Assignment{
			activeAssignment("a1", "team-a", "p1", 1),
			activeAssignment("a2", "team-b", "p4", 1),
		},
		nil,
	)

	submitClaim(t, f, "team-c", "p2", "")
	proposed := proposeTestTrade(t, f, []TradeItemInput{
		{Kind: trade.ItemKindPlayer, RefID: "p1", SourceTeamID: "team-a"},
		{Kind: trade.ItemKindPlayer, RefID: "p4", SourceTeamID: "team-b"},
	})

	// Accept while locked so execution waits for the orchestrator.
	f.trade.now = func() time.Time {
		return time.Date(2026, time.March, 7, 12, 0, 0, 0, time.UTC)
	}
	if _, err := f.trade.AcceptTrade(t.Context(), proposed.ID, "team-b"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	f.trade.now = func() time.Time { return testNow }

	first, err := f.unlock.Run(t.Context())
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if first.Claims.Processed != 1 || first.Trades.Processed != 1 {
		t.Fatalf("unexpected first report: %+v", first)
	}

	second, err := f.unlock.Run(t.Context())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if second.Claims.Processed != 0 || second.Trades.Processed != 0 {
		t.Fatalf("expected zero mutations on retry, got %+v", second)
	}

	history, err := f.ledger.ListByTeam(t.Context(), "team-c")
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected exactly one assignment row for team-c, got %d", len(history))
	}
}

func TestUnlockService_Run_SkipsLockedLeagues(t *testing.T) {
	f := newEngineFixture([]league.League{testLeague(nil)}, testTeams(), testPlayers(), testWeeks(), nil, nil)

	f.unlock.now = func() time.Time {
		return time.Date(2026, time.March, 7, 12, 0, 0, 0, time.UTC)
	}

	report, err := f.unlock.Run(t.Context())
	if err != nil {
		t.Fatalf("unlock run failed: %v", err)
	}
	if report.LeaguesVisited != 1 || report.LeaguesUnlocked != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
}
