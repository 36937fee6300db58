package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/bluelinehq/blueline/internal/domain/league"
	"github.com/bluelinehq/blueline/internal/domain/roster"
	"github.com/bluelinehq/blueline/internal/domain/waiver"
)

func submitClaim(t *testing.T, f *engineFixture, teamID, add, drop string) waiver.Claim {
	t.Helper()

	claim, err := f.waiver.SubmitClaim(t.Context(), SubmitClaimInput{
		LeagueID:     "lg-1",
		TeamID:       teamID,
		PlayerToAdd:  add,
		PlayerToDrop: drop,
	})
	if err != nil {
		t.Fatalf("submit claim for %s failed: %v", teamID, err)
	}
	return claim
}

func claimByID(t *testing.T, f *engineFixture, claimID string) waiver.Claim {
	t.Helper()

	claim, exists, err := f.claimRepo.GetByID(t.Context(), claimID)
	if err != nil || !exists {
		t.Fatalf("claim %s not found: %v", claimID, err)
	}
	return claim
}

func TestWaiverService_SubmitClaim_SnapshotsPriority(t *testing.T) {
	f := newEngineFixture([]league.League{testLeague(nil)}, testTeams(), testPlayers(), testWeeks(), nil, nil)

	claim := submitClaim(t, f, "team-c", "p1", "")
	if claim.Status != waiver.StatusPending {
		t.Fatalf("expected pending claim, got %s", claim.Status)
	}
	if claim.PrioritySnapshot != 3 {
		t.Fatalf("expected snapshot 3, got %d", claim.PrioritySnapshot)
	}
	if claim.WeekNumber != 1 {
		t.Fatalf("expected claim to target current week 1, got %d", claim.WeekNumber)
	}
}

func TestWaiverService_SubmitClaim_WaiversDisabled(t *testing.T) {
	f := newEngineFixture(
		[]league.League{testLeague(func(l *league.League) { l.WaiversEnabled = false })},
		testTeams(), testPlayers(), testWeeks(), nil, nil,
	)

	_, err := f.waiver.SubmitClaim(t.Context(), SubmitClaimInput{
		LeagueID: "lg-1", TeamID: "team-a", PlayerToAdd: "p1",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestWaiverService_CancelClaim(t *testing.T) {
	f := newEngineFixture([]league.League{testLeague(nil)}, testTeams(), testPlayers(), testWeeks(), nil, nil)

	claim := submitClaim(t, f, "team-a", "p1", "")

	if _, err := f.waiver.CancelClaim(t.Context(), claim.ID, "team-b"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for foreign cancel, got %v", err)
	}

	cancelled, err := f.waiver.CancelClaim(t.Context(), claim.ID, "team-a")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != waiver.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}

	if _, err := f.waiver.CancelClaim(t.Context(), claim.ID, "team-a"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput on second cancel, got %v", err)
	}
}

// Capacity example: roster size 2, one offence and one defence slot. A claim
// without a drop must fail on capacity; the same claim with a drop succeeds,
// closes the dropped assignment at the current week and opens the new one at
// the unlocked week.
func TestWaiverService_ProcessPending_CapacityAndSwap(t *testing.T) {
	f := newEngineFixture(
		[]league.League{testLeague(func(l *league.League) {
			l.SlotsOffence = 1
			l.SlotsDefence = 1
			l.RosterSize = 2
		})},
		testTeams(),
		testPlayers(),
		testWeeks(),
		[]roster.Assignment{
			activeAssignment("a1", "team-a", "p1", 1),
		},
		nil,
	)

	blocked := submitClaim(t, f, "team-a", "p2", "")
	swap := submitClaim(t, f, "team-a", "p3", "p1")

	result, err := f.waiver.ProcessPending(t.Context(), "lg-1", 1, 2)
	if err != nil {
		t.Fatalf("process pending failed: %v", err)
	}
	if result.Processed != 2 || result.Successful != 1 || result.Failed != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	got := claimByID(t, f, blocked.ID)
	if got.Status != waiver.StatusFailed || got.FailureReason != string(roster.FailCapacityExceeded) {
		t.Fatalf("expected CapacityExceeded failure, got status=%s reason=%q", got.Status, got.FailureReason)
	}

	got = claimByID(t, f, swap.ID)
	if got.Status != waiver.StatusSuccessful {
		t.Fatalf("expected successful swap, got status=%s reason=%q", got.Status, got.FailureReason)
	}
	if got.ProcessedAt == nil {
		t.Fatal("expected processed_at set")
	}

	opened, active, err := f.ledger.GetActiveByPlayer(t.Context(), "lg-1", "p3")
	if err != nil || !active {
		t.Fatalf("expected p3 active: %v", err)
	}
	if opened.TeamID != "team-a" || opened.WeekAdded != 2 {
		t.Fatalf("unexpected opened assignment: %+v", opened)
	}

	if _, active, _ := f.ledger.GetActiveByPlayer(t.Context(), "lg-1", "p1"); active {
		t.Fatal("expected p1 closed")
	}

	if len(f.notifier.leagueMessages) != 1 {
		t.Fatalf("expected one league notification, got %d", len(f.notifier.leagueMessages))
	}
}

// First run of a new window: the league pointer still reads week 1 while adds
// open at week 2. A claim dropping a player another claim added moments earlier
// in the same batch must still succeed, with the dropped row closed no earlier
// than its added week.
func TestWaiverService_ProcessPending_SameWindowAddThenDrop(t *testing.T) {
	f := newEngineFixture([]league.League{testLeague(nil)}, testTeams(), testPlayers(), testWeeks(), nil, nil)

	f.waiver.now = func() time.Time { return testNow.Add(-2 * time.Minute) }
	first := submitClaim(t, f, "team-a", "p1", "")
	f.waiver.now = func() time.Time { return testNow.Add(-time.Minute) }
	swap := submitClaim(t, f, "team-a", "p2", "p1")
	f.waiver.now = func() time.Time { return testNow }

	result, err := f.waiver.ProcessPending(t.Context(), "lg-1", 1, 2)
	if err != nil {
		t.Fatalf("process pending failed: %v", err)
	}
	if result.Processed != 2 || result.Successful != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}

	got := claimByID(t, f, first.ID)
	if got.Status != waiver.StatusSuccessful {
		t.Fatalf("expected first claim successful, got %s (%s)", got.Status, got.FailureReason)
	}
	got = claimByID(t, f, swap.ID)
	if got.Status != waiver.StatusSuccessful {
		t.Fatalf("expected swap claim successful, got %s (%s)", got.Status, got.FailureReason)
	}

	if _, active, _ := f.ledger.GetActiveByPlayer(t.Context(), "lg-1", "p1"); active {
		t.Fatal("expected p1 dropped")
	}
	history, err := f.ledger.ListByTeam(t.Context(), "team-a")
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	for _, a := range history {
		if a.PlayerID != "p1" {
			continue
		}
		if a.WeekDropped == nil || *a.WeekDropped < a.WeekAdded {
			t.Fatalf("p1 closed before its added week: %+v", a)
		}
	}
}

func TestWaiverService_ProcessPending_OrderAndIsolation(t *testing.T) {
	f := newEngineFixture(
		[]league.League{testLeague(nil)},
		testTeams(),
		testPlayers(),
		testWeeks(),
		[]roster.Assignment{
			activeAssignment("a1", "team-d", "p4", 1),
		},
		nil,
	)

	// Lower priority number processes first, so team-b wins p1 and team-c's
	// claim for the same player fails without blocking team-c's other claim.
	late := submitClaim(t, f, "team-c", "p1", "")
	stale := submitClaim(t, f, "team-c", "p2", "p4")
	first := submitClaim(t, f, "team-b", "p1", "")

	result, err := f.waiver.ProcessPending(t.Context(), "lg-1", 1, 2)
	if err != nil {
		t.Fatalf("process pending failed: %v", err)
	}
	if result.Successful != 1 || result.Failed != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}

	got := claimByID(t, f, first.ID)
	if got.Status != waiver.StatusSuccessful {
		t.Fatalf("expected team-b claim successful, got %s (%s)", got.Status, got.FailureReason)
	}

	got = claimByID(t, f, late.ID)
	if got.Status != waiver.StatusFailed || got.FailureReason != string(roster.FailAlreadyOwned) {
		t.Fatalf("expected AlreadyOwned, got status=%s reason=%q", got.Status, got.FailureReason)
	}

	got = claimByID(t, f, stale.ID)
	if got.Status != waiver.StatusFailed || got.FailureReason != string(roster.FailStaleState) {
		t.Fatalf("expected StaleState, got status=%s reason=%q", got.Status, got.FailureReason)
	}
}

func TestWaiverService_ProcessPending_RosterFull(t *testing.T) {
	f := newEngineFixture(
		[]league.League{testLeague(func(l *league.League) { l.RosterSize = 1 })},
		testTeams(),
		testPlayers(),
		testWeeks(),
		[]roster.Assignment{
			activeAssignment("a1", "team-a", "p1", 1),
		},
		nil,
	)

	claim := submitClaim(t, f, "team-a", "p2", "")

	if _, err := f.waiver.ProcessPending(t.Context(), "lg-1", 1, 2); err != nil {
		t.Fatalf("process pending failed: %v", err)
	}

	got := claimByID(t, f, claim.ID)
	if got.FailureReason != string(roster.FailRosterFull) {
		t.Fatalf("expected RosterFull, got %q", got.FailureReason)
	}
}

// After a successful claim the claimant moves to the back of the waiver
// order: teams behind it shift down one, teams ahead keep their place.
func TestWaiverService_ProcessPending_RotatesPriority(t *testing.T) {
	f := newEngineFixture([]league.League{testLeague(nil)}, testTeams(), testPlayers(), testWeeks(), nil, nil)

	submitClaim(t, f, "team-b", "p1", "")

	if _, err := f.waiver.ProcessPending(t.Context(), "lg-1", 1, 2); err != nil {
		t.Fatalf("process pending failed: %v", err)
	}

	want := map[string]int{
		"team-a": 1,
		"team-c": 2,
		"team-d": 3,
		"team-b": 4,
	}
	for teamID, wantPriority := range want {
		got, _, err := f.teamRepo.GetByID(t.Context(), teamID)
		if err != nil {
			t.Fatalf("get team %s failed: %v", teamID, err)
		}
		if got.WaiverPriority != wantPriority {
			t.Fatalf("team %s priority: got %d want %d", teamID, got.WaiverPriority, wantPriority)
		}
	}
}

func TestWaiverService_ProcessPending_NoopWhenWaiversDisabled(t *testing.T) {
	f := newEngineFixture(
		[]league.League{testLeague(func(l *league.League) { l.WaiversEnabled = false })},
		testTeams(), testPlayers(), testWeeks(), nil, nil,
	)

	result, err := f.waiver.ProcessPending(t.Context(), "lg-1", 1, 2)
	if err != nil {
		t.Fatalf("process pending failed: %v", err)
	}
	if result.Processed != 0 {
		t.Fatalf("expected no processing, got %+v", result)
	}
}

// Ownership uniqueness holds across an arbitrary claim sequence: processing
// two claims for the same free player leaves exactly one active assignment.
func TestWaiverService_OwnershipUniqueness(t *testing.T) {
	f := newEngineFixture([]league.League{testLeague(nil)}, testTeams(), testPlayers(), testWeeks(), nil, nil)

	submitClaim(t, f, "team-a", "p1", "")
	submitClaim(t, f, "team-b", "p1", "")
	submitClaim(t, f, "team-c", "p1", "")

	if _, err := f.waiver.ProcessPending(t.Context(), "lg-1", 1, 2); err != nil {
		t.Fatalf("process pending failed: %v", err)
	}

	count := 0
	for _, teamID := range []string{"team-a", "team-b", "team-c", "team-d"} {
		active, err := f.ledger.ListActiveByTeam(t.Context(), teamID)
		if err != nil {
			t.Fatalf("list active failed: %v", err)
		}
		for _, a := range active {
			if a.PlayerID == "p1" {
				count++
			}
		}
	}
	if count != 1 {
		t.Fatalf("ownership uniqueness violated: %d active assignments for p1", count)
	}
}
