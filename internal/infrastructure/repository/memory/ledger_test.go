package memory

import (
	"testing"

	"github.com/bluelinehq/blueline/internal/domain/roster"
)

// A drop in the same window a player was added stamps the close at the added
// week, never before it; later drops keep the requested week.
func TestLedger_Apply_CloseWeekNeverPrecedesAddedWeek(t *testing.T) {
	tests := []struct {
		name        string
		weekAdded   int
		weekDropped int
		want        int
	}{
		{name: "same window close clamps to added week", weekAdded: 2, weekDropped: 1, want: 2},
		{name: "later close keeps requested week", weekAdded: 1, weekDropped: 3, want: 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLedger([]roster.Assignment{
				{ID: "a1", LeagueID: "lg-1", TeamID: "team-a", PlayerID: "p1", WeekAdded: tc.weekAdded},
			}, nil)

			err := l.Apply(t.Context(), roster.Mutation{
				Closes: []roster.CloseOp{{AssignmentID: "a1", WeekDropped: tc.weekDropped}},
			})
			if err != nil {
				t.Fatalf("apply failed: %v", err)
			}

			history, err := l.ListByTeam(t.Context(), "team-a")
			if err != nil {
				t.Fatalf("list by team failed: %v", err)
			}
			if len(history) != 1 {
				t.Fatalf("expected one assignment, got %d", len(history))
			}
			if history[0].WeekDropped == nil || *history[0].WeekDropped != tc.want {
				t.Fatalf("expected close at week %d, got %v", tc.want, history[0].WeekDropped)
			}
		})
	}
}

func TestLedger_Apply_SameWindowAddThenSwap(t *testing.T) {
	l := NewLedger(nil, nil)

	if err := l.Apply(t.Context(), roster.Mutation{
		Opens: []roster.Assignment{
			{ID: "a1", LeagueID: "lg-1", TeamID: "team-a", PlayerID: "p1", WeekAdded: 2},
		},
	}); err != nil {
		t.Fatalf("open failed: %v", err)
	}

	// Week 2 just unlocked: the league pointer still reads week 1, so the
	// swap closes at week 1 while a1 was added at week 2.
	if err := l.Apply(t.Context(), roster.Mutation{
		Closes: []roster.CloseOp{{AssignmentID: "a1", WeekDropped: 1}},
		Opens: []roster.Assignment{
			{ID: "a2", LeagueID: "lg-1", TeamID: "team-a", PlayerID: "p2", WeekAdded: 2},
		},
	}); err != nil {
		t.Fatalf("same-window swap failed: %v", err)
	}

	if _, active, _ := l.GetActiveByPlayer(t.Context(), "lg-1", "p1"); active {
		t.Fatal("expected p1 closed")
	}
	opened, active, err := l.GetActiveByPlayer(t.Context(), "lg-1", "p2")
	if err != nil || !active {
		t.Fatalf("expected p2 active: %v", err)
	}
	if opened.WeekAdded != 2 {
		t.Fatalf("unexpected opened assignment: %+v", opened)
	}
}
