package roster

import (
	"testing"

	"github.com/bluelinehq/blueline/internal/domain/league"
	"github.com/bluelinehq/blueline/internal/domain/player"
)

func testRules() Rules {
	return RulesFromLeague(league.League{
		ID:           "l-1",
		Name:         "Test",
		Season:       2026,
		SlotsOffence: 2,
		SlotsDefence: 2,
		SlotsGoalie:  1,
		SlotsBench:   2,
		RosterSize:   7,
	})
}

func TestCheckCapacity(t *testing.T) {
	rules := testRules()

	tests := []struct {
		name     string
		occupied []player.Position
		target   player.Position
		allowed  bool
		current  int
	}{
		{
			name:     "empty roster",
			occupied: nil,
			target:   player.PositionOffence,
			allowed:  true,
			current:  0,
		},
		{
			name:     "one slot left",
			occupied: []player.Position{player.PositionOffence},
			target:   player.PositionOffence,
			allowed:  true,
			current:  1,
		},
		{
			name:     "position full",
			occupied: []player.Position{player.PositionOffence, player.PositionOffence},
			target:   player.PositionOffence,
			allowed:  false,
			current:  2,
		},
		{
			name:     "other positions do not count",
			occupied: []player.Position{player.PositionDefence, player.PositionDefence},
			target:   player.PositionGoalie,
			allowed:  true,
			current:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckCapacity(tt.occupied, tt.target, rules)
			if got.Allowed != tt.allowed || got.Current != tt.current {
				t.Fatalf("unexpected capacity check: got=%+v", got)
			}
		})
	}
}

func TestAtRosterLimit(t *testing.T) {
	rules := testRules()

	if AtRosterLimit(6, rules) {
		t.Fatalf("expected room below roster size")
	}
	if !AtRosterLimit(7, rules) {
		t.Fatalf("expected limit at roster size")
	}
}

func TestAssignmentValidate(t *testing.T) {
	dropped := 2
	valid := Assignment{
		ID:        "ra-1",
		LeagueID:  "l-1",
		TeamID:    "t-1",
		PlayerID:  "p-1",
		WeekAdded: 3,
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid assignment, got %v", err)
	}

	bad := valid
	bad.WeekDropped = &dropped
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error when week dropped precedes week added")
	}
}
