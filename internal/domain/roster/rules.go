package roster

import (
	"github.com/bluelinehq/blueline/internal/domain/league"
	"github.com/bluelinehq/blueline/internal/domain/player"
)

// Rules stores the league's capacity configuration.
type Rules struct {
	SlotsByPosition map[player.Position]int
	RosterSize      int
}

func RulesFromLeague(l league.League) Rules {
	return Rules{
		SlotsByPosition: map[player.Position]int{
			player.PositionOffence: l.SlotsOffence,
			player.PositionDefence: l.SlotsDefence,
			player.PositionGoalie:  l.SlotsGoalie,
		},
		RosterSize: l.RosterSize,
	}
}

// CapacityCheck is the outcome of a capacity probe for one position.
type CapacityCheck struct {
	Allowed bool
	Current int
	Max     int
}

// CheckCapacity reports whether one more player may occupy target, given the
// occupied positions of a team's current active assignments. Callers exclude
// a player being swapped out before building occupied.
func CheckCapacity(occupied []player.Position, target player.Position, rules Rules) CapacityCheck {
	maxAllowed := rules.SlotsByPosition[target]
	current := 0
	for _, pos := range occupied {
		if pos == target {
			current++
		}
	}

	return CapacityCheck{
		Allowed: current < maxAllowed,
		Current: current,
		Max:     maxAllowed,
	}
}

// AtRosterLimit reports whether the team's active count has reached the
// league's total roster size.
func AtRosterLimit(activeCount int, rules Rules) bool {
	return activeCount >= rules.RosterSize
}
