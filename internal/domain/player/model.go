package player

import "fmt"

// Position is the slot category a player occupies on a roster.
type Position string

const (
	PositionOffence Position = "O"
	PositionDefence Position = "D"
	PositionGoalie  Position = "G"
)

var AllPositions = map[Position]struct{}{
	PositionOffence: {},
	PositionDefence: {},
	PositionGoalie:  {},
}

// Player is a real skater or goalie available to fantasy teams.
type Player struct {
	ID       string
	Name     string
	Position Position
	// SideOverride marks flex players that count against a slot other than
	// their natural position, e.g. a defenceman rostered as a forward.
	SideOverride *Position
}

// OccupiedPosition is the slot the player counts against: the explicit
// override when set, else the natural position.
func (p Player) OccupiedPosition() Position {
	if p.SideOverride != nil {
		return *p.SideOverride
	}
	return p.Position
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("unknown player position: %s", p.Position)
	}
	if p.SideOverride != nil {
		if _, ok := AllPositions[*p.SideOverride]; !ok {
			return fmt.Errorf("unknown side override: %s", *p.SideOverride)
		}
	}

	return nil
}
