package league

import (
	"fmt"

	"github.com/bluelinehq/blueline/internal/domain/player"
)

// League is the configuration aggregate every other entity belongs to.
type League struct {
	ID             string
	Name           string
	Season         int
	CurrentWeek    int
	WaiversEnabled bool
	SlotsOffence   int
	SlotsDefence   int
	SlotsGoalie    int
	SlotsBench     int
	RosterSize     int
}

// SlotsFor returns the configured slot count for a playing position. Bench
// capacity is not position-specific and is covered by RosterSize.
func (l League) SlotsFor(pos player.Position) int {
	switch pos {
	case player.PositionOffence:
		return l.SlotsOffence
	case player.PositionDefence:
		return l.SlotsDefence
	case player.PositionGoalie:
		return l.SlotsGoalie
	default:
		return 0
	}
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.Season <= 0 {
		return fmt.Errorf("league season is required")
	}
	if l.SlotsOffence <= 0 || l.SlotsDefence <= 0 || l.SlotsGoalie <= 0 {
		return fmt.Errorf("position slot counts must be greater than zero")
	}
	if l.RosterSize < l.SlotsOffence+l.SlotsDefence+l.SlotsGoalie {
		return fmt.Errorf("roster size must cover all position slots")
	}

	return nil
}
