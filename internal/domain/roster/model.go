package roster

import (
	"fmt"
	"time"
)

// Assignment ties one player to one team within a league for a half-open
// range of weeks. A nil WeekDropped means the assignment is still active.
// Assignments are closed, never deleted: the full row history is the audit
// trail roster standings are reconstructed from.
type Assignment struct {
	ID          string
	LeagueID    string
	TeamID      string
	PlayerID    string
	WeekAdded   int
	WeekDropped *int
	CreatedAt   time.Time
}

// Active reports whether the assignment currently holds the player.
func (a Assignment) Active() bool {
	return a.WeekDropped == nil
}

func (a Assignment) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("assignment id is required")
	}
	if a.LeagueID == "" {
		return fmt.Errorf("assignment league id is required")
	}
	if a.TeamID == "" {
		return fmt.Errorf("assignment team id is required")
	}
	if a.PlayerID == "" {
		return fmt.Errorf("assignment player id is required")
	}
	if a.WeekAdded <= 0 {
		return fmt.Errorf("assignment week added must be greater than zero")
	}
	if a.WeekDropped != nil && *a.WeekDropped < a.WeekAdded {
		return fmt.Errorf("assignment week dropped cannot precede week added")
	}

	return nil
}
