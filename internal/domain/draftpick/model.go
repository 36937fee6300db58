package draftpick

import "fmt"

// Pick is a tradeable future draft selection. Ownership changes flow through
// the roster ledger so a pick leg commits atomically with player legs.
type Pick struct {
	ID       string
	LeagueID string
	TeamID   string
	Season   int
	Round    int
}

func (p Pick) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("pick id is required")
	}
	if p.LeagueID == "" {
		return fmt.Errorf("pick league id is required")
	}
	if p.TeamID == "" {
		return fmt.Errorf("pick team id is required")
	}
	if p.Round <= 0 {
		return fmt.Errorf("pick round must be greater than zero")
	}

	return nil
}
