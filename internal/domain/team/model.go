package team

import "fmt"

// Team is a fantasy franchise inside a league. WaiverPriority is a total
// order over the league's teams: lower numbers claim first.
type Team struct {
	ID             string
	LeagueID       string
	Name           string
	WaiverPriority int
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.LeagueID == "" {
		return fmt.Errorf("team league id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.WaiverPriority <= 0 {
		return fmt.Errorf("waiver priority must be greater than zero")
	}

	return nil
}
