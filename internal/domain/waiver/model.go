package waiver

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusSuccessful Status = "successful"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Claim is a priority-queued request to add a player, optionally dropping
// another. Once a claim leaves Pending it is immutable.
type Claim struct {
	ID               string
	LeagueID         string
	TeamID           string
	PlayerToAdd      string
	PlayerToDrop     *string
	WeekNumber       int
	PrioritySnapshot int
	Status           Status
	FailureReason    string
	ProcessedAt      *time.Time
	CreatedAt        time.Time
}

// Terminal reports whether the claim has reached an end state.
func (c Claim) Terminal() bool {
	return c.Status != StatusPending
}

func (c Claim) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("claim id is required")
	}
	if c.LeagueID == "" {
		return fmt.Errorf("claim league id is required")
	}
	if c.TeamID == "" {
		return fmt.Errorf("claim team id is required")
	}
	if c.PlayerToAdd == "" {
		return fmt.Errorf("claim player to add is required")
	}
	if c.PlayerToDrop != nil && *c.PlayerToDrop == c.PlayerToAdd {
		return fmt.Errorf("claim cannot add and drop the same player")
	}

	return nil
}
