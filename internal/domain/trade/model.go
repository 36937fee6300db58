package trade

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

type ItemKind string

const (
	ItemKindPlayer ItemKind = "player"
	ItemKindPick   ItemKind = "pick"
)

// Item is one leg of a trade: a player or draft pick leaving SourceTeamID.
type Item struct {
	ID           string
	Kind         ItemKind
	RefID        string
	SourceTeamID string
}

// Trade is a proposed bilateral exchange. Accepted is a promise to execute at
// the next unlock; ExecutedAt is set exactly once by the executor and is the
// only terminal success marker.
type Trade struct {
	ID              string
	LeagueID        string
	ProposingTeamID string
	ReceivingTeamID string
	Status          Status
	Items           []Item
	FailureReason   string
	ExecutedAt      *time.Time
	CreatedAt       time.Time
}

// Executed reports terminal success.
func (t Trade) Executed() bool {
	return t.ExecutedAt != nil
}

// CounterpartOf returns the team a leg moves to.
func (t Trade) CounterpartOf(sourceTeamID string) string {
	if sourceTeamID == t.ProposingTeamID {
		return t.ReceivingTeamID
	}
	return t.ProposingTeamID
}

func (t Trade) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("trade id is required")
	}
	if t.LeagueID == "" {
		return fmt.Errorf("trade league id is required")
	}
	if t.ProposingTeamID == "" || t.ReceivingTeamID == "" {
		return fmt.Errorf("trade requires both teams")
	}
	if t.ProposingTeamID == t.ReceivingTeamID {
		return fmt.Errorf("trade teams must be distinct")
	}
	if len(t.Items) == 0 {
		return fmt.Errorf("trade items are required")
	}
	for _, item := range t.Items {
		if item.RefID == "" {
			return fmt.Errorf("trade item ref id is required")
		}
		if item.Kind != ItemKindPlayer && item.Kind != ItemKindPick {
			return fmt.Errorf("unknown trade item kind: %s", item.Kind)
		}
		if item.SourceTeamID != t.ProposingTeamID && item.SourceTeamID != t.ReceivingTeamID {
			return fmt.Errorf("trade item source team %s is not part of the trade", item.SourceTeamID)
		}
	}

	return nil
}
