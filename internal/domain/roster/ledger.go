package roster

import "context"

// CloseOp closes one active assignment by stamping the week it was dropped.
// A close week earlier than the assignment's WeekAdded is clamped up to it:
// a player added and dropped inside the same unlock window records a
// zero-length holding rather than an invalid range.
type CloseOp struct {
	AssignmentID string
	WeekDropped  int
}

// PickTransfer reassigns draft pick ownership; picks carry no week range.
type PickTransfer struct {
	PickID   string
	ToTeamID string
}

// Mutation is one atomic unit of ledger edits: every close, open and pick
// transfer commits together or not at all.
type Mutation struct {
	Closes        []CloseOp
	Opens         []Assignment
	PickTransfers []PickTransfer
}

func (m Mutation) Empty() bool {
	return len(m.Closes) == 0 && len(m.Opens) == 0 && len(m.PickTransfers) == 0
}

// Ledger is the authoritative store of player-to-team assignments and the
// engine's only shared mutable resource. Apply must serialize concurrent
// mutations touching the same player within a league; implementations back
// this with row-level locks or an equivalent mutex.
type Ledger interface {
	GetActiveByPlayer(ctx context.Context, leagueID, playerID string) (Assignment, bool, error)
	ListActiveByTeam(ctx context.Context, teamID string) ([]Assignment, error)
	// ListByTeam returns the team's full assignment history, closed rows
	// included, ordered by creation.
	ListByTeam(ctx context.Context, teamID string) ([]Assignment, error)
	Apply(ctx context.Context, m Mutation) error
}
