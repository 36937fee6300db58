package draftpick

import "context"

// Repository describes draft pick lookups; mutations go through the ledger.
type Repository interface {
	GetByID(ctx context.Context, pickID string) (Pick, bool, error)
	ListByTeam(ctx context.Context, teamID string) ([]Pick, error)
}
