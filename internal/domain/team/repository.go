package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Team, error)
	// UpdatePriorities rewrites waiver priorities for the given teams as one
	// re-ranking operation.
	UpdatePriorities(ctx context.Context, priorities map[string]int) error
}
