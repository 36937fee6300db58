package waiver

import "context"

// Repository describes waiver claim persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, claim Claim) error
	GetByID(ctx context.Context, claimID string) (Claim, bool, error)
	ListPendingByLeague(ctx context.Context, leagueID string) ([]Claim, error)
	Update(ctx context.Context, claim Claim) error
}
