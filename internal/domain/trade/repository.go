package trade

import "context"

// Repository describes trade persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, t Trade) error
	GetByID(ctx context.Context, tradeID string) (Trade, bool, error)
	// ListAcceptedUnexecuted returns accepted trades whose ExecutedAt is
	// still unset; this is the executor's entire input set.
	ListAcceptedUnexecuted(ctx context.Context, leagueID string) ([]Trade, error)
	Update(ctx context.Context, t Trade) error
}
