package week

import "context"

// Repository describes week schedule persistence needs from use cases.
type Repository interface {
	ListBySeason(ctx context.Context, season int) ([]Week, error)
	GetBySeasonAndNumber(ctx context.Context, season, number int) (Week, bool, error)
}
