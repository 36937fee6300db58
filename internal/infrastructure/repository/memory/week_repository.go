package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bluelinehq/blueline/internal/domain/week"
)

type WeekRepository struct {
	mu    sync.RWMutex
	items []week.Week
}

func NewWeekRepository(weeks []week.Week) *WeekRepository {
	return &WeekRepository{items: append([]week.Week(nil), weeks...)}
}

func (r *WeekRepository) ListBySeason(_ context.Context, season int) ([]week.Week, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]week.Week, 0, len(r.items))
	for _, w := range r.items {
		if w.Season == season {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })

	return out, nil
}

func (r *WeekRepository) GetBySeasonAndNumber(_ context.Context, season, number int) (week.Week, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, w := range r.items {
		if w.Season == season && w.Number == number {
			return w, true, nil
		}
	}

	return week.Week{}, false, nil
}

// SetWindow rewrites one week's unlock window; administrative tooling edits
// timestamps in place, weeks are never deleted during a season.
func (r *WeekRepository) SetWindow(_ context.Context, season, number int, w week.Week) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].Season == season && r.items[i].Number == number {
			r.items[i] = w
			return true
		}
	}

	return false
}
