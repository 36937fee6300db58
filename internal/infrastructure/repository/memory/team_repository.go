package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bluelinehq/blueline/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	items map[string]team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	items := make(map[string]team.Team, len(teams))
	for _, t := range teams {
		items[t.ID] = t
	}

	return &TeamRepository{items: items}
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[teamID]
	if !ok {
		return team.Team{}, false, nil
	}

	return t, true, nil
}

func (r *TeamRepository) ListByLeague(_ context.Context, leagueID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.items))
	for _, t := range r.items {
		if t.LeagueID == leagueID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WaiverPriority != out[j].WaiverPriority {
			return out[i].WaiverPriority < out[j].WaiverPriority
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *TeamRepository) UpdatePriorities(_ context.Context, priorities map[string]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for teamID := range priorities {
		if _, ok := r.items[teamID]; !ok {
			return fmt.Errorf("team %s does not exist", teamID)
		}
	}
	for teamID, priority := range priorities {
		t := r.items[teamID]
		t.WaiverPriority = priority
		r.items[teamID] = t
	}

	return nil
}
