package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bluelinehq/blueline/internal/domain/draftpick"
	"github.com/bluelinehq/blueline/internal/domain/roster"
)

// Ledger is the in-memory authoritative store of roster assignments and
// draft pick ownership. A single mutex serializes mutations, which gives the
// per-player serialization the postgres ledger gets from row locks.
type Ledger struct {
	mu          sync.RWMutex
	assignments map[string]roster.Assignment
	order       []string
	picks       map[string]draftpick.Pick
}

func NewLedger(assignments []roster.Assignment, picks []draftpick.Pick) *Ledger {
	l := &Ledger{
		assignments: make(map[string]roster.Assignment, len(assignments)),
		order:       make([]string, 0, len(assignments)),
		picks:       make(map[string]draftpick.Pick, len(picks)),
	}
	for _, a := range assignments {
		l.assignments[a.ID] = a
		l.order = append(l.order, a.ID)
	}
	for _, p := range picks {
		l.picks[p.ID] = p
	}

	return l
}

func (l *Ledger) GetActiveByPlayer(_ context.Context, leagueID, playerID string) (roster.Assignment, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, id := range l.order {
		a := l.assignments[id]
		if a.LeagueID == leagueID && a.PlayerID == playerID && a.Active() {
			return cloneAssignment(a), true, nil
		}
	}

	return roster.Assignment{}, false, nil
}

func (l *Ledger) ListActiveByTeam(_ context.Context, teamID string) ([]roster.Assignment, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]roster.Assignment, 0, 16)
	for _, id := range l.order {
		a := l.assignments[id]
		if a.TeamID == teamID && a.Active() {
			out = append(out, cloneAssignment(a))
		}
	}

	return out, nil
}

func (l *Ledger) ListByTeam(_ context.Context, teamID string) ([]roster.Assignment, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]roster.Assignment, 0, 16)
	for _, id := range l.order {
		a := l.assignments[id]
		if a.TeamID == teamID {
			out = append(out, cloneAssignment(a))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	return out, nil
}

// Apply commits every close, open and pick transfer of the mutation, or none
// of them. Opens are checked against the ownership-uniqueness invariant under
// the same lock that applies the edits.
func (l *Ledger) Apply(_ context.Context, m roster.Mutation) error {
	if m.Empty() {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	closing := make(map[string]struct{}, len(m.Closes))
	for _, c := range m.Closes {
		a, ok := l.assignments[c.AssignmentID]
		if !ok {
			return fmt.Errorf("assignment %s does not exist", c.AssignmentID)
		}
		if !a.Active() {
			return fmt.Errorf("assignment %s is already closed", c.AssignmentID)
		}
		closing[c.AssignmentID] = struct{}{}
	}

	for _, open := range m.Opens {
		if err := open.Validate(); err != nil {
			return fmt.Errorf("open assignment: %w", err)
		}
		if _, exists := l.assignments[open.ID]; exists {
			return fmt.Errorf("assignment %s already exists", open.ID)
		}
		if holder, ok := l.activeHolder(open.LeagueID, open.PlayerID); ok {
			if _, beingClosed := closing[holder]; !beingClosed {
				return fmt.Errorf("player %s already has an active assignment in league %s", open.PlayerID, open.LeagueID)
			}
		}
	}

	for _, t := range m.PickTransfers {
		if _, ok := l.picks[t.PickID]; !ok {
			return fmt.Errorf("pick %s does not exist", t.PickID)
		}
		if t.ToTeamID == "" {
			return fmt.Errorf("pick %s transfer target team is required", t.PickID)
		}
	}

	for _, c := range m.Closes {
		a := l.assignments[c.AssignmentID]
		dropped := c.WeekDropped
		if dropped < a.WeekAdded {
			dropped = a.WeekAdded
		}
		a.WeekDropped = &dropped
		l.assignments[c.AssignmentID] = a
	}
	for _, open := range m.Opens {
		l.assignments[open.ID] = cloneAssignment(open)
		l.order = append(l.order, open.ID)
	}
	for _, t := range m.PickTransfers {
		p := l.picks[t.PickID]
		p.TeamID = t.ToTeamID
		l.picks[t.PickID] = p
	}

	return nil
}

// Picks exposes the pick side of the shared store as a draftpick.Repository;
// transfers still commit through Apply.
func (l *Ledger) Picks() *PickRepository {
	return &PickRepository{ledger: l}
}

type PickRepository struct {
	ledger *Ledger
}

func (r *PickRepository) GetByID(_ context.Context, pickID string) (draftpick.Pick, bool, error) {
	r.ledger.mu.RLock()
	defer r.ledger.mu.RUnlock()

	p, ok := r.ledger.picks[pickID]
	if !ok {
		return draftpick.Pick{}, false, nil
	}

	return p, true, nil
}

func (r *PickRepository) ListByTeam(_ context.Context, teamID string) ([]draftpick.Pick, error) {
	r.ledger.mu.RLock()
	defer r.ledger.mu.RUnlock()

	out := make([]draftpick.Pick, 0, 8)
	for _, p := range r.ledger.picks {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season < out[j].Season
		}
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (l *Ledger) activeHolder(leagueID, playerID string) (string, bool) {
	for id, a := range l.assignments {
		if a.LeagueID == leagueID && a.PlayerID == playerID && a.Active() {
			return id, true
		}
	}
	return "", false
}

func cloneAssignment(a roster.Assignment) roster.Assignment {
	copied := a
	if a.WeekDropped != nil {
		dropped := *a.WeekDropped
		copied.WeekDropped = &dropped
	}
	return copied
}
