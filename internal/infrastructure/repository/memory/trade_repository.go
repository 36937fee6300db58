package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bluelinehq/blueline/internal/domain/trade"
)

type TradeRepository struct {
	mu    sync.RWMutex
	items map[string]trade.Trade
}

func NewTradeRepository() *TradeRepository {
	return &TradeRepository{items: make(map[string]trade.Trade)}
}

func (r *TradeRepository) Create(_ context.Context, t trade.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[t.ID]; exists {
		return fmt.Errorf("trade %s already exists", t.ID)
	}
	r.items[t.ID] = cloneTrade(t)

	return nil
}

func (r *TradeRepository) GetByID(_ context.Context, tradeID string) (trade.Trade, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[tradeID]
	if !ok {
		return trade.Trade{}, false, nil
	}

	return cloneTrade(t), true, nil
}

func (r *TradeRepository) ListAcceptedUnexecuted(_ context.Context, leagueID string) ([]trade.Trade, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]trade.Trade, 0, 8)
	for _, t := range r.items {
		if t.LeagueID == leagueID && t.Status == trade.StatusAccepted && !t.Executed() {
			out = append(out, cloneTrade(t))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	return out, nil
}

func (r *TradeRepository) Update(_ context.Context, t trade.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[t.ID]; !exists {
		return fmt.Errorf("trade %s does not exist", t.ID)
	}
	r.items[t.ID] = cloneTrade(t)

	return nil
}

func cloneTrade(t trade.Trade) trade.Trade {
	copied := t
	copied.Items = append([]trade.Item(nil), t.Items...)
	if t.ExecutedAt != nil {
		executed := *t.ExecutedAt
		copied.ExecutedAt = &executed
	}
	return copied
}
