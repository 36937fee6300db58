// Package notify fans league event notifications out to a delivery backend
// without blocking the transaction that raised them.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/panjf2000/ants/v2"
)

// Sender delivers one event to the configured backend.
type Sender interface {
	Send(ctx context.Context, leagueID string, teamIDs []string, message string) error
}

type Dispatcher struct {
	pool    *ants.Pool
	sender  Sender
	logger  *slog.Logger
	timeout time.Duration
}

func NewDispatcher(sender Sender, workers int, timeout time.Duration, logger *slog.Logger) (*Dispatcher, error) {
	if workers <= 0 {
		workers = 4
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create notification worker pool: %w", err)
	}

	return &Dispatcher{
		pool:    pool,
		sender:  sender,
		logger:  logger,
		timeout: timeout,
	}, nil
}

func (d *Dispatcher) NotifyLeague(ctx context.Context, leagueID, message string) error {
	return d.dispatch(ctx, leagueID, nil, message)
}

func (d *Dispatcher) NotifyTeams(ctx context.Context, leagueID string, teamIDs []string, message string) error {
	return d.dispatch(ctx, leagueID, teamIDs, message)
}

// dispatch hands the delivery to the pool. Delivery failures are logged, not
// returned: a lost notification must never fail the roster transaction that
// produced it.
func (d *Dispatcher) dispatch(ctx context.Context, leagueID string, teamIDs []string, message string) error {
	detached := context.WithoutCancel(ctx)

	err := d.pool.Submit(func() {
		sendCtx, cancel := context.WithTimeout(detached, d.timeout)
		defer cancel()

		if err := d.sender.Send(sendCtx, leagueID, teamIDs, message); err != nil {
			d.logger.WarnContext(sendCtx, "notification delivery failed", "league_id", leagueID, "team_count", len(teamIDs), "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}

	return nil
}

// Close releases the worker pool. Pending deliveries are abandoned.
func (d *Dispatcher) Close() {
	d.pool.Release()
}
