package usecase

import "context"

// Notifier delivers transaction outcomes to league members. Implementations
// must be safe for concurrent use; delivery failures are logged by callers
// and never fail the transaction that triggered them.
type Notifier interface {
	NotifyLeague(ctx context.Context, leagueID, message string) error
	NotifyTeams(ctx context.Context, leagueID string, teamIDs []string, message string) error
}

type noopNotifier struct{}

func (noopNotifier) NotifyLeague(_ context.Context, _ string, _ string) error { return nil }

func (noopNotifier) NotifyTeams(_ context.Context, _ string, _ []string, _ string) error {
	return nil
}

func NewNoopNotifier() Notifier {
	return noopNotifier{}
}
