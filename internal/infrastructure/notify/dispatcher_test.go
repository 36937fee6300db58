package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type captureSender struct {
	mu        sync.Mutex
	delivered chan struct{}
	fail      bool

	leagueID string
	teamIDs  []string
	message  string
}

func (s *captureSender) Send(_ context.Context, leagueID string, teamIDs []string, message string) error {
	s.mu.Lock()
	s.leagueID = leagueID
	s.teamIDs = teamIDs
	s.message = message
	s.mu.Unlock()
	s.delivered <- struct{}{}

	if s.fail {
		return errors.New("endpoint down")
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher_DeliversAsync(t *testing.T) {
	sender := &captureSender{delivered: make(chan struct{}, 1)}
	d, err := NewDispatcher(sender, 2, time.Second, discardLogger())
	require.NoError(t, err)
	defer d.Close()

	err = d.NotifyTeams(context.Background(), "lg-1", []string{"team-a"}, "trade executed")
	require.NoError(t, err)

	select {
	case <-sender.delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not delivered")
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	require.Equal(t, "lg-1", sender.leagueID)
	require.Equal(t, []string{"team-a"}, sender.teamIDs)
	require.Equal(t, "trade executed", sender.message)
}

func TestDispatcher_LeagueWideHasNoTeamFilter(t *testing.T) {
	sender := &captureSender{delivered: make(chan struct{}, 1)}
	d, err := NewDispatcher(sender, 1, time.Second, discardLogger())
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, d.NotifyLeague(context.Background(), "lg-1", "waivers processed"))

	select {
	case <-sender.delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not delivered")
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	require.Empty(t, sender.teamIDs)
}

func TestDispatcher_DeliveryFailureDoesNotPropagate(t *testing.T) {
	sender := &captureSender{delivered: make(chan struct{}, 1), fail: true}
	d, err := NewDispatcher(sender, 1, time.Second, discardLogger())
	require.NoError(t, err)
	defer d.Close()

	err = d.NotifyLeague(context.Background(), "lg-1", "waivers processed")
	require.NoError(t, err)

	select {
	case <-sender.delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not attempted")
	}
}
