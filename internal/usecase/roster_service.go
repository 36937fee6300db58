package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bluelinehq/blueline/internal/domain/league"
	"github.com/bluelinehq/blueline/internal/domain/player"
	"github.com/bluelinehq/blueline/internal/domain/roster"
	"github.com/bluelinehq/blueline/internal/domain/team"
	"github.com/bluelinehq/blueline/internal/domain/week"
	idgen "github.com/bluelinehq/blueline/internal/platform/id"
)

// AddDropInput is the incoming payload for the direct roster-change path.
type AddDropInput struct {
	LeagueID     string
	TeamID       string
	PlayerToAdd  string
	PlayerToDrop string
}

// RosterEntry pairs an active assignment with its player.
type RosterEntry struct {
	Assignment roster.Assignment
	Player     player.Player
}

// TeamRoster is the read model for a team's roster: the active entries plus
// the closed assignment rows that form the team's audit trail.
type TeamRoster struct {
	Team    team.Team
	Active  []RosterEntry
	History []roster.Assignment
}

type RosterService struct {
	leagueRepo league.Repository
	teamRepo   team.Repository
	playerRepo player.Repository
	weekRepo   week.Repository
	ledger     roster.Ledger
	idGen      idgen.Generator
	logger     *slog.Logger
	now        func() time.Time
}

func NewRosterService(
	leagueRepo league.Repository,
	teamRepo team.Repository,
	playerRepo player.Repository,
	weekRepo week.Repository,
	ledger roster.Ledger,
	idGen idgen.Generator,
	logger *slog.Logger,
) *RosterService {
	if logger == nil {
		logger = slog.Default()
	}

	return &RosterService{
		leagueRepo: leagueRepo,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		weekRepo:   weekRepo,
		ledger:     ledger,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// CanAdd reports whether one more player may occupy target on the team,
// consulting the league's per-position slot configuration. Players named in
// excludePlayerIDs are left out of the occupied count; callers use this when
// the capacity probe runs before the outgoing side of a swap has been
// committed.
func (s *RosterService) CanAdd(ctx context.Context, teamID string, target player.Position, excludePlayerIDs ...string) (roster.CapacityCheck, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.CanAdd")
	defer span.End()

	teamItem, err := s.getTeam(ctx, teamID)
	if err != nil {
		return roster.CapacityCheck{}, err
	}
	leagueItem, err := s.getLeague(ctx, teamItem.LeagueID)
	if err != nil {
		return roster.CapacityCheck{}, err
	}

	occupied, err := s.occupiedPositions(ctx, teamID, excludePlayerIDs)
	if err != nil {
		return roster.CapacityCheck{}, err
	}

	return roster.CheckCapacity(occupied, target, roster.RulesFromLeague(leagueItem)), nil
}

// WeekLockStatus is the read model of one week's lock state.
type WeekLockStatus struct {
	Season int
	Week   int
	State  week.LockState
	Locked bool
}

// WeekLock evaluates the lock predicate for one week of the league's season,
// including the cross-week in-progress rule.
func (s *RosterService) WeekLock(ctx context.Context, leagueID string, weekNumber int) (WeekLockStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.WeekLock")
	defer span.End()

	leagueItem, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return WeekLockStatus{}, err
	}

	weeks, err := s.weekRepo.ListBySeason(ctx, leagueItem.Season)
	if err != nil {
		return WeekLockStatus{}, fmt.Errorf("list weeks for season %d: %w", leagueItem.Season, err)
	}
	target, found := findWeek(weeks, weekNumber)
	if !found {
		return WeekLockStatus{}, fmt.Errorf("%w: week %d not found in season %d", ErrNotFound, weekNumber, leagueItem.Season)
	}

	now := s.now().UTC()
	return WeekLockStatus{
		Season: leagueItem.Season,
		Week:   target.Number,
		State:  week.StateOf(target, now),
		Locked: week.IsLocked(weeks, target, now),
	}, nil
}

// CanMakeRosterChanges is the read-only lock predicate for a team: it reports
// whether roster mutations are currently permitted and, when they are not, a
// human-readable reason. A zero weekNumber targets the league's current week.
func (s *RosterService) CanMakeRosterChanges(ctx context.Context, teamID string, weekNumber int) (bool, string, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.CanMakeRosterChanges")
	defer span.End()

	teamItem, err := s.getTeam(ctx, teamID)
	if err != nil {
		return false, "", err
	}
	leagueItem, err := s.getLeague(ctx, teamItem.LeagueID)
	if err != nil {
		return false, "", err
	}

	if weekNumber == 0 {
		weekNumber = leagueItem.CurrentWeek
	}

	weeks, err := s.weekRepo.ListBySeason(ctx, leagueItem.Season)
	if err != nil {
		return false, "", fmt.Errorf("list weeks for season %d: %w", leagueItem.Season, err)
	}

	target, found := findWeek(weeks, weekNumber)
	if !found {
		return false, "", fmt.Errorf("%w: week %d not found in season %d", ErrNotFound, weekNumber, leagueItem.Season)
	}

	now := s.now().UTC()
	if !week.IsLocked(weeks, target, now) {
		return true, "", nil
	}

	if week.AnyInProgress(weeks, now) {
		return false, "games are in progress across the league", nil
	}

	switch week.StateOf(target, now) {
	case week.LockStateLockedFuture:
		return false, fmt.Sprintf("week %d has not unlocked yet", weekNumber), nil
	default:
		return false, fmt.Sprintf("week %d is permanently locked", weekNumber), nil
	}
}

// AddDropPlayer is the direct, synchronous roster-change path. It is gated by
// the lock window and applies the add (and optional drop) as one atomic
// ledger mutation. Business failures surface as the roster sentinel errors.
func (s *RosterService) AddDropPlayer(ctx context.Context, input AddDropInput) (roster.Assignment, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.AddDropPlayer")
	defer span.End()

	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	input.PlayerToAdd = strings.TrimSpace(input.PlayerToAdd)
	input.PlayerToDrop = strings.TrimSpace(input.PlayerToDrop)

	if input.LeagueID == "" {
		return roster.Assignment{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if input.TeamID == "" {
		return roster.Assignment{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if input.PlayerToAdd == "" {
		return roster.Assignment{}, fmt.Errorf("%w: player to add is required", ErrInvalidInput)
	}
	if input.PlayerToDrop == input.PlayerToAdd {
		return roster.Assignment{}, fmt.Errorf("%w: cannot add and drop the same player", ErrInvalidInput)
	}

	teamItem, err := s.getTeam(ctx, input.TeamID)
	if err != nil {
		return roster.Assignment{}, err
	}
	if teamItem.LeagueID != input.LeagueID {
		return roster.Assignment{}, fmt.Errorf("%w: team %s does not belong to league %s", ErrUnauthorized, input.TeamID, input.LeagueID)
	}
	leagueItem, err := s.getLeague(ctx, input.LeagueID)
	if err != nil {
		return roster.Assignment{}, err
	}

	addPlayer, exists, err := s.playerRepo.GetByID(ctx, input.PlayerToAdd)
	if err != nil {
		return roster.Assignment{}, fmt.Errorf("get player %s: %w", input.PlayerToAdd, err)
	}
	if !exists {
		return roster.Assignment{}, fmt.Errorf("%w: player %s not found", ErrNotFound, input.PlayerToAdd)
	}

	weeks, err := s.weekRepo.ListBySeason(ctx, leagueItem.Season)
	if err != nil {
		return roster.Assignment{}, fmt.Errorf("list weeks for season %d: %w", leagueItem.Season, err)
	}

	now := s.now().UTC()
	open := week.Unlocked(weeks, now)
	if len(open) == 0 {
		return roster.Assignment{}, fmt.Errorf("%w: no week is currently unlocked", roster.ErrLocked)
	}
	unlockedWeek := open[len(open)-1].Number

	_, owned, err := s.ledger.GetActiveByPlayer(ctx, input.LeagueID, input.PlayerToAdd)
	if err != nil {
		return roster.Assignment{}, fmt.Errorf("check ownership of %s: %w", input.PlayerToAdd, err)
	}
	if owned {
		return roster.Assignment{}, fmt.Errorf("%w: player %s", roster.ErrAlreadyOwned, input.PlayerToAdd)
	}

	mutation := roster.Mutation{}

	if input.PlayerToDrop != "" {
		dropAssignment, active, err := s.ledger.GetActiveByPlayer(ctx, input.LeagueID, input.PlayerToDrop)
		if err != nil {
			return roster.Assignment{}, fmt.Errorf("check ownership of %s: %w", input.PlayerToDrop, err)
		}
		if !active || dropAssignment.TeamID != input.TeamID {
			return roster.Assignment{}, fmt.Errorf("%w: player %s is not active on team %s", roster.ErrStaleState, input.PlayerToDrop, input.TeamID)
		}
		mutation.Closes = append(mutation.Closes, roster.CloseOp{
			AssignmentID: dropAssignment.ID,
			WeekDropped:  leagueItem.CurrentWeek,
		})
	} else {
		active, err := s.ledger.ListActiveByTeam(ctx, input.TeamID)
		if err != nil {
			return roster.Assignment{}, fmt.Errorf("list active assignments for team %s: %w", input.TeamID, err)
		}
		if roster.AtRosterLimit(len(active), roster.RulesFromLeague(leagueItem)) {
			return roster.Assignment{}, fmt.Errorf("%w: team %s", roster.ErrRosterFull, input.TeamID)
		}
	}

	check, err := s.CanAdd(ctx, input.TeamID, addPlayer.OccupiedPosition(), input.PlayerToDrop)
	if err != nil {
		return roster.Assignment{}, err
	}
	if !check.Allowed {
		return roster.Assignment{}, fmt.Errorf("%w: position %s has %d of %d slots filled", roster.ErrCapacityExceeded, addPlayer.OccupiedPosition(), check.Current, check.Max)
	}

	assignmentID, err := s.idGen.NewID()
	if err != nil {
		return roster.Assignment{}, fmt.Errorf("generate assignment id: %w", err)
	}
	opened := roster.Assignment{
		ID:        assignmentID,
		LeagueID:  input.LeagueID,
		TeamID:    input.TeamID,
		PlayerID:  input.PlayerToAdd,
		WeekAdded: unlockedWeek,
		CreatedAt: now,
	}
	mutation.Opens = append(mutation.Opens, opened)

	if err := s.ledger.Apply(ctx, mutation); err != nil {
		return roster.Assignment{}, fmt.Errorf("apply roster mutation: %w", err)
	}

	s.logger.InfoContext(ctx, "roster change applied",
		slog.String("league_id", input.LeagueID),
		slog.String("team_id", input.TeamID),
		slog.String("player_added", input.PlayerToAdd),
		slog.String("player_dropped", input.PlayerToDrop),
		slog.Int("week_added", unlockedWeek),
	)

	return opened, nil
}

// GetTeamRoster returns the team's active roster with player details plus the
// full assignment history; closed rows are retained as the audit trail.
func (s *RosterService) GetTeamRoster(ctx context.Context, leagueID, teamID string) (TeamRoster, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.GetTeamRoster")
	defer span.End()

	teamItem, err := s.getTeam(ctx, teamID)
	if err != nil {
		return TeamRoster{}, err
	}
	if leagueID != "" && teamItem.LeagueID != leagueID {
		return TeamRoster{}, fmt.Errorf("%w: team %s not found in league %s", ErrNotFound, teamID, leagueID)
	}

	active, err := s.ledger.ListActiveByTeam(ctx, teamID)
	if err != nil {
		return TeamRoster{}, fmt.Errorf("list active assignments for team %s: %w", teamID, err)
	}
	history, err := s.ledger.ListByTeam(ctx, teamID)
	if err != nil {
		return TeamRoster{}, fmt.Errorf("list assignment history for team %s: %w", teamID, err)
	}

	playerIDs := make([]string, 0, len(active))
	for _, a := range active {
		playerIDs = append(playerIDs, a.PlayerID)
	}
	players, err := s.playerRepo.GetByIDs(ctx, playerIDs)
	if err != nil {
		return TeamRoster{}, fmt.Errorf("get players by ids: %w", err)
	}
	playerByID := make(map[string]player.Player, len(players))
	for _, p := range players {
		playerByID[p.ID] = p
	}

	entries := make([]RosterEntry, 0, len(active))
	for _, a := range active {
		entries = append(entries, RosterEntry{
			Assignment: a,
			Player:     playerByID[a.PlayerID],
		})
	}

	return TeamRoster{
		Team:    teamItem,
		Active:  entries,
		History: history,
	}, nil
}

func (s *RosterService) occupiedPositions(ctx context.Context, teamID string, excludePlayerIDs []string) ([]player.Position, error) {
	active, err := s.ledger.ListActiveByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list active assignments for team %s: %w", teamID, err)
	}

	excluded := make(map[string]struct{}, len(excludePlayerIDs))
	for _, id := range excludePlayerIDs {
		if id != "" {
			excluded[id] = struct{}{}
		}
	}

	playerIDs := make([]string, 0, len(active))
	for _, a := range active {
		if _, skip := excluded[a.PlayerID]; skip {
			continue
		}
		playerIDs = append(playerIDs, a.PlayerID)
	}

	players, err := s.playerRepo.GetByIDs(ctx, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("get players by ids: %w", err)
	}

	occupied := make([]player.Position, 0, len(players))
	for _, p := range players {
		occupied = append(occupied, p.OccupiedPosition())
	}

	return occupied, nil
}

func (s *RosterService) getTeam(ctx context.Context, teamID string) (team.Team, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	teamItem, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team %s: %w", teamID, err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team %s not found", ErrNotFound, teamID)
	}

	return teamItem, nil
}

func (s *RosterService) getLeague(ctx context.Context, leagueID string) (league.League, error) {
	leagueItem, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league %s: %w", leagueID, err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league %s not found", ErrNotFound, leagueID)
	}

	return leagueItem, nil
}

func findWeek(weeks []week.Week, number int) (week.Week, bool) {
	for _, w := range weeks {
		if w.Number == number {
			return w, true
		}
	}
	return week.Week{}, false
}
