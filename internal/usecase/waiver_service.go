package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/bluelinehq/blueline/internal/domain/league"
	"github.com/bluelinehq/blueline/internal/domain/player"
	"github.com/bluelinehq/blueline/internal/domain/roster"
	"github.com/bluelinehq/blueline/internal/domain/team"
	"github.com/bluelinehq/blueline/internal/domain/waiver"
	idgen "github.com/bluelinehq/blueline/internal/platform/id"
)

// SubmitClaimInput is the incoming payload for a waiver claim submission.
type SubmitClaimInput struct {
	LeagueID     string
	TeamID       string
	PlayerToAdd  string
	PlayerToDrop string
}

// ProcessResult summarizes one batch run over a league's pending items.
type ProcessResult struct {
	Processed  int
	Successful int
	Failed     int
}

type capacityChecker interface {
	CanAdd(ctx context.Context, teamID string, target player.Position, excludePlayerIDs ...string) (roster.CapacityCheck, error)
}

type WaiverService struct {
	leagueRepo league.Repository
	teamRepo   team.Repository
	playerRepo player.Repository
	claimRepo  waiver.Repository
	ledger     roster.Ledger
	capacity   capacityChecker
	notifier   Notifier
	idGen      idgen.Generator
	logger     *slog.Logger
	now        func() time.Time
}

func NewWaiverService(
	leagueRepo league.Repository,
	teamRepo team.Repository,
	playerRepo player.Repository,
	claimRepo waiver.Repository,
	ledger roster.Ledger,
	capacity capacityChecker,
	notifier Notifier,
	idGen idgen.Generator,
	logger *slog.Logger,
) *WaiverService {
	if notifier == nil {
		notifier = NewNoopNotifier()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &WaiverService{
		leagueRepo: leagueRepo,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		claimRepo:  claimRepo,
		ledger:     ledger,
		capacity:   capacity,
		notifier:   notifier,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// SubmitClaim records a Pending claim with the submitting team's waiver
// priority snapshot. Ownership and capacity are only judged at processing
// time; submission validates existence and shape.
func (s *WaiverService) SubmitClaim(ctx context.Context, input SubmitClaimInput) (waiver.Claim, error) {
	ctx, span := startUsecaseSpan(ctx, "WaiverService.SubmitClaim")
	defer span.End()

	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	input.PlayerToAdd = strings.TrimSpace(input.PlayerToAdd)
	input.PlayerToDrop = strings.TrimSpace(input.PlayerToDrop)

	if input.LeagueID == "" {
		return waiver.Claim{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if input.TeamID == "" {
		return waiver.Claim{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if input.PlayerToAdd == "" {
		return waiver.Claim{}, fmt.Errorf("%w: player to add is required", ErrInvalidInput)
	}

	leagueItem, exists, err := s.leagueRepo.GetByID(ctx, input.LeagueID)
	if err != nil {
		return waiver.Claim{}, fmt.Errorf("get league %s: %w", input.LeagueID, err)
	}
	if !exists {
		return waiver.Claim{}, fmt.Errorf("%w: league %s not found", ErrNotFound, input.LeagueID)
	}
	if !leagueItem.WaiversEnabled {
		return waiver.Claim{}, fmt.Errorf("%w: waivers are disabled for league %s", ErrInvalidInput, input.LeagueID)
	}

	teamItem, exists, err := s.teamRepo.GetByID(ctx, input.TeamID)
	if err != nil {
		return waiver.Claim{}, fmt.Errorf("get team %s: %w", input.TeamID, err)
	}
	if !exists {
		return waiver.Claim{}, fmt.Errorf("%w: team %s not found", ErrNotFound, input.TeamID)
	}
	if teamItem.LeagueID != input.LeagueID {
		return waiver.Claim{}, fmt.Errorf("%w: team %s does not belong to league %s", ErrUnauthorized, input.TeamID, input.LeagueID)
	}

	if _, exists, err = s.playerRepo.GetByID(ctx, input.PlayerToAdd); err != nil {
		return waiver.Claim{}, fmt.Errorf("get player %s: %w", input.PlayerToAdd, err)
	} else if !exists {
		return waiver.Claim{}, fmt.Errorf("%w: player %s not found", ErrNotFound, input.PlayerToAdd)
	}

	var playerToDrop *string
	if input.PlayerToDrop != "" {
		if _, exists, err = s.playerRepo.GetByID(ctx, input.PlayerToDrop); err != nil {
			return waiver.Claim{}, fmt.Errorf("get player %s: %w", input.PlayerToDrop, err)
		} else if !exists {
			return waiver.Claim{}, fmt.Errorf("%w: player %s not found", ErrNotFound, input.PlayerToDrop)
		}
		playerToDrop = &input.PlayerToDrop
	}

	claimID, err := s.idGen.NewID()
	if err != nil {
		return waiver.Claim{}, fmt.Errorf("generate claim id: %w", err)
	}

	claim := waiver.Claim{
		ID:               claimID,
		LeagueID:         input.LeagueID,
		TeamID:           input.TeamID,
		PlayerToAdd:      input.PlayerToAdd,
		PlayerToDrop:     playerToDrop,
		WeekNumber:       leagueItem.CurrentWeek,
		PrioritySnapshot: teamItem.WaiverPriority,
		Status:           waiver.StatusPending,
		CreatedAt:        s.now().UTC(),
	}
	if err := claim.Validate(); err != nil {
		return waiver.Claim{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if err := s.claimRepo.Create(ctx, claim); err != nil {
		return waiver.Claim{}, fmt.Errorf("create claim: %w", err)
	}

	s.logger.InfoContext(ctx, "waiver claim submitted",
		slog.String("claim_id", claim.ID),
		slog.String("league_id", claim.LeagueID),
		slog.String("team_id", claim.TeamID),
		slog.String("player_to_add", claim.PlayerToAdd),
		slog.Int("priority_snapshot", claim.PrioritySnapshot),
	)

	return claim, nil
}

// GetClaim returns a claim by id.
func (s *WaiverService) GetClaim(ctx context.Context, claimID string) (waiver.Claim, error) {
	claimID = strings.TrimSpace(claimID)
	if claimID == "" {
		return waiver.Claim{}, fmt.Errorf("%w: claim id is required", ErrInvalidInput)
	}

	claim, exists, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return waiver.Claim{}, fmt.Errorf("get claim %s: %w", claimID, err)
	}
	if !exists {
		return waiver.Claim{}, fmt.Errorf("%w: claim %s not found", ErrNotFound, claimID)
	}

	return claim, nil
}

// CancelClaim withdraws a Pending claim. Only the owning team may cancel, and
// only while the claim has not been processed.
func (s *WaiverService) CancelClaim(ctx context.Context, claimID, teamID string) (waiver.Claim, error) {
	ctx, span := startUsecaseSpan(ctx, "WaiverService.CancelClaim")
	defer span.End()

	claim, err := s.GetClaim(ctx, claimID)
	if err != nil {
		return waiver.Claim{}, err
	}
	if claim.TeamID != strings.TrimSpace(teamID) {
		return waiver.Claim{}, fmt.Errorf("%w: claim %s does not belong to team %s", ErrUnauthorized, claimID, teamID)
	}
	if claim.Terminal() {
		return waiver.Claim{}, fmt.Errorf("%w: claim %s is already %s", ErrInvalidInput, claimID, claim.Status)
	}

	processedAt := s.now().UTC()
	claim.Status = waiver.StatusCancelled
	claim.ProcessedAt = &processedAt
	if err := s.claimRepo.Update(ctx, claim); err != nil {
		return waiver.Claim{}, fmt.Errorf("update claim %s: %w", claimID, err)
	}

	return claim, nil
}

// ProcessPending consumes every Pending claim for the league in waiver order:
// lower current team priority first, earlier submission breaking ties. The
// order is fixed when the batch starts. Each claim is one atomic unit; a
// failed claim is recorded with its reason and never blocks the next one.
// Drops close at currentWeek, adds open at unlockedWeek.
func (s *WaiverService) ProcessPending(ctx context.Context, leagueID string, currentWeek, unlockedWeek int) (ProcessResult, error) {
	ctx, span := startUsecaseSpan(ctx, "WaiverService.ProcessPending")
	defer span.End()

	leagueItem, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("get league %s: %w", leagueID, err)
	}
	if !exists {
		return ProcessResult{}, fmt.Errorf("%w: league %s not found", ErrNotFound, leagueID)
	}
	if !leagueItem.WaiversEnabled {
		return ProcessResult{}, nil
	}

	claims, err := s.claimRepo.ListPendingByLeague(ctx, leagueID)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("list pending claims: %w", err)
	}
	if len(claims) == 0 {
		return ProcessResult{}, nil
	}

	teams, err := s.teamRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("list teams for league %s: %w", leagueID, err)
	}
	priorities := make(map[string]int, len(teams))
	for _, t := range teams {
		priorities[t.ID] = t.WaiverPriority
	}

	sort.SliceStable(claims, func(i, j int) bool {
		pi, pj := priorities[claims[i].TeamID], priorities[claims[j].TeamID]
		if pi != pj {
			return pi < pj
		}
		return claims[i].CreatedAt.Before(claims[j].CreatedAt)
	})

	rules := roster.RulesFromLeague(leagueItem)
	result := ProcessResult{}

	for _, claim := range claims {
		outcome, err := s.processClaim(ctx, claim, rules, currentWeek, unlockedWeek)
		if err != nil {
			return result, err
		}

		result.Processed++
		processedAt := s.now().UTC()
		claim.ProcessedAt = &processedAt

		if outcome == "" {
			claim.Status = waiver.StatusSuccessful
			result.Successful++

			if err := s.rotatePriority(ctx, claim.TeamID, priorities); err != nil {
				return result, err
			}
			s.notifyClaim(ctx, claim)
		} else {
			claim.Status = waiver.StatusFailed
			claim.FailureReason = string(outcome)
			result.Failed++
		}

		if err := s.claimRepo.Update(ctx, claim); err != nil {
			return result, fmt.Errorf("update claim %s: %w", claim.ID, err)
		}

		s.logger.InfoContext(ctx, "waiver claim processed",
			slog.String("claim_id", claim.ID),
			slog.String("team_id", claim.TeamID),
			slog.String("status", string(claim.Status)),
			slog.String("failure_reason", claim.FailureReason),
		)
	}

	return result, nil
}

// processClaim attempts one claim against the ledger. A zero reason means the
// claim succeeded and its mutation has been applied; a non-zero reason is the
// expected business failure. Errors are infrastructure faults only.
func (s *WaiverService) processClaim(ctx context.Context, claim waiver.Claim, rules roster.Rules, currentWeek, unlockedWeek int) (roster.FailReason, error) {
	_, owned, err := s.ledger.GetActiveByPlayer(ctx, claim.LeagueID, claim.PlayerToAdd)
	if err != nil {
		return "", fmt.Errorf("check ownership of %s: %w", claim.PlayerToAdd, err)
	}
	if owned {
		return roster.FailAlreadyOwned, nil
	}

	mutation := roster.Mutation{}
	excludePlayer := ""

	if claim.PlayerToDrop != nil {
		dropAssignment, active, err := s.ledger.GetActiveByPlayer(ctx, claim.LeagueID, *claim.PlayerToDrop)
		if err != nil {
			return "", fmt.Errorf("check ownership of %s: %w", *claim.PlayerToDrop, err)
		}
		if !active || dropAssignment.TeamID != claim.TeamID {
			return roster.FailStaleState, nil
		}
		mutation.Closes = append(mutation.Closes, roster.CloseOp{
			AssignmentID: dropAssignment.ID,
			WeekDropped:  currentWeek,
		})
		excludePlayer = *claim.PlayerToDrop
	} else {
		active, err := s.ledger.ListActiveByTeam(ctx, claim.TeamID)
		if err != nil {
			return "", fmt.Errorf("list active assignments for team %s: %w", claim.TeamID, err)
		}
		if roster.AtRosterLimit(len(active), rules) {
			return roster.FailRosterFull, nil
		}
	}

	addPlayer, exists, err := s.playerRepo.GetByID(ctx, claim.PlayerToAdd)
	if err != nil {
		return "", fmt.Errorf("get player %s: %w", claim.PlayerToAdd, err)
	}
	if !exists {
		return roster.FailStaleState, nil
	}

	check, err := s.capacity.CanAdd(ctx, claim.TeamID, addPlayer.OccupiedPosition(), excludePlayer)
	if err != nil {
		return "", err
	}
	if !check.Allowed {
		return roster.FailCapacityExceeded, nil
	}

	assignmentID, err := s.idGen.NewID()
	if err != nil {
		return "", fmt.Errorf("generate assignment id: %w", err)
	}
	mutation.Opens = append(mutation.Opens, roster.Assignment{
		ID:        assignmentID,
		LeagueID:  claim.LeagueID,
		TeamID:    claim.TeamID,
		PlayerID:  claim.PlayerToAdd,
		WeekAdded: unlockedWeek,
		CreatedAt: s.now().UTC(),
	})

	if err := s.ledger.Apply(ctx, mutation); err != nil {
		return "", fmt.Errorf("apply claim mutation: %w", err)
	}

	return "", nil
}

// rotatePriority moves the claimant to the back of the waiver order: every
// team whose number is greater shifts down by one and the claimant takes the
// highest number. Teams that claimed earlier keep their place ahead of it.
func (s *WaiverService) rotatePriority(ctx context.Context, claimantID string, priorities map[string]int) error {
	claimed, ok := priorities[claimantID]
	if !ok {
		return fmt.Errorf("%w: team %s has no waiver priority", ErrNotFound, claimantID)
	}

	for teamID, p := range priorities {
		if p > claimed {
			priorities[teamID] = p - 1
		}
	}
	priorities[claimantID] = len(priorities)

	if err := s.teamRepo.UpdatePriorities(ctx, priorities); err != nil {
		return fmt.Errorf("update waiver priorities: %w", err)
	}

	return nil
}

func (s *WaiverService) notifyClaim(ctx context.Context, claim waiver.Claim) {
	message := fmt.Sprintf("Waiver claim successful: team %s added player %s", claim.TeamID, claim.PlayerToAdd)
	if claim.PlayerToDrop != nil {
		message = fmt.Sprintf("%s and dropped player %s", message, *claim.PlayerToDrop)
	}
	if err := s.notifier.NotifyLeague(ctx, claim.LeagueID, message); err != nil {
		s.logger.WarnContext(ctx, "league notification failed",
			slog.String("league_id", claim.LeagueID),
			slog.String("claim_id", claim.ID),
			slog.String("error", err.Error()),
		)
	}
}
