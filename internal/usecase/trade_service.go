package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bluelinehq/blueline/internal/domain/draftpick"
	"github.com/bluelinehq/blueline/internal/domain/league"
	"github.com/bluelinehq/blueline/internal/domain/player"
	"github.com/bluelinehq/blueline/internal/domain/roster"
	"github.com/bluelinehq/blueline/internal/domain/team"
	"github.com/bluelinehq/blueline/internal/domain/trade"
	"github.com/bluelinehq/blueline/internal/domain/week"
	idgen "github.com/bluelinehq/blueline/internal/platform/id"
)

// TradeItemInput is one leg of a trade proposal.
type TradeItemInput struct {
	Kind         trade.ItemKind
	RefID        string
	SourceTeamID string
}

// ProposeTradeInput is the incoming payload for a trade proposal.
type ProposeTradeInput struct {
	LeagueID        string
	ProposingTeamID string
	ReceivingTeamID string
	Items           []TradeItemInput
}

type TradeService struct {
	leagueRepo league.Repository
	teamRepo   team.Repository
	playerRepo player.Repository
	pickRepo   draftpick.Repository
	weekRepo   week.Repository
	tradeRepo  trade.Repository
	ledger     roster.Ledger
	capacity   capacityChecker
	notifier   Notifier
	idGen      idgen.Generator
	logger     *slog.Logger
	now        func() time.Time
}

func NewTradeService(
	leagueRepo league.Repository,
	teamRepo team.Repository,
	playerRepo player.Repository,
	pickRepo draftpick.Repository,
	weekRepo week.Repository,
	tradeRepo trade.Repository,
	ledger roster.Ledger,
	capacity capacityChecker,
	notifier Notifier,
	idGen idgen.Generator,
	logger *slog.Logger,
) *TradeService {
	if notifier == nil {
		notifier = NewNoopNotifier()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TradeService{
		leagueRepo: leagueRepo,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		pickRepo:   pickRepo,
		weekRepo:   weekRepo,
		tradeRepo:  tradeRepo,
		ledger:     ledger,
		capacity:   capacity,
		notifier:   notifier,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// ProposeTrade records a Pending trade between two teams of the same league.
func (s *TradeService) ProposeTrade(ctx context.Context, input ProposeTradeInput) (trade.Trade, error) {
	ctx, span := startUsecaseSpan(ctx, "TradeService.ProposeTrade")
	defer span.End()

	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.ProposingTeamID = strings.TrimSpace(input.ProposingTeamID)
	input.ReceivingTeamID = strings.TrimSpace(input.ReceivingTeamID)

	if input.LeagueID == "" {
		return trade.Trade{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if _, exists, err := s.leagueRepo.GetByID(ctx, input.LeagueID); err != nil {
		return trade.Trade{}, fmt.Errorf("get league %s: %w", input.LeagueID, err)
	} else if !exists {
		return trade.Trade{}, fmt.Errorf("%w: league %s not found", ErrNotFound, input.LeagueID)
	}

	for _, teamID := range []string{input.ProposingTeamID, input.ReceivingTeamID} {
		teamItem, exists, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			return trade.Trade{}, fmt.Errorf("get team %s: %w", teamID, err)
		}
		if !exists {
			return trade.Trade{}, fmt.Errorf("%w: team %s not found", ErrNotFound, teamID)
		}
		if teamItem.LeagueID != input.LeagueID {
			return trade.Trade{}, fmt.Errorf("%w: team %s does not belong to league %s", ErrInvalidInput, teamID, input.LeagueID)
		}
	}

	tradeID, err := s.idGen.NewID()
	if err != nil {
		return trade.Trade{}, fmt.Errorf("generate trade id: %w", err)
	}

	items := make([]trade.Item, 0, len(input.Items))
	for _, item := range input.Items {
		itemID, err := s.idGen.NewID()
		if err != nil {
			return trade.Trade{}, fmt.Errorf("generate trade item id: %w", err)
		}
		items = append(items, trade.Item{
			ID:           itemID,
			Kind:         item.Kind,
			RefID:        strings.TrimSpace(item.RefID),
			SourceTeamID: strings.TrimSpace(item.SourceTeamID),
		})
	}

	proposed := trade.Trade{
		ID:              tradeID,
		LeagueID:        input.LeagueID,
		ProposingTeamID: input.ProposingTeamID,
		ReceivingTeamID: input.ReceivingTeamID,
		Status:          trade.StatusPending,
		Items:           items,
		CreatedAt:       s.now().UTC(),
	}
	if err := proposed.Validate(); err != nil {
		return trade.Trade{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if err := sourceTeamsCovered(proposed); err != nil {
		return trade.Trade{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	if err := s.tradeRepo.Create(ctx, proposed); err != nil {
		return trade.Trade{}, fmt.Errorf("create trade: %w", err)
	}

	s.logger.InfoContext(ctx, "trade proposed",
		slog.String("trade_id", proposed.ID),
		slog.String("league_id", proposed.LeagueID),
		slog.String("proposing_team_id", proposed.ProposingTeamID),
		slog.String("receiving_team_id", proposed.ReceivingTeamID),
		slog.Int("item_count", len(proposed.Items)),
	)

	return proposed, nil
}

// GetTrade returns a trade by id.
func (s *TradeService) GetTrade(ctx context.Context, tradeID string) (trade.Trade, error) {
	tradeID = strings.TrimSpace(tradeID)
	if tradeID == "" {
		return trade.Trade{}, fmt.Errorf("%w: trade id is required", ErrInvalidInput)
	}

	item, exists, err := s.tradeRepo.GetByID(ctx, tradeID)
	if err != nil {
		return trade.Trade{}, fmt.Errorf("get trade %s: %w", tradeID, err)
	}
	if !exists {
		return trade.Trade{}, fmt.Errorf("%w: trade %s not found", ErrNotFound, tradeID)
	}

	return item, nil
}

// AcceptTrade marks a Pending trade Accepted on behalf of the receiving team.
// Accepted is a promise to execute at the next unlock; when the league is
// already inside an unlock window the trade executes immediately.
func (s *TradeService) AcceptTrade(ctx context.Context, tradeID, teamID string) (trade.Trade, error) {
	ctx, span := startUsecaseSpan(ctx, "TradeService.AcceptTrade")
	defer span.End()

	item, err := s.GetTrade(ctx, tradeID)
	if err != nil {
		return trade.Trade{}, err
	}
	if item.ReceivingTeamID != strings.TrimSpace(teamID) {
		return trade.Trade{}, fmt.Errorf("%w: only the receiving team may accept trade %s", ErrUnauthorized, tradeID)
	}
	if item.Status != trade.StatusPending {
		return trade.Trade{}, fmt.Errorf("%w: trade %s is already %s", ErrInvalidInput, tradeID, item.Status)
	}

	item.Status = trade.StatusAccepted
	if err := s.tradeRepo.Update(ctx, item); err != nil {
		return trade.Trade{}, fmt.Errorf("update trade %s: %w", tradeID, err)
	}

	leagueItem, exists, err := s.leagueRepo.GetByID(ctx, item.LeagueID)
	if err != nil {
		return trade.Trade{}, fmt.Errorf("get league %s: %w", item.LeagueID, err)
	}
	if !exists {
		return trade.Trade{}, fmt.Errorf("%w: league %s not found", ErrNotFound, item.LeagueID)
	}

	weeks, err := s.weekRepo.ListBySeason(ctx, leagueItem.Season)
	if err != nil {
		return trade.Trade{}, fmt.Errorf("list weeks for season %d: %w", leagueItem.Season, err)
	}
	open := week.Unlocked(weeks, s.now().UTC())
	if len(open) == 0 {
		return item, nil
	}

	executed, err := s.executeOne(ctx, item, leagueItem.CurrentWeek, open[len(open)-1].Number)
	if err != nil {
		return trade.Trade{}, err
	}

	return executed, nil
}

// RejectTrade marks a Pending trade Rejected on behalf of the receiving team.
func (s *TradeService) RejectTrade(ctx context.Context, tradeID, teamID string) (trade.Trade, error) {
	ctx, span := startUsecaseSpan(ctx, "TradeService.RejectTrade")
	defer span.End()

	item, err := s.GetTrade(ctx, tradeID)
	if err != nil {
		return trade.Trade{}, err
	}
	if item.ReceivingTeamID != strings.TrimSpace(teamID) {
		return trade.Trade{}, fmt.Errorf("%w: only the receiving team may reject trade %s", ErrUnauthorized, tradeID)
	}
	if item.Status != trade.StatusPending {
		return trade.Trade{}, fmt.Errorf("%w: trade %s is already %s", ErrInvalidInput, tradeID, item.Status)
	}

	item.Status = trade.StatusRejected
	if err := s.tradeRepo.Update(ctx, item); err != nil {
		return trade.Trade{}, fmt.Errorf("update trade %s: %w", tradeID, err)
	}

	return item, nil
}

// CancelTrade withdraws a trade on behalf of the proposing team. Allowed
// while Pending or Accepted-but-not-executed; never once executed.
func (s *TradeService) CancelTrade(ctx context.Context, tradeID, teamID string) (trade.Trade, error) {
	ctx, span := startUsecaseSpan(ctx, "TradeService.CancelTrade")
	defer span.End()

	item, err := s.GetTrade(ctx, tradeID)
	if err != nil {
		return trade.Trade{}, err
	}
	if item.ProposingTeamID != strings.TrimSpace(teamID) {
		return trade.Trade{}, fmt.Errorf("%w: only the proposing team may cancel trade %s", ErrUnauthorized, tradeID)
	}
	if item.Executed() {
		return trade.Trade{}, fmt.Errorf("%w: trade %s has already executed", ErrInvalidInput, tradeID)
	}
	if item.Status != trade.StatusPending && item.Status != trade.StatusAccepted {
		return trade.Trade{}, fmt.Errorf("%w: trade %s is already %s", ErrInvalidInput, tradeID, item.Status)
	}

	item.Status = trade.StatusCancelled
	if err := s.tradeRepo.Update(ctx, item); err != nil {
		return trade.Trade{}, fmt.Errorf("update trade %s: %w", tradeID, err)
	}

	return item, nil
}

// ExecuteAccepted runs every accepted, unexecuted trade of the league.
// Validation runs entirely before any mutation, so a failed trade leaves the
// ledger untouched; one trade's failure never affects its siblings. Source
// assignments close at currentWeek, destination assignments open at
// unlockedWeek.
func (s *TradeService) ExecuteAccepted(ctx context.Context, leagueID string, currentWeek, unlockedWeek int) (ProcessResult, error) {
	ctx, span := startUsecaseSpan(ctx, "TradeService.ExecuteAccepted")
	defer span.End()

	if _, exists, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return ProcessResult{}, fmt.Errorf("get league %s: %w", leagueID, err)
	} else if !exists {
		return ProcessResult{}, fmt.Errorf("%w: league %s not found", ErrNotFound, leagueID)
	}

	trades, err := s.tradeRepo.ListAcceptedUnexecuted(ctx, leagueID)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("list accepted trades: %w", err)
	}

	result := ProcessResult{}
	for _, item := range trades {
		executed, err := s.executeOne(ctx, item, currentWeek, unlockedWeek)
		if err != nil {
			return result, err
		}

		result.Processed++
		if executed.Executed() {
			result.Successful++
		} else {
			result.Failed++
		}
	}

	return result, nil
}

// executeOne validates and, when valid, executes a single accepted trade as
// one atomic ledger mutation. Business failures mark the trade Failed with a
// reason and perform zero mutations.
func (s *TradeService) executeOne(ctx context.Context, item trade.Trade, currentWeek, unlockedWeek int) (trade.Trade, error) {
	mutation, reason, err := s.buildMutation(ctx, item, currentWeek, unlockedWeek)
	if err != nil {
		return trade.Trade{}, err
	}

	if reason != "" {
		item.Status = trade.StatusFailed
		item.FailureReason = string(reason)
		if err := s.tradeRepo.Update(ctx, item); err != nil {
			return trade.Trade{}, fmt.Errorf("update trade %s: %w", item.ID, err)
		}

		s.logger.InfoContext(ctx, "trade failed validation",
			slog.String("trade_id", item.ID),
			slog.String("failure_reason", item.FailureReason),
		)

		return item, nil
	}

	if err := s.ledger.Apply(ctx, mutation); err != nil {
		return trade.Trade{}, fmt.Errorf("apply trade mutation: %w", err)
	}

	executedAt := s.now().UTC()
	item.ExecutedAt = &executedAt
	if err := s.tradeRepo.Update(ctx, item); err != nil {
		return trade.Trade{}, fmt.Errorf("update trade %s: %w", item.ID, err)
	}

	s.logger.InfoContext(ctx, "trade executed",
		slog.String("trade_id", item.ID),
		slog.String("league_id", item.LeagueID),
		slog.Int("item_count", len(item.Items)),
	)

	s.notifyTrade(ctx, item)

	return item, nil
}

// buildMutation validates the whole trade and assembles its ledger mutation.
// It performs no writes; a non-zero reason reports the first validation
// failure and discards any partially built mutation.
func (s *TradeService) buildMutation(ctx context.Context, item trade.Trade, currentWeek, unlockedWeek int) (roster.Mutation, roster.FailReason, error) {
	if err := item.Validate(); err != nil {
		return roster.Mutation{}, roster.FailStaleState, nil
	}
	if err := sourceTeamsCovered(item); err != nil {
		return roster.Mutation{}, roster.FailStaleState, nil
	}

	mutation := roster.Mutation{}
	outgoingByTeam := make(map[string][]string)
	incomingByTeam := make(map[string][]string)

	for _, leg := range item.Items {
		destTeamID := item.CounterpartOf(leg.SourceTeamID)

		switch leg.Kind {
		case trade.ItemKindPlayer:
			assignment, active, err := s.ledger.GetActiveByPlayer(ctx, item.LeagueID, leg.RefID)
			if err != nil {
				return roster.Mutation{}, "", fmt.Errorf("check ownership of %s: %w", leg.RefID, err)
			}
			if !active || assignment.TeamID != leg.SourceTeamID {
				return roster.Mutation{}, roster.FailStaleState, nil
			}

			assignmentID, err := s.idGen.NewID()
			if err != nil {
				return roster.Mutation{}, "", fmt.Errorf("generate assignment id: %w", err)
			}
			mutation.Closes = append(mutation.Closes, roster.CloseOp{
				AssignmentID: assignment.ID,
				WeekDropped:  currentWeek,
			})
			mutation.Opens = append(mutation.Opens, roster.Assignment{
				ID:        assignmentID,
				LeagueID:  item.LeagueID,
				TeamID:    destTeamID,
				PlayerID:  leg.RefID,
				WeekAdded: unlockedWeek,
				CreatedAt: s.now().UTC(),
			})
			outgoingByTeam[leg.SourceTeamID] = append(outgoingByTeam[leg.SourceTeamID], leg.RefID)
			incomingByTeam[destTeamID] = append(incomingByTeam[destTeamID], leg.RefID)

		case trade.ItemKindPick:
			pick, exists, err := s.pickRepo.GetByID(ctx, leg.RefID)
			if err != nil {
				return roster.Mutation{}, "", fmt.Errorf("get pick %s: %w", leg.RefID, err)
			}
			if !exists || pick.LeagueID != item.LeagueID || pick.TeamID != leg.SourceTeamID {
				return roster.Mutation{}, roster.FailStaleState, nil
			}
			mutation.PickTransfers = append(mutation.PickTransfers, roster.PickTransfer{
				PickID:   leg.RefID,
				ToTeamID: destTeamID,
			})
		}
	}

	for destTeamID, playerIDs := range incomingByTeam {
		incoming, err := s.playerRepo.GetByIDs(ctx, playerIDs)
		if err != nil {
			return roster.Mutation{}, "", fmt.Errorf("get players by ids: %w", err)
		}

		// Capacity counts incoming players one by one, with the team's own
		// outgoing players excluded and earlier incoming legs accumulated.
		countByPosition := make(map[player.Position]int)
		for _, p := range incoming {
			pos := p.OccupiedPosition()
			check, err := s.capacity.CanAdd(ctx, destTeamID, pos, outgoingByTeam[destTeamID]...)
			if err != nil {
				return roster.Mutation{}, "", err
			}
			if check.Current+countByPosition[pos] >= check.Max {
				return roster.Mutation{}, roster.FailCapacityExceeded, nil
			}
			countByPosition[pos]++
		}
	}

	return mutation, "", nil
}

// sourceTeamsCovered enforces that the trade's legs partition into exactly
// the two distinct teams of the trade, each giving at least one item.
func sourceTeamsCovered(item trade.Trade) error {
	sources := make(map[string]struct{}, 2)
	for _, leg := range item.Items {
		sources[leg.SourceTeamID] = struct{}{}
	}
	if len(sources) != 2 {
		return fmt.Errorf("trade items must come from exactly two teams")
	}

	return nil
}

func (s *TradeService) notifyTrade(ctx context.Context, item trade.Trade) {
	message := fmt.Sprintf("Trade executed between team %s and team %s (%d items)", item.ProposingTeamID, item.ReceivingTeamID, len(item.Items))
	if err := s.notifier.NotifyTeams(ctx, item.LeagueID, []string{item.ProposingTeamID, item.ReceivingTeamID}, message); err != nil {
		s.logger.WarnContext(ctx, "trade notification failed",
			slog.String("trade_id", item.ID),
			slog.String("error", err.Error()),
		)
	}
}
