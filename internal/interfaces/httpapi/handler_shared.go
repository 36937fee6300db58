package httpapi

import (
	"context"
	"time"

	"github.com/bluelinehq/blueline/internal/domain/player"
	"github.com/bluelinehq/blueline/internal/domain/roster"
	"github.com/bluelinehq/blueline/internal/domain/team"
	"github.com/bluelinehq/blueline/internal/domain/trade"
	"github.com/bluelinehq/blueline/internal/domain/waiver"
	"github.com/bluelinehq/blueline/internal/usecase"
)

type addDropRequest struct {
	PlayerToAdd  string `json:"playerToAdd" validate:"required"`
	PlayerToDrop string `json:"playerToDrop" validate:"omitempty"`
}

type submitClaimRequest struct {
	TeamID       string `json:"teamId" validate:"required"`
	PlayerToAdd  string `json:"playerToAdd" validate:"required"`
	PlayerToDrop string `json:"playerToDrop" validate:"omitempty"`
}

type cancelClaimRequest struct {
	TeamID string `json:"teamId" validate:"required"`
}

type proposeTradeRequest struct {
	ProposingTeamID string                `json:"proposingTeamId" validate:"required"`
	ReceivingTeamID string                `json:"receivingTeamId" validate:"required"`
	Items           []tradeItemRequestDTO `json:"items" validate:"required,min=1,dive"`
}

type tradeItemRequestDTO struct {
	Kind         string `json:"kind" validate:"required,oneof=player pick"`
	RefID        string `json:"refId" validate:"required"`
	SourceTeamID string `json:"sourceTeamId" validate:"required"`
}

type tradeDecisionRequest struct {
	TeamID string `json:"teamId" validate:"required"`
}

type weekLockDTO struct {
	Season int    `json:"season"`
	Week   int    `json:"week"`
	State  string `json:"state"`
	Locked bool   `json:"locked"`
}

type rosterChangeEligibilityDTO struct {
	TeamID  string `json:"teamId"`
	Week    int    `json:"week"`
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

type assignmentDTO struct {
	ID          string `json:"id"`
	LeagueID    string `json:"leagueId"`
	TeamID      string `json:"teamId"`
	PlayerID    string `json:"playerId"`
	WeekAdded   int    `json:"weekAdded"`
	WeekDropped *int   `json:"weekDropped,omitempty"`
}

type playerDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Position      string `json:"position"`
	CountsAgainst string `json:"countsAgainst"`
}

type teamDTO struct {
	ID             string `json:"id"`
	LeagueID       string `json:"leagueId"`
	Name           string `json:"name"`
	WaiverPriority int    `json:"waiverPriority"`
}

type rosterEntryDTO struct {
	Assignment assignmentDTO `json:"assignment"`
	Player     playerDTO     `json:"player"`
}

type teamRosterDTO struct {
	Team    teamDTO          `json:"team"`
	Active  []rosterEntryDTO `json:"active"`
	History []assignmentDTO  `json:"history"`
}

type claimDTO struct {
	ID               string     `json:"id"`
	LeagueID         string     `json:"leagueId"`
	TeamID           string     `json:"teamId"`
	PlayerToAdd      string     `json:"playerToAdd"`
	PlayerToDrop     *string    `json:"playerToDrop,omitempty"`
	WeekNumber       int        `json:"weekNumber"`
	PrioritySnapshot int        `json:"prioritySnapshot"`
	Status           string     `json:"status"`
	FailureReason    string     `json:"failureReason,omitempty"`
	ProcessedAt      *time.Time `json:"processedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

type tradeItemDTO struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	RefID        string `json:"refId"`
	SourceTeamID string `json:"sourceTeamId"`
}

type tradeDTO struct {
	ID              string         `json:"id"`
	LeagueID        string         `json:"leagueId"`
	ProposingTeamID string         `json:"proposingTeamId"`
	ReceivingTeamID string         `json:"receivingTeamId"`
	Status          string         `json:"status"`
	Items           []tradeItemDTO `json:"items"`
	FailureReason   string         `json:"failureReason,omitempty"`
	ExecutedAt      *time.Time     `json:"executedAt,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
}

type processResultDTO struct {
	Processed  int `json:"processed"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

type unlockReportDTO struct {
	LeaguesVisited  int              `json:"leaguesVisited"`
	LeaguesUnlocked int              `json:"leaguesUnlocked"`
	Claims          processResultDTO `json:"claims"`
	Trades          processResultDTO `json:"trades"`
}

func assignmentToDTO(v roster.Assignment) assignmentDTO {
	return assignmentDTO{
		ID:          v.ID,
		LeagueID:    v.LeagueID,
		TeamID:      v.TeamID,
		PlayerID:    v.PlayerID,
		WeekAdded:   v.WeekAdded,
		WeekDropped: v.WeekDropped,
	}
}

func playerToDTO(v player.Player) playerDTO {
	return playerDTO{
		ID:            v.ID,
		Name:          v.Name,
		Position:      string(v.Position),
		CountsAgainst: string(v.OccupiedPosition()),
	}
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{
		ID:             v.ID,
		LeagueID:       v.LeagueID,
		Name:           v.Name,
		WaiverPriority: v.WaiverPriority,
	}
}

func teamRosterToDTO(ctx context.Context, v usecase.TeamRoster) teamRosterDTO {
	_, span := startSpan(ctx, "httpapi.teamRosterToDTO")
	defer span.End()

	out := teamRosterDTO{
		Team:    teamToDTO(v.Team),
		Active:  make([]rosterEntryDTO, 0, len(v.Active)),
		History: make([]assignmentDTO, 0, len(v.History)),
	}
	for _, entry := range v.Active {
		out.Active = append(out.Active, rosterEntryDTO{
			Assignment: assignmentToDTO(entry.Assignment),
			Player:     playerToDTO(entry.Player),
		})
	}
	for _, assignment := range v.History {
		out.History = append(out.History, assignmentToDTO(assignment))
	}

	return out
}

func claimToDTO(v waiver.Claim) claimDTO {
	return claimDTO{
		ID:               v.ID,
		LeagueID:         v.LeagueID,
		TeamID:           v.TeamID,
		PlayerToAdd:      v.PlayerToAdd,
		PlayerToDrop:     v.PlayerToDrop,
		WeekNumber:       v.WeekNumber,
		PrioritySnapshot: v.PrioritySnapshot,
		Status:           string(v.Status),
		FailureReason:    v.FailureReason,
		ProcessedAt:      v.ProcessedAt,
		CreatedAt:        v.CreatedAt,
	}
}

func tradeToDTO(v trade.Trade) tradeDTO {
	items := make([]tradeItemDTO, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, tradeItemDTO{
			ID:           item.ID,
			Kind:         string(item.Kind),
			RefID:        item.RefID,
			SourceTeamID: item.SourceTeamID,
		})
	}

	return tradeDTO{
		ID:              v.ID,
		LeagueID:        v.LeagueID,
		ProposingTeamID: v.ProposingTeamID,
		ReceivingTeamID: v.ReceivingTeamID,
		Status:          string(v.Status),
		Items:           items,
		FailureReason:   v.FailureReason,
		ExecutedAt:      v.ExecutedAt,
		CreatedAt:       v.CreatedAt,
	}
}

func processResultToDTO(v usecase.ProcessResult) processResultDTO {
	return processResultDTO{
		Processed:  v.Processed,
		Successful: v.Successful,
		Failed:     v.Failed,
	}
}

func unlockReportToDTO(v usecase.UnlockReport) unlockReportDTO {
	return unlockReportDTO{
		LeaguesVisited:  v.LeaguesVisited,
		LeaguesUnlocked: v.LeaguesUnlocked,
		Claims:          processResultToDTO(v.Claims),
		Trades:          processResultToDTO(v.Trades),
	}
}
