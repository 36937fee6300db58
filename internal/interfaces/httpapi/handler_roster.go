package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/bluelinehq/blueline/internal/usecase"
)

func (h *Handler) GetWeekLock(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWeekLock")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	weekNumber, err := strconv.Atoi(strings.TrimSpace(r.PathValue("week")))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: week must be a number", usecase.ErrInvalidInput))
		return
	}

	status, err := h.rosterService.WeekLock(ctx, leagueID, weekNumber)
	if err != nil {
		h.logger.WarnContext(ctx, "get week lock failed", "league_id", leagueID, "week", weekNumber, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, weekLockDTO{
		Season: status.Season,
		Week:   status.Week,
		State:  string(status.State),
		Locked: status.Locked,
	})
}

func (h *Handler) GetRosterChangeEligibility(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRosterChangeEligibility")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))

	weekNumber := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("week")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: week must be a number", usecase.ErrInvalidInput))
			return
		}
		weekNumber = parsed
	}

	allowed, reason, err := h.rosterService.CanMakeRosterChanges(ctx, teamID, weekNumber)
	if err != nil {
		h.logger.WarnContext(ctx, "roster change eligibility failed", "team_id", teamID, "week", weekNumber, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterChangeEligibilityDTO{
		TeamID:  teamID,
		Week:    weekNumber,
		Allowed: allowed,
		Reason:  reason,
	})
}

func (h *Handler) GetTeamRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamRoster")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	teamID := strings.TrimSpace(r.PathValue("teamID"))

	rosterView, err := h.rosterService.GetTeamRoster(ctx, leagueID, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team roster failed", "league_id", leagueID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamRosterToDTO(ctx, rosterView))
}

func (h *Handler) AddDropPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddDropPlayer")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	teamID := strings.TrimSpace(r.PathValue("teamID"))

	var req addDropRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	assignment, err := h.rosterService.AddDropPlayer(ctx, usecase.AddDropInput{
		LeagueID:     leagueID,
		TeamID:       teamID,
		PlayerToAdd:  req.PlayerToAdd,
		PlayerToDrop: req.PlayerToDrop,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "add drop player failed", "league_id", leagueID, "team_id", teamID, "player_to_add", req.PlayerToAdd, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, assignmentToDTO(assignment))
}
