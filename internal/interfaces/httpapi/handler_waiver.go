package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/bluelinehq/blueline/internal/usecase"
)

func (h *Handler) SubmitWaiverClaim(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitWaiverClaim")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))

	var req submitClaimRequest
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

	claim, err := h.waiverService.SubmitClaim(ctx, usecase.SubmitClaimInput{
		LeagueID:     leagueID,
		TeamID:       req.TeamID,
		PlayerToAdd:  req.PlayerToAdd,
		PlayerToDrop: req.PlayerToDrop,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit waiver claim failed", "league_id", leagueID, "team_id", req.TeamID, "player_to_add", req.PlayerToAdd, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, claimToDTO(claim))
}

func (h *Handler) GetWaiverClaim(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWaiverClaim")
	defer span.End()

	claimID := strings.TrimSpace(r.PathValue("claimID"))

	claim, err := h.waiverService.GetClaim(ctx, claimID)
	if err != nil {
		h.logger.WarnContext(ctx, "get waiver claim failed", "claim_id", claimID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, claimToDTO(claim))
}

func (h *Handler) CancelWaiverClaim(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelWaiverClaim")
	defer span.End()

	claimID := strings.TrimSpace(r.PathValue("claimID"))

	var req cancelClaimRequest
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

	claim, err := h.waiverService.CancelClaim(ctx, claimID, req.TeamID)
	if err != nil {
		h.logger.WarnContext(ctx, "cancel waiver claim failed", "claim_id", claimID, "team_id", req.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, claimToDTO(claim))
}
