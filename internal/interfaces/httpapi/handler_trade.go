package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/bluelinehq/blueline/internal/domain/trade"
	"github.com/bluelinehq/blueline/internal/usecase"
)

func (h *Handler) ProposeTrade(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ProposeTrade")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))

	var req proposeTradeRequest
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

	items := make([]usecase.TradeItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, usecase.TradeItemInput{
			Kind:         trade.ItemKind(item.Kind),
			RefID:        item.RefID,
			SourceTeamID: item.SourceTeamID,
		})
	}

	proposal, err := h.tradeService.ProposeTrade(ctx, usecase.ProposeTradeInput{
		LeagueID:        leagueID,
		ProposingTeamID: req.ProposingTeamID,
		ReceivingTeamID: req.ReceivingTeamID,
		Items:           items,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "propose trade failed", "league_id", leagueID, "proposing_team_id", req.ProposingTeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, tradeToDTO(proposal))
}

func (h *Handler) GetTrade(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTrade")
	defer span.End()

	tradeID := strings.TrimSpace(r.PathValue("tradeID"))

	item, err := h.tradeService.GetTrade(ctx, tradeID)
	if err != nil {
		h.logger.WarnContext(ctx, "get trade failed", "trade_id", tradeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tradeToDTO(item))
}

func (h *Handler) AcceptTrade(w http.ResponseWriter, r *http.Request) {
	h.decideTrade(w, r, "httpapi.Handler.AcceptTrade", h.tradeService.AcceptTrade)
}

func (h *Handler) RejectTrade(w http.ResponseWriter, r *http.Request) {
	h.decideTrade(w, r, "httpapi.Handler.RejectTrade", h.tradeService.RejectTrade)
}

func (h *Handler) CancelTrade(w http.ResponseWriter, r *http.Request) {
	h.decideTrade(w, r, "httpapi.Handler.CancelTrade", h.tradeService.CancelTrade)
}

// decideTrade handles the three team-initiated transitions, which share the
// same request shape and only differ in the service call.
func (h *Handler) decideTrade(
	w http.ResponseWriter,
	r *http.Request,
	spanName string,
	decide func(ctx context.Context, tradeID, teamID string) (trade.Trade, error),
) {
	ctx, span := startSpan(r.Context(), spanName)
	defer span.End()

	tradeID := strings.TrimSpace(r.PathValue("tradeID"))

	var req tradeDecisionRequest
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

	item, err := decide(ctx, tradeID, req.TeamID)
	if err != nil {
		h.logger.WarnContext(ctx, "trade decision failed", "trade_id", tradeID, "team_id", req.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tradeToDTO(item))
}
