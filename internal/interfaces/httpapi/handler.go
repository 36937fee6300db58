package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/bluelinehq/blueline/internal/usecase"
)

type Handler struct {
	rosterService *usecase.RosterService
	waiverService *usecase.WaiverService
	tradeService  *usecase.TradeService
	unlockService *usecase.UnlockService
	logger        *slog.Logger
	validator     *validator.Validate
}

func NewHandler(
	rosterService *usecase.RosterService,
	waiverService *usecase.WaiverService,
	tradeService *usecase.TradeService,
	unlockService *usecase.UnlockService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		rosterService: rosterService,
		waiverService: waiverService,
		tradeService:  tradeService,
		unlockService: unlockService,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, req any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, req); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
