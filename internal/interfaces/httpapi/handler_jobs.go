package httpapi

import (
	"fmt"
	"net/http"

	"github.com/bluelinehq/blueline/internal/usecase"
)

func (h *Handler) RunUnlockJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunUnlockJob")
	defer span.End()

	if h.unlockService == nil {
		writeError(ctx, w, fmt.Errorf("%w: unlock service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	report, err := h.unlockService.Run(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run unlock job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, unlockReportToDTO(report))
}
