package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/matchday-catalog/internal/domain/syncrun"
	"github.com/riskibarqy/matchday-catalog/internal/platform/logging"
	"github.com/riskibarqy/matchday-catalog/internal/usecase"
)

// FixtureSyncer is the sync surface exposed over HTTP.
type FixtureSyncer interface {
	Sync(ctx context.Context, req usecase.SyncRequest) usecase.SyncResult
	ListRuns(ctx context.Context, limit int) ([]syncrun.Run, error)
	GetRun(ctx context.Context, runID string) (syncrun.Run, error)
}

type Handler struct {
	syncer    FixtureSyncer
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(syncer FixtureSyncer, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		syncer:    syncer,
		logger:    logger,
		validator: validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
