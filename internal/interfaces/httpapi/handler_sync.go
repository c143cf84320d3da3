package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/matchday-catalog/internal/domain/syncrun"
	"github.com/riskibarqy/matchday-catalog/internal/usecase"
)

const (
	syncTriggerHTTP    = "http"
	maxSyncRequestBody = 16 << 10
)

type syncFixturesRequest struct {
	Mode   string            `json:"mode" validate:"omitempty,oneof=daily hourly manual"`
	Params map[string]string `json:"params" validate:"omitempty,max=20,dive,keys,required,max=64,endkeys,max=256"`
}

type syncRunDTO struct {
	RunID          string            `json:"run_id"`
	Mode           string            `json:"mode"`
	Trigger        string            `json:"trigger"`
	Params         map[string]string `json:"params,omitempty"`
	Status         string            `json:"status"`
	Message        string            `json:"message"`
	ItemsProcessed int               `json:"items_processed"`
	ItemsSkipped   int               `json:"items_skipped"`
	FallbackUsed   bool              `json:"fallback_used"`
	StartedAt      time.Time         `json:"started_at"`
	FinishedAt     time.Time         `json:"finished_at"`
	DurationMs     int64             `json:"duration_ms"`
	TraceID        string            `json:"trace_id,omitempty"`
}

// SyncFixtures runs one pass inline. ERROR results map to 500; SUCCESS and
// NO_DATA map to 200.
func (h *Handler) SyncFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncFixtures")
	defer span.End()

	if h.syncer == nil {
		writeError(ctx, w, fmt.Errorf("%w: fixture sync is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeSyncFixturesRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	mode := syncrun.ModeManual
	if req.Mode != "" {
		mode = syncrun.Mode(req.Mode)
	}

	result := h.syncer.Sync(ctx, usecase.SyncRequest{
		Mode:    mode,
		Trigger: syncTriggerHTTP,
		Params:  req.Params,
	})
	if result.Failed() {
		h.logger.WarnContext(ctx, "manual fixture sync failed", "run_id", result.RunID, "message", result.Message)
		writeSyncFailure(ctx, w, result)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) ListSyncRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSyncRuns")
	defer span.End()

	if h.syncer == nil {
		writeError(ctx, w, fmt.Errorf("%w: fixture sync is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	runs, err := h.syncer.ListRuns(ctx, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list sync runs failed", "limit", limit, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]syncRunDTO, 0, len(runs))
	for _, run := range runs {
		out = append(out, syncRunToDTO(run))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetSyncRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSyncRun")
	defer span.End()

	if h.syncer == nil {
		writeError(ctx, w, fmt.Errorf("%w: fixture sync is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	runID := strings.TrimSpace(r.PathValue("runID"))
	run, err := h.syncer.GetRun(ctx, runID)
	if err != nil {
		if !errors.Is(err, usecase.ErrNotFound) {
			h.logger.WarnContext(ctx, "get sync run failed", "run_id", runID, "error", err)
		}
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncRunToDTO(run))
}

// decodeSyncFixturesRequest accepts an empty body as "no overrides".
func decodeSyncFixturesRequest(r *http.Request) (syncFixturesRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, maxSyncRequestBody))
	decoder.DisallowUnknownFields()

	var req syncFixturesRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return syncFixturesRequest{}, nil
		}
		return syncFixturesRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}

func syncRunToDTO(run syncrun.Run) syncRunDTO {
	return syncRunDTO{
		RunID:          run.RunID,
		Mode:           string(run.Mode),
		Trigger:        run.Trigger,
		Params:         run.Params,
		Status:         string(run.Status),
		Message:        run.Message,
		ItemsProcessed: run.ItemsProcessed,
		ItemsSkipped:   run.ItemsSkipped,
		FallbackUsed:   run.FallbackUsed,
		StartedAt:      run.StartedAt.UTC(),
		FinishedAt:     run.FinishedAt.UTC(),
		DurationMs:     run.Duration().Milliseconds(),
		TraceID:        run.TraceID,
	}
}
