package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday-catalog/internal/domain/syncrun"
	qb "github.com/riskibarqy/matchday-catalog/internal/platform/querybuilder"
)

type SyncRunRepository struct {
	db *sqlx.DB
}

func NewSyncRunRepository(db *sqlx.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

func (r *SyncRunRepository) Insert(ctx context.Context, run syncrun.Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("invalid sync run: %w", err)
	}

	params, err := marshalParams(run.Params)
	if err != nil {
		return fmt.Errorf("marshal sync run params: %w", err)
	}

	finishedAt := run.FinishedAt.UTC()
	if finishedAt.IsZero() {
		finishedAt = time.Now().UTC()
	}

	model := syncRunTableModel{
		RunID:          strings.TrimSpace(run.RunID),
		Mode:           string(run.Mode),
		Trigger:        strings.TrimSpace(run.Trigger),
		Params:         params,
		Status:         string(run.Status),
		Message:        toNullString(run.Message),
		ItemsProcessed: run.ItemsProcessed,
		ItemsSkipped:   run.ItemsSkipped,
		FallbackUsed:   run.FallbackUsed,
		StartedAt:      run.StartedAt.UTC(),
		FinishedAt:     finishedAt,
		TraceID:        toNullString(run.TraceID),
	}

	query, args, err := qb.InsertModel("sync_runs", model)
	if err != nil {
		return fmt.Errorf("build insert sync run query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert sync run run_id=%s: %w", model.RunID, err)
	}

	return nil
}

func (r *SyncRunRepository) GetByID(ctx context.Context, runID string) (syncrun.Run, bool, error) {
	query, args, err := qb.Select(syncRunColumns...).
		From("sync_runs").
		Where(qb.Eq("run_id", strings.TrimSpace(runID))).
		Limit(1).
		ToSQL()
	if err != nil {
		return syncrun.Run{}, false, fmt.Errorf("build get sync run query: %w", err)
	}

	var row syncRunTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return syncrun.Run{}, false, nil
		}
		return syncrun.Run{}, false, fmt.Errorf("get sync run run_id=%s: %w", runID, err)
	}

	item, err := syncRunFromRow(row)
	if err != nil {
		return syncrun.Run{}, false, err
	}
	return item, true, nil
}

func (r *SyncRunRepository) ListLatest(ctx context.Context, limit int) ([]syncrun.Run, error) {
	query, args, err := qb.Select(syncRunColumns...).
		From("sync_runs").
		OrderBy("started_at DESC", "run_id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list sync runs query: %w", err)
	}

	var rows []syncRunTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}

	out := make([]syncrun.Run, 0, len(rows))
	for _, row := range rows {
		item, err := syncRunFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func syncRunFromRow(row syncRunTableModel) (syncrun.Run, error) {
	params := map[string]string{}
	if raw := strings.TrimSpace(row.Params); raw != "" {
		if err := sonic.UnmarshalString(raw, &params); err != nil {
			return syncrun.Run{}, fmt.Errorf("decode sync run params run_id=%s: %w", row.RunID, err)
		}
	}

	return syncrun.Run{
		RunID:          row.RunID,
		Mode:           syncrun.Mode(row.Mode),
		Trigger:        row.Trigger,
		Params:         params,
		Status:         syncrun.Status(row.Status),
		Message:        nullStringValue(row.Message),
		ItemsProcessed: row.ItemsProcessed,
		ItemsSkipped:   row.ItemsSkipped,
		FallbackUsed:   row.FallbackUsed,
		StartedAt:      row.StartedAt.UTC(),
		FinishedAt:     row.FinishedAt.UTC(),
		TraceID:        nullStringValue(row.TraceID),
	}, nil
}

func marshalParams(params map[string]string) (string, error) {
	if len(params) == 0 {
		return "{}", nil
	}
	return sonic.MarshalString(params)
}
