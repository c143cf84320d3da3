package postgres

import (
	"database/sql"
	"time"
)

var syncRunColumns = []string{
	"run_id",
	"mode",
	"trigger_source",
	"params",
	"status",
	"message",
	"items_processed",
	"items_skipped",
	"fallback_used",
	"started_at",
	"finished_at",
	"trace_id",
}

type syncRunTableModel struct {
	RunID          string         `db:"run_id"`
	Mode           string         `db:"mode"`
	Trigger        string         `db:"trigger_source"`
	Params         string         `db:"params"`
	Status         string         `db:"status"`
	Message        sql.NullString `db:"message"`
	ItemsProcessed int            `db:"items_processed"`
	ItemsSkipped   int            `db:"items_skipped"`
	FallbackUsed   bool           `db:"fallback_used"`
	StartedAt      time.Time      `db:"started_at"`
	FinishedAt     time.Time      `db:"finished_at"`
	TraceID        sql.NullString `db:"trace_id"`
}
