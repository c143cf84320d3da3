package syncrun

import (
	"fmt"
	"strings"
	"time"
)

type Mode string

const (
	ModeDaily  Mode = "daily"
	ModeHourly Mode = "hourly"
	ModeManual Mode = "manual"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeDaily, ModeHourly, ModeManual:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusNoData  Status = "NO_DATA"
	StatusError   Status = "ERROR"
)

// Run records the outcome of one sync pass.
type Run struct {
	RunID          string
	Mode           Mode
	Trigger        string
	Params         map[string]string
	Status         Status
	Message        string
	ItemsProcessed int
	ItemsSkipped   int
	FallbackUsed   bool
	StartedAt      time.Time
	FinishedAt     time.Time
	TraceID        string
}

func (r Run) Validate() error {
	if strings.TrimSpace(r.RunID) == "" {
		return fmt.Errorf("run id is required")
	}
	if !r.Mode.Valid() {
		return fmt.Errorf("invalid sync mode %q", r.Mode)
	}
	switch r.Status {
	case StatusSuccess, StatusNoData, StatusError:
	default:
		return fmt.Errorf("invalid sync status %q", r.Status)
	}
	if r.StartedAt.IsZero() {
		return fmt.Errorf("started_at is required")
	}

	return nil
}

func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
