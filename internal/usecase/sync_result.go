package usecase

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/matchday-catalog/internal/domain/syncrun"
)

// SyncResult is the only outcome exposed to sync callers.
type SyncResult struct {
	RunID           string         `json:"run_id,omitempty"`
	Status          syncrun.Status `json:"status"`
	Message         string         `json:"message"`
	ItemsProcessed  int            `json:"items_processed"`
	ItemsSkipped    int            `json:"items_skipped,omitempty"`
	FallbackApplied bool           `json:"fallback_applied,omitempty"`
}

func (r SyncResult) Failed() bool {
	return r.Status == syncrun.StatusError
}

func reportSuccess(processed int) SyncResult {
	return SyncResult{
		Status:         syncrun.StatusSuccess,
		Message:        fmt.Sprintf("synced %d fixtures", processed),
		ItemsProcessed: processed,
	}
}

func reportNoData(reason string) SyncResult {
	return SyncResult{
		Status:  syncrun.StatusNoData,
		Message: "no fixtures synced: " + reason,
	}
}

func reportError(err error) SyncResult {
	var prefix string
	switch {
	case errors.Is(err, ErrProviderTransport):
		prefix = "fetch fixtures from provider failed, existing data kept"
	case errors.Is(err, ErrPersistence):
		prefix = "replace fixtures failed, changes rolled back"
	default:
		prefix = "fixture sync failed"
	}

	return SyncResult{
		Status:  syncrun.StatusError,
		Message: fmt.Sprintf("%s: %v", prefix, err),
	}
}
