package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/matchday-catalog/internal/domain/syncrun"
)

func TestSyncRunRepository_ListLatestOrdersNewestFirst(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewSyncRunRepository()
	base := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

	for i, runID := range []string{"run-a", "run-b", "run-c"} {
		err := repo.Insert(ctx, syncrun.Run{
			RunID:     runID,
			Mode:      syncrun.ModeHourly,
			Status:    syncrun.StatusSuccess,
			Params:    map[string]string{"live": "all"},
			StartedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("insert %s: %v", runID, err)
		}
	}

	items, err := repo.ListLatest(ctx, 2)
	if err != nil {
		t.Fatalf("list latest: %v", err)
	}
	if len(items) != 2 || items[0].RunID != "run-c" || items[1].RunID != "run-b" {
		t.Fatalf("unexpected order: %+v", items)
	}

	items[0].Params["live"] = "mutated"
	stored, ok, err := repo.GetByID(ctx, "run-c")
	if err != nil || !ok {
		t.Fatalf("get run-c: ok=%v err=%v", ok, err)
	}
	if stored.Params["live"] != "all" {
		t.Fatalf("expected stored params to be isolated from callers")
	}
}

func TestSyncRunRepository_InsertRejectsInvalidRun(t *testing.T) {
	t.Parallel()

	repo := NewSyncRunRepository()
	if err := repo.Insert(context.Background(), syncrun.Run{RunID: "x", Mode: "weekly"}); err == nil {
		t.Fatalf("expected invalid mode to be rejected")
	}
}
