package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/matchday-catalog/internal/domain/syncrun"
	syncrunmock "github.com/riskibarqy/matchday-catalog/internal/mocks/domain/syncrun"
	basecache "github.com/riskibarqy/matchday-catalog/internal/platform/cache"
	"github.com/stretchr/testify/mock"
)

func TestSyncRunRepository_ListLatestIsCachedUntilInsert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := syncrunmock.NewRepository(t)
	repo := NewSyncRunRepository(next, basecache.NewStore(time.Minute))

	first := []syncrun.Run{{RunID: "run-1"}}
	second := []syncrun.Run{{RunID: "run-2"}, {RunID: "run-1"}}
	newRun := syncrun.Run{RunID: "run-2", Mode: syncrun.ModeManual, Status: syncrun.StatusSuccess, StartedAt: time.Now()}

	next.On("ListLatest", mock.Anything, 20).Return(first, nil).Once()
	next.On("Insert", mock.Anything, newRun).Return(nil).Once()
	next.On("ListLatest", mock.Anything, 20).Return(second, nil).Once()

	for i := 0; i < 3; i++ {
		items, err := repo.ListLatest(ctx, 20)
		if err != nil {
			t.Fatalf("list latest: %v", err)
		}
		if len(items) != 1 {
			t.Fatalf("expected cached list, got %d items", len(items))
		}
	}

	if err := repo.Insert(ctx, newRun); err != nil {
		t.Fatalf("insert: %v", err)
	}

	items, err := repo.ListLatest(ctx, 20)
	if err != nil {
		t.Fatalf("list latest after insert: %v", err)
	}
	if len(items) != 2 || items[0].RunID != "run-2" {
		t.Fatalf("expected refreshed list, got %+v", items)
	}
}

func TestSyncRunRepository_GetByIDCachesMisses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := syncrunmock.NewRepository(t)
	repo := NewSyncRunRepository(next, basecache.NewStore(time.Minute))

	next.On("GetByID", mock.Anything, "missing").Return(syncrun.Run{}, false, nil).Once()

	for i := 0; i < 2; i++ {
		_, ok, err := repo.GetByID(ctx, "missing")
		if err != nil {
			t.Fatalf("get by id: %v", err)
		}
		if ok {
			t.Fatalf("expected missing run")
		}
	}
}
