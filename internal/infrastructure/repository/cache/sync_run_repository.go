package cache

import (
	"context"
	"strconv"
	"strings"

	"github.com/riskibarqy/matchday-catalog/internal/domain/syncrun"
	basecache "github.com/riskibarqy/matchday-catalog/internal/platform/cache"
)

const (
	syncRunListPrefix = "syncrun:list:"
	syncRunIDPrefix   = "syncrun:id:"
)

// SyncRunRepository caches sync run reads. Inserts invalidate the list keys so
// the latest run is visible immediately.
type SyncRunRepository struct {
	next  syncrun.Repository
	cache *basecache.Store
}

func NewSyncRunRepository(next syncrun.Repository, cache *basecache.Store) *SyncRunRepository {
	return &SyncRunRepository{next: next, cache: cache}
}

func (r *SyncRunRepository) Insert(ctx context.Context, run syncrun.Run) error {
	if err := r.next.Insert(ctx, run); err != nil {
		return err
	}

	r.cache.DeletePrefix(ctx, syncRunListPrefix)
	r.cache.Delete(ctx, syncRunIDPrefix+strings.TrimSpace(run.RunID))
	return nil
}

func (r *SyncRunRepository) GetByID(ctx context.Context, runID string) (syncrun.Run, bool, error) {
	key := syncRunIDPrefix + strings.TrimSpace(runID)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, runID)
		if err != nil {
			return nil, err
		}
		return cachedSyncRunByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return syncrun.Run{}, false, err
	}

	cached, _ := v.(cachedSyncRunByID)
	return cached.value, cached.exists, nil
}

func (r *SyncRunRepository) ListLatest(ctx context.Context, limit int) ([]syncrun.Run, error) {
	key := syncRunListPrefix + strconv.Itoa(limit)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListLatest(ctx, limit)
		if err != nil {
			return nil, err
		}
		return append([]syncrun.Run(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]syncrun.Run)
	return append([]syncrun.Run(nil), items...), nil
}

type cachedSyncRunByID struct {
	value  syncrun.Run
	exists bool
}
