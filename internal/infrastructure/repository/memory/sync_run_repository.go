package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/matchday-catalog/internal/domain/syncrun"
)

type SyncRunRepository struct {
	mu   sync.RWMutex
	runs map[string]syncrun.Run
}

func NewSyncRunRepository() *SyncRunRepository {
	return &SyncRunRepository{runs: make(map[string]syncrun.Run)}
}

func (r *SyncRunRepository) Insert(_ context.Context, run syncrun.Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("invalid sync run: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs[strings.TrimSpace(run.RunID)] = cloneRun(run)
	return nil
}

func (r *SyncRunRepository) GetByID(_ context.Context, runID string) (syncrun.Run, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.runs[strings.TrimSpace(runID)]
	if !ok {
		return syncrun.Run{}, false, nil
	}
	return cloneRun(item), true, nil
}

func (r *SyncRunRepository) ListLatest(_ context.Context, limit int) ([]syncrun.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]syncrun.Run, 0, len(r.runs))
	for _, item := range r.runs {
		out = append(out, cloneRun(item))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].RunID > out[j].RunID
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func cloneRun(run syncrun.Run) syncrun.Run {
	if run.Params != nil {
		params := make(map[string]string, len(run.Params))
		for k, v := range run.Params {
			params[k] = v
		}
		run.Params = params
	}
	return run
}
