package syncrun

import "context"

type Repository interface {
	Insert(ctx context.Context, run Run) error
	GetByID(ctx context.Context, runID string) (Run, bool, error)
	ListLatest(ctx context.Context, limit int) ([]Run, error)
}
