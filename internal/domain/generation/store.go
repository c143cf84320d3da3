package generation

import (
	"context"

	"github.com/riskibarqy/matchday-catalog/internal/domain/fixture"
	"github.com/riskibarqy/matchday-catalog/internal/domain/league"
	"github.com/riskibarqy/matchday-catalog/internal/domain/team"
)

// Writer persists rows of the generation being built. Returned values carry
// the internal IDs assigned by the store.
type Writer interface {
	InsertLeague(ctx context.Context, item league.League) (league.League, error)
	InsertTeam(ctx context.Context, item team.Team) (team.Team, error)
	InsertFixture(ctx context.Context, item fixture.Fixture) (fixture.Fixture, error)
}

// BuildFunc fills a fresh generation through w.
type BuildFunc func(ctx context.Context, w Writer) error

// PurgeStats counts the rows removed from the previous generation.
type PurgeStats struct {
	Highlights int64
	Fixtures   int64
	Teams      int64
	Leagues    int64
}

// Store swaps the whole synced dataset. Replace deletes the previous
// generation (highlights, fixtures, teams, leagues in that order), runs build
// and commits both steps as one unit. When build or any write fails nothing
// is committed and the previous generation stays visible.
type Store interface {
	Replace(ctx context.Context, build BuildFunc) (PurgeStats, error)
}

// Counts reports the number of rows in the current generation.
type Counts struct {
	Leagues  int
	Teams    int
	Fixtures int
}
