package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/matchday-catalog/internal/domain/fixture"
	"github.com/riskibarqy/matchday-catalog/internal/domain/generation"
	"github.com/riskibarqy/matchday-catalog/internal/domain/highlight"
	"github.com/riskibarqy/matchday-catalog/internal/domain/league"
	"github.com/riskibarqy/matchday-catalog/internal/domain/team"
)

type dataset struct {
	leagues    []league.League
	teams      []team.Team
	fixtures   []fixture.Fixture
	highlights []highlight.Highlight
}

// GenerationRepository keeps the synced dataset in memory. Replace builds into
// a staging dataset that only becomes visible when build succeeds.
type GenerationRepository struct {
	mu     sync.RWMutex
	data   dataset
	nextID int64
}

func NewGenerationRepository() *GenerationRepository {
	return &GenerationRepository{}
}

func (r *GenerationRepository) Replace(ctx context.Context, build generation.BuildFunc) (generation.PurgeStats, error) {
	if build == nil {
		return generation.PurgeStats{}, fmt.Errorf("generation build func is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	purged := generation.PurgeStats{
		Highlights: int64(len(r.data.highlights)),
		Fixtures:   int64(len(r.data.fixtures)),
		Teams:      int64(len(r.data.teams)),
		Leagues:    int64(len(r.data.leagues)),
	}

	writer := &stagingWriter{
		nextID:            r.nextID,
		leagueExternalIDs: make(map[int64]struct{}),
		teamExternalIDs:   make(map[int64]struct{}),
		fixtureExternal:   make(map[int64]struct{}),
		leagueIDs:         make(map[int64]struct{}),
		teamIDs:           make(map[int64]struct{}),
	}
	if err := build(ctx, writer); err != nil {
		return generation.PurgeStats{}, fmt.Errorf("build generation: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return generation.PurgeStats{}, fmt.Errorf("build generation: %w", err)
	}

	r.data = writer.data
	r.nextID = writer.nextID
	return purged, nil
}

// AddHighlight attaches a highlight to a fixture of the current generation.
func (r *GenerationRepository) AddHighlight(_ context.Context, item highlight.Highlight) (highlight.Highlight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	for _, f := range r.data.fixtures {
		if f.ID == item.FixtureID {
			found = true
			break
		}
	}
	if !found {
		return highlight.Highlight{}, fmt.Errorf("fixture id=%d not found", item.FixtureID)
	}

	r.nextID++
	item.ID = r.nextID
	r.data.highlights = append(r.data.highlights, item)
	return item, nil
}

func (r *GenerationRepository) ListLeagues(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]league.League(nil), r.data.leagues...), nil
}

func (r *GenerationRepository) ListTeams(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]team.Team(nil), r.data.teams...), nil
}

func (r *GenerationRepository) ListFixtures(_ context.Context) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]fixture.Fixture(nil), r.data.fixtures...), nil
}

func (r *GenerationRepository) CountHighlights() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.data.highlights)
}

func (r *GenerationRepository) Counts() generation.Counts {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return generation.Counts{
		Leagues:  len(r.data.leagues),
		Teams:    len(r.data.teams),
		Fixtures: len(r.data.fixtures),
	}
}

// stagingWriter enforces the same uniqueness and reference rules as the
// postgres schema.
type stagingWriter struct {
	data              dataset
	nextID            int64
	leagueExternalIDs map[int64]struct{}
	teamExternalIDs   map[int64]struct{}
	fixtureExternal   map[int64]struct{}
	leagueIDs         map[int64]struct{}
	teamIDs           map[int64]struct{}
}

func (w *stagingWriter) InsertLeague(_ context.Context, item league.League) (league.League, error) {
	if err := item.Validate(); err != nil {
		return league.League{}, fmt.Errorf("invalid league: %w", err)
	}
	if _, ok := w.leagueExternalIDs[item.ExternalID]; ok {
		return league.League{}, fmt.Errorf("duplicate league external_id=%d", item.ExternalID)
	}

	w.nextID++
	item.ID = w.nextID
	w.leagueExternalIDs[item.ExternalID] = struct{}{}
	w.leagueIDs[item.ID] = struct{}{}
	w.data.leagues = append(w.data.leagues, item)
	return item, nil
}

func (w *stagingWriter) InsertTeam(_ context.Context, item team.Team) (team.Team, error) {
	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("invalid team: %w", err)
	}
	if _, ok := w.teamExternalIDs[item.ExternalID]; ok {
		return team.Team{}, fmt.Errorf("duplicate team external_id=%d", item.ExternalID)
	}

	w.nextID++
	item.ID = w.nextID
	w.teamExternalIDs[item.ExternalID] = struct{}{}
	w.teamIDs[item.ID] = struct{}{}
	w.data.teams = append(w.data.teams, item)
	return item, nil
}

func (w *stagingWriter) InsertFixture(_ context.Context, item fixture.Fixture) (fixture.Fixture, error) {
	if err := item.Validate(); err != nil {
		return fixture.Fixture{}, fmt.Errorf("invalid fixture: %w", err)
	}
	if _, ok := w.fixtureExternal[item.ExternalID]; ok {
		return fixture.Fixture{}, fmt.Errorf("duplicate fixture external_id=%d", item.ExternalID)
	}
	if _, ok := w.leagueIDs[item.LeagueID]; !ok {
		return fixture.Fixture{}, fmt.Errorf("fixture external_id=%d references unknown league id=%d", item.ExternalID, item.LeagueID)
	}
	for _, teamID := range []int64{item.HomeTeamID, item.AwayTeamID} {
		if _, ok := w.teamIDs[teamID]; !ok {
			return fixture.Fixture{}, fmt.Errorf("fixture external_id=%d references unknown team id=%d", item.ExternalID, teamID)
		}
	}

	w.nextID++
	item.ID = w.nextID
	w.fixtureExternal[item.ExternalID] = struct{}{}
	w.data.fixtures = append(w.data.fixtures, item)
	return item, nil
}
