package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/matchday-catalog/internal/domain/fixture"
	"github.com/riskibarqy/matchday-catalog/internal/domain/generation"
	"github.com/riskibarqy/matchday-catalog/internal/domain/league"
	"github.com/riskibarqy/matchday-catalog/internal/domain/team"
)

type stubFixtureProvider struct {
	mu     sync.Mutex
	items  []ExternalFixtureItem
	err    error
	calls  int
	params []map[string]string
}

func (s *stubFixtureProvider) FetchFixtures(_ context.Context, params map[string]string) ([]ExternalFixtureItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	s.params = append(s.params, params)
	if s.err != nil {
		return nil, s.err
	}
	return append([]ExternalFixtureItem(nil), s.items...), nil
}

func (s *stubFixtureProvider) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type sequentialIDs struct {
	mu   sync.Mutex
	next int
}

func (g *sequentialIDs) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("run-%03d", g.next), nil
}

// failingStore delegates to a real store but fails the nth fixture insert.
type failingStore struct {
	inner         generation.Store
	failOnFixture int
}

func (s *failingStore) Replace(ctx context.Context, build generation.BuildFunc) (generation.PurgeStats, error) {
	return s.inner.Replace(ctx, func(ctx context.Context, w generation.Writer) error {
		return build(ctx, &failingWriter{Writer: w, failOn: s.failOnFixture})
	})
}

type failingWriter struct {
	generation.Writer
	failOn int
	seen   int
}

func (w *failingWriter) InsertFixture(ctx context.Context, item fixture.Fixture) (fixture.Fixture, error) {
	w.seen++
	if w.seen == w.failOn {
		return fixture.Fixture{}, fmt.Errorf("unique violation on fixtures.external_id=%d", item.ExternalID)
	}
	return w.Writer.InsertFixture(ctx, item)
}

// countingWriter records every insert issued by the resolver and mapper.
type countingWriter struct {
	generation.Writer
	leagueInserts map[int64]int
	teamInserts   map[int64]int
}

func (w *countingWriter) InsertLeague(ctx context.Context, item league.League) (league.League, error) {
	w.leagueInserts[item.ExternalID]++
	return w.Writer.InsertLeague(ctx, item)
}

func (w *countingWriter) InsertTeam(ctx context.Context, item team.Team) (team.Team, error) {
	w.teamInserts[item.ExternalID]++
	return w.Writer.InsertTeam(ctx, item)
}

func intPtr(v int) *int {
	return &v
}

var testKickoff = time.Date(2026, 10, 16, 19, 30, 0, 0, time.UTC)

func testItem(fixtureID, leagueID int64, leagueName, country string, homeID, awayID int64, status string) ExternalFixtureItem {
	return ExternalFixtureItem{
		Fixture: &ExternalFixtureInfo{
			ID:          fixtureID,
			Date:        testKickoff.Add(time.Duration(fixtureID) * time.Minute).Format(time.RFC3339),
			StatusShort: status,
			Venue:       "Stadium " + fmt.Sprint(homeID),
		},
		League: &ExternalLeagueInfo{ID: leagueID, Name: leagueName, Country: country, Season: 2026},
		Teams: &ExternalTeamsPair{
			Home: &ExternalTeamInfo{ID: homeID, Name: fmt.Sprintf("Team %d", homeID)},
			Away: &ExternalTeamInfo{ID: awayID, Name: fmt.Sprintf("Team %d", awayID)},
		},
		Goals: ExternalGoals{Home: intPtr(1), Away: intPtr(0)},
	}
}

func generatedItems(n int) []ExternalFixtureItem {
	out := make([]ExternalFixtureItem, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, testItem(int64(100+i), int64(i%3+1), fmt.Sprintf("League %d", i%3+1), "Testland", int64(2*i), int64(2*i+1), "NS"))
	}
	return out
}

type storeFunc func(ctx context.Context, build generation.BuildFunc) (generation.PurgeStats, error)

func (f storeFunc) Replace(ctx context.Context, build generation.BuildFunc) (generation.PurgeStats, error) {
	return f(ctx, build)
}

type blockingProvider struct {
	entered chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (p *blockingProvider) FetchFixtures(_ context.Context, _ map[string]string) ([]ExternalFixtureItem, error) {
	if p.calls.Add(1) == 1 {
		close(p.entered)
	}
	<-p.release
	return generatedItems(1), nil
}

type overlapProvider struct {
	items     []ExternalFixtureItem
	calls     atomic.Int32
	active    atomic.Int32
	maxActive atomic.Int32
}

func (p *overlapProvider) FetchFixtures(_ context.Context, _ map[string]string) ([]ExternalFixtureItem, error) {
	p.calls.Add(1)
	current := p.active.Add(1)
	defer p.active.Add(-1)
	for {
		seen := p.maxActive.Load()
		if current <= seen || p.maxActive.CompareAndSwap(seen, current) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	return append([]ExternalFixtureItem(nil), p.items...), nil
}
