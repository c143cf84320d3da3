package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/matchday-catalog/internal/domain/generation"
	"github.com/riskibarqy/matchday-catalog/internal/domain/highlight"
	"github.com/riskibarqy/matchday-catalog/internal/domain/syncrun"
	"github.com/riskibarqy/matchday-catalog/internal/infrastructure/repository/memory"
	generationmock "github.com/riskibarqy/matchday-catalog/internal/mocks/domain/generation"
	syncrunmock "github.com/riskibarqy/matchday-catalog/internal/mocks/domain/syncrun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var mocklandLeagues = []InterestedLeague{{Name: "Super League", Country: "Mockland"}}

func newTestSyncService(provider FixtureProvider, store generation.Store, interested []InterestedLeague) (*FixtureSyncService, *memory.SyncRunRepository) {
	runs := memory.NewSyncRunRepository()
	svc := NewFixtureSyncService(provider, store, runs, &sequentialIDs{}, FixtureSyncConfig{
		InterestedLeagues: interested,
	}, nil)
	return svc, runs
}

func TestFixtureSyncService_ScenarioA_AllowListMatch(t *testing.T) {
	t.Parallel()

	provider := &stubFixtureProvider{items: []ExternalFixtureItem{
		testItem(1, 10, "Super League", "Mockland", 1, 2, "NS"),
		testItem(2, 20, "Other League", "Otherland", 3, 4, "NS"),
	}}
	store := memory.NewGenerationRepository()
	svc, _ := newTestSyncService(provider, store, mocklandLeagues)

	result := svc.Sync(context.Background(), SyncRequest{Mode: syncrun.ModeManual})

	require.Equal(t, syncrun.StatusSuccess, result.Status, result.Message)
	assert.Equal(t, 1, result.ItemsProcessed)
	assert.False(t, result.FallbackApplied)
	assert.Equal(t, generation.Counts{Leagues: 1, Teams: 2, Fixtures: 1}, store.Counts())
}

func TestFixtureSyncService_ScenarioB_FallbackKeepsFirstTen(t *testing.T) {
	t.Parallel()

	items := generatedItems(15)
	provider := &stubFixtureProvider{items: items}
	store := memory.NewGenerationRepository()
	svc, _ := newTestSyncService(provider, store, nil)

	result := svc.Sync(context.Background(), SyncRequest{Mode: syncrun.ModeDaily})

	require.Equal(t, syncrun.StatusSuccess, result.Status, result.Message)
	assert.Equal(t, 10, result.ItemsProcessed)
	assert.True(t, result.FallbackApplied)

	fixtures, err := store.ListFixtures(context.Background())
	require.NoError(t, err)
	require.Len(t, fixtures, 10)
	for i, item := range fixtures {
		assert.Equal(t, items[i].Fixture.ID, item.ExternalID, "fixture order at index %d", i)
	}
}

func TestFixtureSyncService_ScenarioC_LiveClassification(t *testing.T) {
	t.Parallel()

	provider := &stubFixtureProvider{items: []ExternalFixtureItem{
		testItem(1, 10, "Super League", "Mockland", 1, 2, "1H"),
		testItem(2, 10, "Super League", "Mockland", 3, 4, "FT"),
		testItem(3, 10, "Super League", "Mockland", 5, 6, "WEIRD"),
	}}
	store := memory.NewGenerationRepository()
	svc, _ := newTestSyncService(provider, store, mocklandLeagues)

	result := svc.Sync(context.Background(), SyncRequest{Mode: syncrun.ModeHourly})
	require.Equal(t, syncrun.StatusSuccess, result.Status, result.Message)

	fixtures, err := store.ListFixtures(context.Background())
	require.NoError(t, err)
	live := make(map[int64]bool, len(fixtures))
	for _, item := range fixtures {
		live[item.ExternalID] = item.Status.IsLive
	}
	assert.Equal(t, map[int64]bool{1: true, 2: false, 3: false}, live)
}

func TestFixtureSyncService_DeduplicatesLeaguesAndTeams(t *testing.T) {
	t.Parallel()

	provider := &stubFixtureProvider{items: []ExternalFixtureItem{
		testItem(1, 10, "Super League", "Mockland", 1, 2, "NS"),
		testItem(2, 10, "Super League", "Mockland", 2, 3, "NS"),
		testItem(3, 10, "Super League", "Mockland", 3, 1, "NS"),
	}}
	base := memory.NewGenerationRepository()
	counting := &countingWriter{leagueInserts: map[int64]int{}, teamInserts: map[int64]int{}}
	store := storeFunc(func(ctx context.Context, build generation.BuildFunc) (generation.PurgeStats, error) {
		return base.Replace(ctx, func(ctx context.Context, w generation.Writer) error {
			counting.Writer = w
			return build(ctx, counting)
		})
	})
	svc, _ := newTestSyncService(provider, store, mocklandLeagues)

	result := svc.Sync(context.Background(), SyncRequest{Mode: syncrun.ModeManual})
	require.Equal(t, syncrun.StatusSuccess, result.Status, result.Message)

	assert.Equal(t, map[int64]int{10: 1}, counting.leagueInserts)
	assert.Equal(t, map[int64]int{1: 1, 2: 1, 3: 1}, counting.teamInserts)

	leagues, _ := base.ListLeagues(context.Background())
	teams, _ := base.ListTeams(context.Background())
	fixtures, _ := base.ListFixtures(context.Background())
	leagueIDs := map[int64]struct{}{}
	for _, item := range leagues {
		leagueIDs[item.ID] = struct{}{}
	}
	teamIDs := map[int64]struct{}{}
	for _, item := range teams {
		teamIDs[item.ID] = struct{}{}
	}
	for _, item := range fixtures {
		assert.Contains(t, leagueIDs, item.LeagueID)
		assert.Contains(t, teamIDs, item.HomeTeamID)
		assert.Contains(t, teamIDs, item.AwayTeamID)
	}
}

func TestFixtureSyncService_IdempotentRowCounts(t *testing.T) {
	t.Parallel()

	provider := &stubFixtureProvider{items: generatedItems(7)}
	store := memory.NewGenerationRepository()
	svc, _ := newTestSyncService(provider, store, nil)

	first := svc.Sync(context.Background(), SyncRequest{Mode: syncrun.ModeDaily})
	firstCounts := store.Counts()
	second := svc.Sync(context.Background(), SyncRequest{Mode: syncrun.ModeDaily})

	require.Equal(t, syncrun.StatusSuccess, first.Status)
	require.Equal(t, syncrun.StatusSuccess, second.Status)
	assert.Equal(t, firstCounts, store.Counts())
	assert.Equal(t, first.ItemsProcessed, second.ItemsProcessed)
	assert.Equal(t, 2, provider.callCount())
}

func TestFixtureSyncService_TransportErrorKeepsData(t *testing.T) {
	t.Parallel()

	provider := &stubFixtureProvider{items: generatedItems(3)}
	store := memory.NewGenerationRepository()
	svc, runs := newTestSyncService(provider, store, nil)

	require.Equal(t, syncrun.StatusSuccess, svc.Sync(context.Background(), SyncRequest{Mode: syncrun.ModeDaily}).Status)
	fixtures, _ := store.ListFixtures(context.Background())
	_, err := store.AddHighlight(context.Background(), highlight.Highlight{FixtureID: fixtures[0].ID, Title: "Recap"})
	require.NoError(t, err)
	before := store.Counts()

	provider.mu.Lock()
	provider.err = errors.New("dial tcp: connection refused")
	provider.mu.Unlock()

	result := svc.Sync(context.Background(), SyncRequest{Mode: syncrun.ModeDaily})

	assert.Equal(t, syncrun.StatusError, result.Status)
	assert.Equal(t, 0, result.ItemsProcessed)
	assert.Contains(t, result.Message, "connection refused")
	assert.Equal(t, before, store.Counts())
	assert.Equal(t, 1, store.CountHighlights())

	recorded, ok, err := runs.GetByID(context.Background(), result.RunID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, syncrun.StatusError, recorded.Status)
}

func TestFixtureSyncService_EmptyResponseClearsData(t *testing.T) {
	t.Parallel()

	provider := &stubFixtureProvider{items: generatedItems(4)}
	store := memory.NewGenerationRepository()
	svc, _ := newTestSyncService(provider, store, nil)
	require.Equal(t, syncrun.StatusSuccess, svc.Sync(context.Background(), SyncRequest{}).Status)

	provider.mu.Lock()
	provider.items = nil
	provider.mu.Unlock()

	result := svc.Sync(context.Background(), SyncRequest{})

	assert.Equal(t, syncrun.StatusNoData, result.Status)
	assert.Equal(t, 0, result.ItemsProcessed)
	assert.Equal(t, generation.Counts{}, store.Counts())
}

func TestFixtureSyncService_MalformedItemsAreSkipped(t *testing.T) {
	t.Parallel()

	broken := testItem(2, 10, "Super League", "Mockland", 3, 4, "NS")
	broken.Teams = nil
	duplicate := testItem(1, 10, "Super League", "Mockland", 1, 2, "FT")
	provider := &stubFixtureProvider{items: []ExternalFixtureItem{
		testItem(1, 10, "Super League", "Mockland", 1, 2, "NS"),
		broken,
		duplicate,
	}}
	store := memory.NewGenerationRepository()
	svc, _ := newTestSyncService(provider, store, mocklandLeagues)

	result := svc.Sync(context.Background(), SyncRequest{})

	require.Equal(t, syncrun.StatusSuccess, result.Status, result.Message)
	assert.Equal(t, 1, result.ItemsProcessed)
	assert.Equal(t, 2, result.ItemsSkipped)
	assert.Equal(t, generation.Counts{Leagues: 1, Teams: 2, Fixtures: 1}, store.Counts())
}

func TestFixtureSyncService_OnlyMalformedItemsReportsNoData(t *testing.T) {
	t.Parallel()

	broken := testItem(1, 10, "Super League", "Mockland", 1, 2, "NS")
	broken.Fixture = nil
	provider := &stubFixtureProvider{items: []ExternalFixtureItem{broken}}
	store := memory.NewGenerationRepository()
	svc, _ := newTestSyncService(provider, store, nil)

	result := svc.Sync(context.Background(), SyncRequest{})

	assert.Equal(t, syncrun.StatusNoData, result.Status)
	assert.Equal(t, 1, result.ItemsSkipped)
}

func TestFixtureSyncService_PersistenceErrorRollsBack(t *testing.T) {
	t.Parallel()

	provider := &stubFixtureProvider{items: generatedItems(2)}
	base := memory.NewGenerationRepository()
	svc, _ := newTestSyncService(provider, base, nil)
	require.Equal(t, syncrun.StatusSuccess, svc.Sync(context.Background(), SyncRequest{}).Status)
	before, _ := base.ListFixtures(context.Background())

	provider.mu.Lock()
	provider.items = generatedItems(5)
	provider.mu.Unlock()
	failing, _ := newTestSyncService(provider, &failingStore{inner: base, failOnFixture: 3}, nil)

	result := failing.Sync(context.Background(), SyncRequest{})

	assert.Equal(t, syncrun.StatusError, result.Status)
	assert.True(t, strings.Contains(result.Message, "rolled back"), result.Message)
	after, _ := base.ListFixtures(context.Background())
	assert.Equal(t, before, after)
}

func TestFixtureSyncService_StoreFailureIsPersistenceError(t *testing.T) {
	t.Parallel()

	store := generationmock.NewStore(t)
	store.
		On("Replace", mock.Anything, mock.AnythingOfType("generation.BuildFunc")).
		Return(generation.PurgeStats{}, errors.New("begin tx: connection refused")).
		Once()

	svc, runs := newTestSyncService(&stubFixtureProvider{items: generatedItems(3)}, store, nil)

	result := svc.Sync(context.Background(), SyncRequest{Mode: syncrun.ModeHourly, Trigger: "scheduler"})

	assert.Equal(t, syncrun.StatusError, result.Status)
	assert.Contains(t, result.Message, "changes rolled back")
	assert.Contains(t, result.Message, "connection refused")
	assert.Zero(t, result.ItemsProcessed)

	recorded, err := runs.ListLatest(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, syncrun.StatusError, recorded[0].Status)
}

func TestFixtureSyncService_MergesDefaultParams(t *testing.T) {
	t.Parallel()

	provider := &stubFixtureProvider{}
	svc := NewFixtureSyncService(provider, memory.NewGenerationRepository(), nil, nil, FixtureSyncConfig{
		DefaultParams: map[string]string{"timezone": "UTC", "season": "2025"},
	}, nil)

	svc.Sync(context.Background(), SyncRequest{Params: map[string]string{
		"season": "2026",
		" date ": " 2026-10-16 ",
		"league": "  ",
	}})

	require.Len(t, provider.params, 1)
	assert.Equal(t, map[string]string{"timezone": "UTC", "season": "2026", "date": "2026-10-16"}, provider.params[0])
}

func TestFixtureSyncService_CoalescesIdenticalRequests(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})
	provider := &blockingProvider{entered: entered, release: release}
	svc, _ := newTestSyncService(provider, memory.NewGenerationRepository(), nil)

	results := make([]SyncResult, 2)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0] = svc.Sync(context.Background(), SyncRequest{Mode: syncrun.ModeHourly, Params: map[string]string{"live": "all"}})
	}()
	<-entered

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1] = svc.Sync(context.Background(), SyncRequest{Mode: syncrun.ModeHourly, Params: map[string]string{"live": "all"}})
	}()
	time.Sleep(30 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), provider.calls.Load())
	assert.Equal(t, results[0].RunID, results[1].RunID)
}

func TestFixtureSyncService_SerializesDifferentRequests(t *testing.T) {
	t.Parallel()

	provider := &overlapProvider{items: generatedItems(2)}
	svc, _ := newTestSyncService(provider, memory.NewGenerationRepository(), nil)

	var wg sync.WaitGroup
	for _, date := range []string{"2026-10-14", "2026-10-15", "2026-10-16"} {
		wg.Add(1)
		go func(date string) {
			defer wg.Done()
			svc.Sync(context.Background(), SyncRequest{Mode: syncrun.ModeDaily, Params: map[string]string{"date": date}})
		}(date)
	}
	wg.Wait()

	assert.Equal(t, int32(3), provider.calls.Load())
	assert.Equal(t, int32(1), provider.maxActive.Load())
}

func TestFixtureSyncService_RecordsRunWithMockery(t *testing.T) {
	t.Parallel()

	runRepo := syncrunmock.NewRepository(t)
	provider := &stubFixtureProvider{items: generatedItems(1)}
	svc := NewFixtureSyncService(provider, memory.NewGenerationRepository(), runRepo, &sequentialIDs{}, FixtureSyncConfig{}, nil)

	runRepo.
		On("Insert", mock.Anything, mock.MatchedBy(func(run syncrun.Run) bool {
			return run.RunID == "run-001" &&
				run.Mode == syncrun.ModeDaily &&
				run.Trigger == "scheduler" &&
				run.Status == syncrun.StatusSuccess &&
				run.ItemsProcessed == 1 &&
				run.FallbackUsed &&
				!run.FinishedAt.Before(run.StartedAt)
		})).
		Return(errors.New("db down")).
		Once()

	result := svc.Sync(context.Background(), SyncRequest{Mode: syncrun.ModeDaily, Trigger: "scheduler"})

	assert.Equal(t, syncrun.StatusSuccess, result.Status)
	assert.Equal(t, "run-001", result.RunID)
}

func TestFixtureSyncService_ListAndGetRuns(t *testing.T) {
	t.Parallel()

	runRepo := syncrunmock.NewRepository(t)
	svc := NewFixtureSyncService(&stubFixtureProvider{}, memory.NewGenerationRepository(), runRepo, nil, FixtureSyncConfig{}, nil)

	runRepo.On("ListLatest", mock.Anything, defaultRunListLimit).Return([]syncrun.Run{{RunID: "a"}}, nil).Once()
	runRepo.On("GetByID", mock.Anything, "missing").Return(syncrun.Run{}, false, nil).Once()

	items, err := svc.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = svc.ListRuns(context.Background(), maxRunListLimit+1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetRun(context.Background(), " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
