package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/matchday-catalog/internal/domain/generation"
	"github.com/riskibarqy/matchday-catalog/internal/domain/syncrun"
	"github.com/riskibarqy/matchday-catalog/internal/platform/id"
	"github.com/riskibarqy/matchday-catalog/internal/platform/logging"
	"github.com/riskibarqy/matchday-catalog/internal/platform/resilience"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultRunListLimit = 20
	maxRunListLimit     = 200
)

type FixtureSyncConfig struct {
	InterestedLeagues []InterestedLeague
	DefaultParams     map[string]string
}

type SyncRequest struct {
	Mode    syncrun.Mode
	Trigger string
	Params  map[string]string
}

type passStats struct {
	fixtures int
	leagues  int
	teams    int
	skipped  int
}

type FixtureSyncService struct {
	provider FixtureProvider
	store    generation.Store
	runRepo  syncrun.Repository
	idGen    id.Generator
	cfg      FixtureSyncConfig
	logger   *logging.Logger
	now      func() time.Time

	mu     sync.Mutex
	flight resilience.SingleFlight
}

func NewFixtureSyncService(
	provider FixtureProvider,
	store generation.Store,
	runRepo syncrun.Repository,
	idGen id.Generator,
	cfg FixtureSyncConfig,
	logger *logging.Logger,
) *FixtureSyncService {
	if idGen == nil {
		idGen = id.NewUUIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &FixtureSyncService{
		provider: provider,
		store:    store,
		runRepo:  runRepo,
		idGen:    idGen,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Sync runs one full pass: fetch, filter, resolve, map and replace. Passes are
// serialized and identical concurrent requests share a single pass. Failures
// are reported through the result, never as an error.
func (s *FixtureSyncService) Sync(ctx context.Context, req SyncRequest) SyncResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureSyncService.Sync")
	defer span.End()

	if !req.Mode.Valid() {
		req.Mode = syncrun.ModeManual
	}
	if strings.TrimSpace(req.Trigger) == "" {
		req.Trigger = string(req.Mode)
	}
	params := s.mergeParams(req.Params)

	value, _, shared := s.flight.Do(flightKey(req.Mode, params), func() (any, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.runPass(ctx, req, params), nil
	})
	result := value.(SyncResult)
	if shared {
		s.logger.InfoContext(ctx, "joined in-flight fixture sync", "run_id", result.RunID, "mode", req.Mode, "trigger", req.Trigger)
	}

	span.SetAttributes(
		attribute.String("sync.mode", string(req.Mode)),
		attribute.String("sync.status", string(result.Status)),
		attribute.Int("sync.items_processed", result.ItemsProcessed),
	)
	return result
}

func (s *FixtureSyncService) ListRuns(ctx context.Context, limit int) ([]syncrun.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureSyncService.ListRuns")
	defer span.End()

	if s.runRepo == nil {
		return nil, fmt.Errorf("%w: sync run repository is not configured", ErrDependencyUnavailable)
	}
	if limit < 0 || limit > maxRunListLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, maxRunListLimit)
	}
	if limit == 0 {
		limit = defaultRunListLimit
	}

	items, err := s.runRepo.ListLatest(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	return items, nil
}

func (s *FixtureSyncService) GetRun(ctx context.Context, runID string) (syncrun.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureSyncService.GetRun")
	defer span.End()

	runID = strings.TrimSpace(runID)
	if runID == "" {
		return syncrun.Run{}, fmt.Errorf("%w: run id is required", ErrInvalidInput)
	}
	if s.runRepo == nil {
		return syncrun.Run{}, fmt.Errorf("%w: sync run repository is not configured", ErrDependencyUnavailable)
	}

	item, exists, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return syncrun.Run{}, fmt.Errorf("get sync run: %w", err)
	}
	if !exists {
		return syncrun.Run{}, fmt.Errorf("%w: sync run=%s", ErrNotFound, runID)
	}
	return item, nil
}

func (s *FixtureSyncService) runPass(ctx context.Context, req SyncRequest, params map[string]string) SyncResult {
	startedAt := s.now().UTC()
	runID := s.newRunID(startedAt)
	logger := s.logger.With("run_id", runID, "mode", string(req.Mode), "trigger", req.Trigger)

	logger.InfoContext(ctx, "fixture sync started", "params", params)
	result := s.execute(ctx, logger, params)
	result.RunID = runID
	finishedAt := s.now().UTC()

	if result.Failed() {
		logger.ErrorContext(ctx, "fixture sync failed", "message", result.Message, "duration", finishedAt.Sub(startedAt))
	} else {
		logger.InfoContext(ctx, "fixture sync finished",
			"status", result.Status,
			"items_processed", result.ItemsProcessed,
			"items_skipped", result.ItemsSkipped,
			"duration", finishedAt.Sub(startedAt),
		)
	}

	s.recordRun(ctx, logger, syncrun.Run{
		RunID:          runID,
		Mode:           req.Mode,
		Trigger:        req.Trigger,
		Params:         params,
		Status:         result.Status,
		Message:        result.Message,
		ItemsProcessed: result.ItemsProcessed,
		ItemsSkipped:   result.ItemsSkipped,
		FallbackUsed:   result.FallbackApplied,
		StartedAt:      startedAt,
		FinishedAt:     finishedAt,
		TraceID:        traceIDFromContext(ctx),
	})
	return result
}

func (s *FixtureSyncService) execute(ctx context.Context, logger *logging.Logger, params map[string]string) SyncResult {
	items, err := s.provider.FetchFixtures(ctx, params)
	if err != nil {
		if !errors.Is(err, ErrProviderTransport) {
			err = fmt.Errorf("%w: %w", ErrProviderTransport, err)
		}
		return reportError(err)
	}

	outcome := FilterInterestedLeagues(items, s.cfg.InterestedLeagues)
	if outcome.FallbackApplied && len(items) > 0 {
		logger.WarnContext(ctx, "league filter fallback applied",
			"reason", outcome.Reason,
			"raw_items", len(items),
			"kept_items", len(outcome.Items),
		)
	}

	var stats passStats
	purged, err := s.store.Replace(ctx, func(ctx context.Context, w generation.Writer) error {
		stats = passStats{}
		return s.buildGeneration(ctx, logger, w, outcome.Items, &stats)
	})
	if err != nil {
		if !errors.Is(err, ErrPersistence) {
			err = fmt.Errorf("%w: %w", ErrPersistence, err)
		}
		return reportError(err)
	}

	logger.InfoContext(ctx, "fixture generation replaced",
		"purged_highlights", purged.Highlights,
		"purged_fixtures", purged.Fixtures,
		"purged_teams", purged.Teams,
		"purged_leagues", purged.Leagues,
		"inserted_leagues", stats.leagues,
		"inserted_teams", stats.teams,
		"inserted_fixtures", stats.fixtures,
	)

	var result SyncResult
	switch {
	case len(items) == 0:
		result = reportNoData("provider returned no fixtures")
	case stats.fixtures == 0:
		result = reportNoData("no provider item could be mapped")
	default:
		result = reportSuccess(stats.fixtures)
	}
	result.ItemsSkipped = stats.skipped
	result.FallbackApplied = outcome.FallbackApplied
	return result
}

func (s *FixtureSyncService) buildGeneration(
	ctx context.Context,
	logger *logging.Logger,
	w generation.Writer,
	items []ExternalFixtureItem,
	stats *passStats,
) error {
	resolver := newEntityResolver(w)
	seenFixtures := make(map[int64]struct{}, len(items))

	for idx, item := range items {
		if reason := itemSkipReason(item); reason != "" {
			logger.WarnContext(ctx, "skip malformed fixture item", "index", idx, "reason", reason)
			stats.skipped++
			continue
		}
		if _, ok := seenFixtures[item.Fixture.ID]; ok {
			logger.WarnContext(ctx, "skip duplicate fixture item", "index", idx, "fixture_external_id", item.Fixture.ID)
			stats.skipped++
			continue
		}

		lg, err := resolver.resolveLeague(ctx, *item.League)
		if err != nil {
			return err
		}
		home, err := resolver.resolveTeam(ctx, *item.Teams.Home)
		if err != nil {
			return err
		}
		away, err := resolver.resolveTeam(ctx, *item.Teams.Away)
		if err != nil {
			return err
		}

		mapped, err := MapFixture(item, lg, home, away)
		if err != nil {
			logger.WarnContext(ctx, "skip unmappable fixture item", "index", idx, "error", err)
			stats.skipped++
			continue
		}
		if _, err := w.InsertFixture(ctx, mapped); err != nil {
			return fmt.Errorf("insert fixture external_id=%d: %w", mapped.ExternalID, err)
		}
		seenFixtures[mapped.ExternalID] = struct{}{}
		stats.fixtures++
	}

	stats.leagues, stats.teams = resolver.counts()
	return nil
}

func (s *FixtureSyncService) recordRun(ctx context.Context, logger *logging.Logger, run syncrun.Run) {
	if s.runRepo == nil {
		return
	}

	if err := s.runRepo.Insert(context.WithoutCancel(ctx), run); err != nil {
		logger.WarnContext(ctx, "record sync run failed", "error", err)
	}
}

func (s *FixtureSyncService) newRunID(now time.Time) string {
	value, err := s.idGen.NewID()
	if err != nil || strings.TrimSpace(value) == "" {
		return fmt.Sprintf("run-%d", now.UnixNano())
	}
	return value
}

func (s *FixtureSyncService) mergeParams(overrides map[string]string) map[string]string {
	out := make(map[string]string, len(s.cfg.DefaultParams)+len(overrides))
	for _, source := range []map[string]string{s.cfg.DefaultParams, overrides} {
		for key, value := range source {
			key = strings.TrimSpace(key)
			value = strings.TrimSpace(value)
			if key == "" || value == "" {
				continue
			}
			out[key] = value
		}
	}
	return out
}

func flightKey(mode syncrun.Mode, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(string(mode))
	for _, key := range keys {
		b.WriteByte('|')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(params[key])
	}
	return b.String()
}

func traceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.HasTraceID() {
		return ""
	}
	return spanCtx.TraceID().String()
}
