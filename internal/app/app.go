package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/matchday-catalog/external/apifootball"
	"github.com/riskibarqy/matchday-catalog/internal/config"
	"github.com/riskibarqy/matchday-catalog/internal/domain/generation"
	"github.com/riskibarqy/matchday-catalog/internal/domain/syncrun"
	cacherepo "github.com/riskibarqy/matchday-catalog/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/matchday-catalog/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/matchday-catalog/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/matchday-catalog/internal/interfaces/httpapi"
	"github.com/riskibarqy/matchday-catalog/internal/platform/cache"
	"github.com/riskibarqy/matchday-catalog/internal/platform/id"
	"github.com/riskibarqy/matchday-catalog/internal/platform/logging"
	"github.com/riskibarqy/matchday-catalog/internal/platform/resilience"
	"github.com/riskibarqy/matchday-catalog/internal/scheduler"
	"github.com/riskibarqy/matchday-catalog/internal/usecase"
)

const dbPingTimeout = 5 * time.Second

// App holds the wired HTTP server, the optional cron host and the resources
// they share.
type App struct {
	Server    *http.Server
	Scheduler *scheduler.Scheduler
	SyncSvc   *usecase.FixtureSyncService

	db *sqlx.DB
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	store, runRepo, db, err := newStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if cfg.CacheEnabled {
		runRepo = cacherepo.NewSyncRunRepository(runRepo, cache.NewStore(cfg.CacheTTL))
	}

	provider := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:      cfg.ProviderBaseURL,
		APIKey:       cfg.ProviderAPIKey,
		APIHost:      cfg.ProviderAPIHost,
		Timeout:      cfg.ProviderTimeout,
		MaxRetries:   cfg.ProviderMaxRetries,
		RetryBackoff: cfg.ProviderRetryBackoff,
		Logger:       logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ProviderCircuitEnabled,
			FailureThreshold: cfg.ProviderCircuitFailureCount,
			OpenTimeout:      cfg.ProviderCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ProviderCircuitHalfOpenMax,
		},
	})

	syncSvc := usecase.NewFixtureSyncService(
		provider,
		store,
		runRepo,
		id.NewUUIDGenerator(),
		usecase.FixtureSyncConfig{
			InterestedLeagues: interestedLeagues(cfg.InterestedLeagues),
			DefaultParams:     cfg.ProviderDefaultParams,
		},
		logger,
	)

	a := &App{SyncSvc: syncSvc, db: db}

	if cfg.SyncSchedulerEnabled {
		sched, err := scheduler.New(scheduler.Config{
			DailySpec:    cfg.SyncDailyCron,
			HourlySpec:   cfg.SyncHourlyCron,
			Season:       cfg.SyncSeason,
			Workers:      cfg.SyncWorkers,
			RunOnStartup: cfg.SyncRunOnStartup,
		}, syncSvc, logger)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("build sync scheduler: %w", err)
		}
		a.Scheduler = sched
	}

	handler := httpapi.NewHandler(syncSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if a.Server.Addr == "" {
		_ = a.Close()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return a, nil
}

func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

func newStorage(ctx context.Context, cfg config.Config, logger *logging.Logger) (generation.Store, syncrun.Repository, *sqlx.DB, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.WarnContext(ctx, "using in-memory storage, catalog is lost on restart")
		return memory.NewGenerationRepository(), memory.NewSyncRunRepository(), nil, nil
	}

	db, err := openPostgres(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.InfoContext(ctx, "postgres connected", "db_name", dbNameFromURL(cfg.DBURL))

	return postgres.NewGenerationRepository(db), postgres.NewSyncRunRepository(db), db, nil
}

func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	opts := []otelsql.Option{
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	}
	if name := dbNameFromURL(dsn); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}

	db, err := otelsqlx.Open("postgres", dsn, opts...)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

func interestedLeagues(in []config.InterestedLeague) []usecase.InterestedLeague {
	out := make([]usecase.InterestedLeague, 0, len(in))
	for _, item := range in {
		out = append(out, usecase.InterestedLeague{Name: item.Name, Country: item.Country})
	}
	return out
}
