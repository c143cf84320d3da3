package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/robfig/cron/v3"

	"github.com/riskibarqy/matchday-catalog/internal/domain/syncrun"
	"github.com/riskibarqy/matchday-catalog/internal/platform/logging"
	"github.com/riskibarqy/matchday-catalog/internal/usecase"
)

const (
	TriggerSchedule = "scheduler"
	TriggerStartup  = "startup"

	defaultDailySpec  = "0 0 * * *"
	defaultHourlySpec = "0 * * * *"
	dateParamLayout   = "2006-01-02"
)

// Syncer runs one fixture sync pass.
type Syncer interface {
	Sync(ctx context.Context, req usecase.SyncRequest) usecase.SyncResult
}

type Config struct {
	DailySpec    string
	HourlySpec   string
	Season       string
	Workers      int
	RunOnStartup bool
}

// Scheduler fires daily and hourly fixture syncs on UTC cron schedules and
// runs each pass on a bounded worker pool.
type Scheduler struct {
	cfg    Config
	syncer Syncer
	logger *logging.Logger
	cron   *cron.Cron
	pool   *ants.Pool
	now    func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	jobs   sync.WaitGroup
}

func New(cfg Config, syncer Syncer, logger *logging.Logger) (*Scheduler, error) {
	if syncer == nil {
		return nil, fmt.Errorf("syncer is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.With("component", "sync_scheduler")

	if strings.TrimSpace(cfg.DailySpec) == "" {
		cfg.DailySpec = defaultDailySpec
	}
	if strings.TrimSpace(cfg.HourlySpec) == "" {
		cfg.HourlySpec = defaultHourlySpec
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	pool, err := ants.NewPool(cfg.Workers,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(p any) {
			logger.Error("fixture sync job panicked", "panic", fmt.Sprint(p))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	cronLog := cronLogger{logger: logger}
	s := &Scheduler{
		cfg:    cfg,
		syncer: syncer,
		logger: logger,
		pool:   pool,
		now:    time.Now,
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog)),
		),
	}

	if _, err := s.cron.AddFunc(cfg.DailySpec, func() { s.dispatch(syncrun.ModeDaily, TriggerSchedule) }); err != nil {
		pool.Release()
		return nil, fmt.Errorf("schedule daily sync %q: %w", cfg.DailySpec, err)
	}
	if _, err := s.cron.AddFunc(cfg.HourlySpec, func() { s.dispatch(syncrun.ModeHourly, TriggerSchedule) }); err != nil {
		pool.Release()
		return nil, fmt.Errorf("schedule hourly sync %q: %w", cfg.HourlySpec, err)
	}

	return s, nil
}

// Start begins firing schedules. Jobs run under ctx until Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.cron.Start()
	s.logger.InfoContext(ctx, "fixture sync scheduler started",
		"daily_cron", s.cfg.DailySpec,
		"hourly_cron", s.cfg.HourlySpec,
		"workers", s.cfg.Workers,
	)

	if s.cfg.RunOnStartup {
		s.dispatch(syncrun.ModeDaily, TriggerStartup)
	}
}

// Stop halts the cron host and waits for dispatched passes, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	cronDone := s.cron.Stop()
	if s.cancel != nil {
		s.cancel()
	}

	jobsDone := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.jobs.Wait()
		close(jobsDone)
	}()

	defer s.pool.Release()
	select {
	case <-jobsDone:
		s.logger.InfoContext(ctx, "fixture sync scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for running sync jobs: %w", ctx.Err())
	}
}

// Trigger submits one pass for mode onto the worker pool without waiting.
func (s *Scheduler) Trigger(mode syncrun.Mode, trigger string) error {
	return s.submit(mode, trigger)
}

func (s *Scheduler) dispatch(mode syncrun.Mode, trigger string) {
	if err := s.submit(mode, trigger); err != nil {
		s.logger.Warn("fixture sync job not dispatched", "mode", string(mode), "trigger", trigger, "error", err)
	}
}

func (s *Scheduler) submit(mode syncrun.Mode, trigger string) error {
	ctx := s.ctx
	if ctx == nil {
		return fmt.Errorf("scheduler not started")
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	req := usecase.SyncRequest{
		Mode:    mode,
		Trigger: trigger,
		Params:  s.paramsFor(mode),
	}

	s.jobs.Add(1)
	err := s.pool.Submit(func() {
		defer s.jobs.Done()
		s.run(ctx, req)
	})
	if err != nil {
		s.jobs.Done()
		if errors.Is(err, ants.ErrPoolOverload) {
			return fmt.Errorf("all sync workers busy: %w", err)
		}
		return fmt.Errorf("submit sync job: %w", err)
	}
	return nil
}

func (s *Scheduler) run(ctx context.Context, req usecase.SyncRequest) {
	start := s.now()
	result := s.syncer.Sync(ctx, req)

	args := []any{
		"run_id", result.RunID,
		"mode", string(req.Mode),
		"trigger", req.Trigger,
		"status", string(result.Status),
		"items_processed", result.ItemsProcessed,
		"duration", s.now().Sub(start).String(),
	}
	if result.Failed() {
		s.logger.ErrorContext(ctx, "scheduled fixture sync failed", append(args, "message", result.Message)...)
		return
	}
	s.logger.InfoContext(ctx, "scheduled fixture sync finished", args...)
}

func (s *Scheduler) paramsFor(mode syncrun.Mode) map[string]string {
	switch mode {
	case syncrun.ModeHourly:
		return HourlyParams()
	default:
		return DailyParams(s.now(), s.cfg.Season)
	}
}

// DailyParams requests every fixture for the UTC calendar day of now.
func DailyParams(now time.Time, season string) map[string]string {
	params := map[string]string{
		"date": now.UTC().Format(dateParamLayout),
	}
	if season = strings.TrimSpace(season); season != "" {
		params["season"] = season
	}
	return params
}

// HourlyParams requests fixtures currently in play.
func HourlyParams() map[string]string {
	return map[string]string{"live": "all"}
}
