// Package jobs runs the planner's scheduled work.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/eshaffer321/growthplan-backend/internal/application/service"
	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
	"github.com/eshaffer321/growthplan-backend/internal/infrastructure/logging"
)

// DefaultRedistributeSpec runs shortly after midnight.
const DefaultRedistributeSpec = "5 0 * * *"

// jobTimeout bounds a single nightly run.
const jobTimeout = 30 * time.Minute

// Redistributor replans a period's daily targets.
type Redistributor interface {
	RedistributeAll(ctx context.Context, period planning.Period, asOfDay int) (*service.BatchResult, error)
}

// Scheduler redistributes every product of the current month each night,
// treating yesterday as the last day with recorded sales.
type Scheduler struct {
	cron    *cron.Cron
	planner Redistributor
	logger  *slog.Logger
	now     func() time.Time
}

// NewScheduler registers the nightly job under spec. An empty spec uses
// DefaultRedistributeSpec.
func NewScheduler(planner Redistributor, logger *slog.Logger, spec string) (*Scheduler, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	if spec == "" {
		spec = DefaultRedistributeSpec
	}

	cl := cronLogger{logger: logger}
	s := &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cl),
			cron.SkipIfStillRunning(cl),
		)),
		planner: planner,
		logger:  logger,
		now:     time.Now,
	}

	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("schedule redistribution %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the scheduler in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.logger.Info("scheduler started", "next_run", e.Next.Format(time.RFC3339))
	}
}

// Stop prevents new runs and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce redistributes the current month as of yesterday. On the first of
// a month the whole month is planned.
func (s *Scheduler) RunOnce(ctx context.Context) (*service.BatchResult, error) {
	now := s.now()
	period := planning.PeriodOf(now)
	asOfDay := now.Day() - 1

	start := time.Now()
	result, err := s.planner.RedistributeAll(ctx, period, asOfDay)
	if err != nil {
		return nil, fmt.Errorf("redistribute %s: %w", period.String(), err)
	}
	s.logger.Info("nightly redistribution complete",
		"period", period.String(),
		"as_of_day", asOfDay,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return result, nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.RunOnce(ctx); err != nil {
		s.logger.Error("nightly redistribution failed", "error", err)
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
