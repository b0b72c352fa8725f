package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
	"github.com/eshaffer321/growthplan-backend/internal/infrastructure/lock"
	"github.com/eshaffer321/growthplan-backend/internal/infrastructure/logging"
	"github.com/eshaffer321/growthplan-backend/internal/infrastructure/storage"
)

// Recompute triggers recorded on each run.
const (
	TriggerBudgetCreate    = "budget.create"
	TriggerBudgetUpdate    = "budget.update"
	TriggerBudgetDelete    = "budget.delete"
	TriggerAdProductCreate = "ad_product.create"
	TriggerAdProductUpdate = "ad_product.update"
	TriggerAdProductDelete = "ad_product.delete"
	TriggerManual          = "manual"
	TriggerRetry           = "retry"
)

// Options tunes the planner.
type Options struct {
	// DefaultCurrency fills budget entries that omit a currency.
	DefaultCurrency string
	// RedistributeConcurrency bounds RedistributeAll fan-out.
	RedistributeConcurrency int
}

// PlannerService owns budget allocation for the growth plan. Every mutating
// call persists its change and then recomputes the affected periods.
type PlannerService struct {
	repo   storage.Repository
	locker lock.Locker
	logger *slog.Logger
	opts   Options
	now    func() time.Time
}

// NewPlannerService creates a planner over repo. A nil locker serializes
// periods within this process only; a nil logger discards output.
func NewPlannerService(repo storage.Repository, locker lock.Locker, logger *slog.Logger, opts Options) *PlannerService {
	if locker == nil {
		locker = lock.NewLocalLocker(5 * time.Second)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "BDT"
	}
	opts.DefaultCurrency = strings.ToUpper(opts.DefaultCurrency)
	if opts.RedistributeConcurrency <= 0 {
		opts.RedistributeConcurrency = 4
	}
	return &PlannerService{
		repo:   repo,
		locker: locker,
		logger: logger,
		opts:   opts,
		now:    time.Now,
	}
}

// normalizePeriod canonicalizes the month name and checks the year.
func normalizePeriod(p planning.Period) (planning.Period, error) {
	return planning.ParsePeriod(p.Month, p.Year)
}

// recomputeAfter recomputes each distinct period touched by a mutation.
// Failures are recorded on the returned runs rather than failing the
// mutation, which has already been persisted.
func (s *PlannerService) recomputeAfter(ctx context.Context, trigger string, periods ...planning.Period) []storage.RecomputeRun {
	var (
		runs []storage.RecomputeRun
		seen []planning.Period
	)
	for _, p := range periods {
		dup := false
		for _, q := range seen {
			if q.Equal(p) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		seen = append(seen, p)

		run, err := s.recompute(ctx, p, trigger, nil)
		if err != nil {
			s.logger.Warn("recompute after mutation failed",
				"period", p.String(),
				"trigger", trigger,
				"error", err,
			)
		}
		if run != nil {
			runs = append(runs, *run)
		}
	}
	return runs
}
