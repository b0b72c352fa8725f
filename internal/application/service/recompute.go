package service

import (
	"context"
	"fmt"

	"github.com/eshaffer321/growthplan-backend/internal/domain/allocator"
	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
	"github.com/eshaffer321/growthplan-backend/internal/infrastructure/lock"
	"github.com/eshaffer321/growthplan-backend/internal/infrastructure/storage"
)

// RecomputePeriod redistributes the budget of period over its ad products
// and rewrites every product's targets in one transaction. The run is
// logged whether it succeeds or not; on failure both the failed run and
// the error are returned.
func (s *PlannerService) RecomputePeriod(ctx context.Context, period planning.Period, trigger string) (*storage.RecomputeRun, error) {
	p, err := normalizePeriod(period)
	if err != nil {
		return nil, err
	}
	if trigger == "" {
		trigger = TriggerManual
	}
	return s.recompute(ctx, p, trigger, nil)
}

// RetryRecompute re-runs a failed recompute from fresh snapshots. Retrying
// a completed run returns it unchanged. A run still marked running is
// retried only when its period lock is free, i.e. nothing is working on it.
func (s *PlannerService) RetryRecompute(ctx context.Context, runID int64) (*storage.RecomputeRun, error) {
	run, err := s.repo.GetRecomputeRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	switch run.Status {
	case storage.RecomputeCompleted:
		return run, nil
	case storage.RecomputeRunning:
		if err := s.abandonRun(ctx, run); err != nil {
			return run, err
		}
	}
	return s.recompute(ctx, run.Period, TriggerRetry, &run.ID)
}

// abandonRun marks an orphaned running run failed. It fails with
// planning.ErrLocked while another recompute holds the period.
func (s *PlannerService) abandonRun(ctx context.Context, run *storage.RecomputeRun) error {
	release, err := s.locker.Obtain(ctx, lock.PeriodKey(run.Period))
	if err != nil {
		return fmt.Errorf("recompute run %d is still running: %w", run.ID, err)
	}
	if err := release(context.WithoutCancel(ctx)); err != nil {
		s.logger.Warn("failed to release period lock", "period", run.Period.String(), "error", err)
	}

	err = s.repo.CompleteRecomputeRun(ctx, run.ID, storage.RecomputeOutcome{
		Status: storage.RecomputeFailed,
		Error:  "abandoned before completion",
	})
	if err != nil {
		return fmt.Errorf("mark recompute run %d abandoned: %w", run.ID, err)
	}
	s.logger.Warn("recompute run abandoned", "run_id", run.ID, "period", run.Period.String())
	return nil
}

// ListRecomputeRuns returns the latest runs, newest first.
func (s *PlannerService) ListRecomputeRuns(ctx context.Context, limit int) ([]storage.RecomputeRun, error) {
	return s.repo.ListRecomputeRuns(ctx, limit)
}

// GetRecomputeRun returns one logged run.
func (s *PlannerService) GetRecomputeRun(ctx context.Context, id int64) (*storage.RecomputeRun, error) {
	return s.repo.GetRecomputeRun(ctx, id)
}

func (s *PlannerService) recompute(ctx context.Context, period planning.Period, trigger string, retryOf *int64) (*storage.RecomputeRun, error) {
	runID, err := s.repo.StartRecomputeRun(ctx, period, trigger, retryOf)
	if err != nil {
		return nil, fmt.Errorf("start recompute run: %w", err)
	}

	outcome, runErr := s.computePeriod(ctx, period)
	if runErr != nil {
		outcome.Status = storage.RecomputeFailed
		outcome.Error = runErr.Error()
		s.logger.Error("recompute failed",
			"run_id", runID,
			"period", period.String(),
			"trigger", trigger,
			"error", runErr,
		)
	} else {
		outcome.Status = storage.RecomputeCompleted
		s.logger.Info("recompute completed",
			"run_id", runID,
			"period", period.String(),
			"trigger", trigger,
			"products", outcome.ProductCount,
			"share", outcome.Share.String(),
			"infeasible", outcome.InfeasibleCount,
		)
	}

	// Record the outcome even when the caller has gone away.
	if err := s.repo.CompleteRecomputeRun(context.WithoutCancel(ctx), runID, outcome); err != nil {
		s.logger.Error("failed to record recompute outcome", "run_id", runID, "error", err)
	}

	run, err := s.repo.GetRecomputeRun(context.WithoutCancel(ctx), runID)
	if err != nil {
		run = &storage.RecomputeRun{
			ID:              runID,
			Period:          period,
			Trigger:         trigger,
			Status:          outcome.Status,
			ProductCount:    outcome.ProductCount,
			BudgetTotal:     outcome.BudgetTotal,
			Share:           outcome.Share,
			InfeasibleCount: outcome.InfeasibleCount,
			Error:           outcome.Error,
			RetryOf:         retryOf,
		}
	}
	return run, runErr
}

// computePeriod holds the period lock around snapshot, compute and write.
func (s *PlannerService) computePeriod(ctx context.Context, period planning.Period) (storage.RecomputeOutcome, error) {
	var outcome storage.RecomputeOutcome

	release, err := s.locker.Obtain(ctx, lock.PeriodKey(period))
	if err != nil {
		return outcome, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("failed to release period lock", "period", period.String(), "error", err)
		}
	}()

	budgets, err := s.repo.ListBudgets(ctx, storage.BudgetFilter{Period: &period})
	if err != nil {
		return outcome, fmt.Errorf("load budgets: %w", err)
	}
	products, err := s.repo.ListAdProducts(ctx, storage.AdProductFilter{Period: &period})
	if err != nil {
		return outcome, fmt.Errorf("load ad products: %w", err)
	}

	lines := make([]allocator.BudgetLine, 0, len(budgets))
	for _, b := range budgets {
		lines = append(lines, allocator.BudgetLine{Period: b.Period, Amount: b.Amount})
	}
	periods := make([]planning.Period, 0, len(products))
	for _, e := range products {
		periods = append(periods, e.Period)
	}
	dist := allocator.DistributeBudget(lines, periods, period)

	outcome.ProductCount = dist.ProductCount
	outcome.BudgetTotal = dist.Total
	outcome.Share = dist.Share

	updates := make([]storage.TargetUpdate, 0, len(products))
	var changed []int64
	for i := range products {
		e := &products[i]
		before := e.RequiredMonthlyUnits
		e.MonthlyBudget = dist.Share
		if err := allocator.ApplyTargets(e); err != nil {
			return outcome, fmt.Errorf("ad product entry %d: %w", e.ID, err)
		}
		if e.TargetStatus == planning.TargetInfeasible {
			outcome.InfeasibleCount++
		}
		if e.RequiredMonthlyUnits != before {
			changed = append(changed, e.ID)
		}
		updates = append(updates, storage.TargetUpdate{
			ID:                   e.ID,
			MonthlyBudget:        e.MonthlyBudget,
			RequiredMonthlyUnits: e.RequiredMonthlyUnits,
			RequiredDailyUnits:   e.RequiredDailyUnits,
			TargetStatus:         e.TargetStatus,
		})
	}

	if err := s.repo.ApplyPeriodTargets(ctx, period, updates); err != nil {
		return outcome, fmt.Errorf("apply targets: %w", err)
	}

	for _, id := range changed {
		if err := s.replanDays(ctx, id, period); err != nil {
			s.logger.Warn("failed to replan daily targets",
				"ad_product_entry_id", id,
				"period", period.String(),
				"error", err,
			)
		}
	}
	return outcome, nil
}

// replanDays spreads a changed monthly target over the days after the last
// recorded sale. Products without a daily plan are left alone.
func (s *PlannerService) replanDays(ctx context.Context, id int64, period planning.Period) error {
	rows, err := s.repo.ListSellingTargets(ctx, id, &period)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	asOfDay := 0
	for _, r := range rows {
		if r.SoldUnits > 0 && r.Day() > asOfDay {
			asOfDay = r.Day()
		}
	}
	_, err = s.RedistributeProduct(ctx, id, asOfDay)
	return err
}
