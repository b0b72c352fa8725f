package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eshaffer321/growthplan-backend/internal/domain/allocator"
	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
	"github.com/eshaffer321/growthplan-backend/internal/domain/validator"
	"github.com/eshaffer321/growthplan-backend/internal/infrastructure/lock"
	"github.com/eshaffer321/growthplan-backend/internal/infrastructure/storage"
)

// RecordSalesRequest records the units sold on one day.
type RecordSalesRequest struct {
	AdProductEntryID int64
	Date             time.Time
	SoldUnits        int
}

// SellingPlan is an ad product's month of daily targets after redistribution.
type SellingPlan struct {
	AdProductEntryID int64                         `json:"ad_product_entry_id"`
	Period           planning.Period               `json:"period"`
	MonthlyTarget    int                           `json:"monthly_target"`
	TargetStatus     planning.TargetStatus         `json:"target_status"`
	AsOfDay          int                           `json:"as_of_day"`
	SoldToDate       int                           `json:"sold_to_date"`
	RemainingNeeded  int                           `json:"remaining_needed"`
	Days             []planning.SellingTargetEntry `json:"days"`
}

// ItemError is the failure of one product in a batch.
type ItemError struct {
	AdProductEntryID int64  `json:"ad_product_entry_id"`
	Error            string `json:"error"`
}

// BatchResult tallies a fan-out over a period's products.
type BatchResult struct {
	Period    planning.Period `json:"period"`
	AsOfDay   int             `json:"as_of_day"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Errors    []ItemError     `json:"errors,omitempty"`
}

// ListSellingTargets returns the daily rows of an ad product. A nil period
// returns every row.
func (s *PlannerService) ListSellingTargets(ctx context.Context, adProductEntryID int64, period *planning.Period) ([]planning.SellingTargetEntry, error) {
	if _, err := s.repo.GetAdProduct(ctx, adProductEntryID); err != nil {
		return nil, err
	}
	if period != nil {
		p, err := normalizePeriod(*period)
		if err != nil {
			return nil, err
		}
		period = &p
	}
	return s.repo.ListSellingTargets(ctx, adProductEntryID, period)
}

// RecordSales stores the sold units of one day and spreads what is still
// needed this month over the days after it. Each later day keeps the
// sales already recorded on it.
func (s *PlannerService) RecordSales(ctx context.Context, req RecordSalesRequest) (*SellingPlan, error) {
	row := &planning.SellingTargetEntry{
		AdProductEntryID: req.AdProductEntryID,
		Date:             req.Date,
		SoldUnits:        req.SoldUnits,
	}
	if err := validator.SellingTargetEntry(row); err != nil {
		return nil, err
	}
	date := req.Date.UTC().Truncate(24 * time.Hour)
	sale := &storage.DaySale{Date: date, SoldUnits: req.SoldUnits}
	plan, err := s.redistribute(ctx, req.AdProductEntryID, date.Day(), sale, &date)
	if err != nil {
		return nil, err
	}
	s.logger.Info("sales recorded",
		"ad_product_entry_id", req.AdProductEntryID,
		"date", date.Format(planning.DateLayout),
		"sold_units", req.SoldUnits,
		"remaining_needed", plan.RemainingNeeded,
	)
	return plan, nil
}

// RedistributeProduct replans the days after asOfDay from the sales
// already recorded. asOfDay zero plans the whole month.
func (s *PlannerService) RedistributeProduct(ctx context.Context, adProductEntryID int64, asOfDay int) (*SellingPlan, error) {
	return s.redistribute(ctx, adProductEntryID, asOfDay, nil, nil)
}

// RedistributeAll replans every ad product of period as of asOfDay with
// bounded concurrency. One product failing does not stop the others.
func (s *PlannerService) RedistributeAll(ctx context.Context, period planning.Period, asOfDay int) (*BatchResult, error) {
	p, err := normalizePeriod(period)
	if err != nil {
		return nil, err
	}
	if asOfDay < 0 || asOfDay > p.DaysInMonth() {
		return nil, planning.NewValidationError("as_of_day", fmt.Sprintf("must be between 0 and %d", p.DaysInMonth()))
	}

	products, err := s.repo.ListAdProducts(ctx, storage.AdProductFilter{Period: &p})
	if err != nil {
		return nil, err
	}

	result := &BatchResult{Period: p, AsOfDay: asOfDay}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.RedistributeConcurrency)
	for _, e := range products {
		id := e.ID
		g.Go(func() error {
			err := gctx.Err()
			if err == nil {
				_, err = s.redistribute(gctx, id, asOfDay, nil, nil)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				result.Errors = append(result.Errors, ItemError{AdProductEntryID: id, Error: err.Error()})
				return nil
			}
			result.Succeeded++
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("redistribution batch finished",
		"period", p.String(),
		"as_of_day", asOfDay,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
	)
	return result, nil
}

// redistribute runs the daily redistributor for one product under its lock
// and saves the sold day, if any, together with the new plan.
func (s *PlannerService) redistribute(ctx context.Context, id int64, asOfDay int, sale *storage.DaySale, saleDate *time.Time) (*SellingPlan, error) {
	release, err := s.locker.Obtain(ctx, lock.ProductKey(id))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("failed to release product lock", "ad_product_entry_id", id, "error", err)
		}
	}()

	entry, err := s.repo.GetAdProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	period := entry.Period
	if saleDate != nil && !period.Contains(*saleDate) {
		return nil, planning.NewValidationError("date",
			fmt.Sprintf("%s is outside %s", saleDate.Format(planning.DateLayout), period.String()))
	}

	existing, err := s.repo.ListSellingTargets(ctx, id, &period)
	if err != nil {
		return nil, err
	}
	sold := make([]allocator.DailySale, 0, len(existing)+1)
	for _, row := range existing {
		if sale != nil && row.Date.Equal(sale.Date) {
			continue
		}
		sold = append(sold, allocator.DailySale{Date: row.Date, SoldUnits: row.SoldUnits})
	}
	if sale != nil {
		sold = append(sold, allocator.DailySale{Date: sale.Date, SoldUnits: sale.SoldUnits})
	}

	plan, err := allocator.Redistribute(allocator.RedistributeInput{
		Period:        period,
		CurrentDay:    asOfDay,
		MonthlyTarget: entry.RequiredMonthlyUnits,
		Sold:          sold,
	})
	if err != nil {
		return nil, planning.NewValidationError("as_of_day", err.Error())
	}

	targets := make([]storage.DayTarget, 0, len(plan.Days))
	for _, d := range plan.Days {
		targets = append(targets, storage.DayTarget{Date: d.Date, TargetUnits: d.PlannedUnits})
	}
	if err := s.repo.SaveSellingPlan(ctx, storage.SellingPlanUpdate{
		AdProductEntryID: id,
		Sold:             sale,
		Targets:          targets,
	}); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListSellingTargets(ctx, id, &period)
	if err != nil {
		return nil, err
	}
	return &SellingPlan{
		AdProductEntryID: id,
		Period:           period,
		MonthlyTarget:    entry.RequiredMonthlyUnits,
		TargetStatus:     entry.TargetStatus,
		AsOfDay:          asOfDay,
		SoldToDate:       plan.SoldToDate,
		RemainingNeeded:  plan.RemainingNeeded,
		Days:             rows,
	}, nil
}
