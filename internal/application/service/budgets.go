package service

import (
	"context"
	"strings"

	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
	"github.com/eshaffer321/growthplan-backend/internal/domain/validator"
	"github.com/eshaffer321/growthplan-backend/internal/infrastructure/storage"
)

// BudgetResult is a saved budget entry and the recomputes it triggered.
type BudgetResult struct {
	Entry      *planning.BudgetEntry  `json:"entry"`
	Recomputes []storage.RecomputeRun `json:"recomputes"`
}

// ListBudgets returns the budget entries matching filter.
func (s *PlannerService) ListBudgets(ctx context.Context, filter storage.BudgetFilter) ([]planning.BudgetEntry, error) {
	if filter.Period != nil {
		p, err := normalizePeriod(*filter.Period)
		if err != nil {
			return nil, err
		}
		filter.Period = &p
	}
	return s.repo.ListBudgets(ctx, filter)
}

// GetBudget returns one budget entry.
func (s *PlannerService) GetBudget(ctx context.Context, id int64) (*planning.BudgetEntry, error) {
	return s.repo.GetBudget(ctx, id)
}

// CreateBudget validates and stores entry, then recomputes its period.
func (s *PlannerService) CreateBudget(ctx context.Context, entry *planning.BudgetEntry) (*BudgetResult, error) {
	if err := s.prepareBudget(entry); err != nil {
		return nil, err
	}
	if err := s.repo.CreateBudget(ctx, entry); err != nil {
		return nil, err
	}
	s.logger.Info("budget entry created",
		"id", entry.ID,
		"period", entry.Period.String(),
		"expense_type", string(entry.ExpenseType),
		"amount", entry.Amount.String(),
	)
	return &BudgetResult{
		Entry:      entry,
		Recomputes: s.recomputeAfter(ctx, TriggerBudgetCreate, entry.Period),
	}, nil
}

// UpdateBudget replaces budget entry id. When the entry moves to another
// period, both periods are recomputed.
func (s *PlannerService) UpdateBudget(ctx context.Context, id int64, entry *planning.BudgetEntry) (*BudgetResult, error) {
	existing, err := s.repo.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}
	entry.ID = id
	if err := s.prepareBudget(entry); err != nil {
		return nil, err
	}
	entry.CreatedAt = existing.CreatedAt
	if err := s.repo.UpdateBudget(ctx, entry); err != nil {
		return nil, err
	}
	s.logger.Info("budget entry updated", "id", id, "period", entry.Period.String())
	return &BudgetResult{
		Entry:      entry,
		Recomputes: s.recomputeAfter(ctx, TriggerBudgetUpdate, existing.Period, entry.Period),
	}, nil
}

// DeleteBudget removes budget entry id and recomputes its period.
func (s *PlannerService) DeleteBudget(ctx context.Context, id int64) ([]storage.RecomputeRun, error) {
	existing, err := s.repo.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteBudget(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Info("budget entry deleted", "id", id, "period", existing.Period.String())
	return s.recomputeAfter(ctx, TriggerBudgetDelete, existing.Period), nil
}

// prepareBudget applies defaults and validates entry in place.
func (s *PlannerService) prepareBudget(entry *planning.BudgetEntry) error {
	p, err := normalizePeriod(entry.Period)
	if err != nil {
		return err
	}
	entry.Period = p
	entry.Currency = strings.ToUpper(strings.TrimSpace(entry.Currency))
	if entry.Currency == "" {
		entry.Currency = s.opts.DefaultCurrency
	}
	entry.Note = strings.TrimSpace(entry.Note)
	return validator.BudgetEntry(entry)
}
