package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in maps, making tests fast and isolated.
type MockRepository struct {
	mu sync.Mutex

	budgets        map[int64]*planning.BudgetEntry
	adProducts     map[int64]*planning.AdProductEntry
	sellingTargets map[int64]map[string]*planning.SellingTargetEntry // keyed by ad product, then date
	categories     map[int64]planning.Category
	products       map[string]planning.Product
	runs           map[int64]*RecomputeRun
	nextID         int64

	// Hooks for test assertions
	ApplyPeriodTargetsCalls int
	LastTargetUpdates       []TargetUpdate
	SaveSellingPlanCalls    int
	LastSellingPlan         *SellingPlanUpdate

	// Error injection for testing error paths
	ListBudgetsErr        error
	CreateBudgetErr       error
	ListAdProductsErr     error
	CreateAdProductErr    error
	ApplyPeriodTargetsErr error
	SaveSellingPlanErr    error
	StartRunErr           error
	// SaveSellingPlanErrFor fails SaveSellingPlan for specific ad products.
	SaveSellingPlanErrFor map[int64]error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		budgets:               make(map[int64]*planning.BudgetEntry),
		adProducts:            make(map[int64]*planning.AdProductEntry),
		sellingTargets:        make(map[int64]map[string]*planning.SellingTargetEntry),
		categories:            make(map[int64]planning.Category),
		products:              make(map[string]planning.Product),
		runs:                  make(map[int64]*RecomputeRun),
		nextID:                1,
		SaveSellingPlanErrFor: make(map[int64]error),
	}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

func (m *MockRepository) id() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func samePeriod(filter *planning.Period, p planning.Period) bool {
	return filter == nil || filter.Equal(p)
}

// ListBudgets implements BudgetRepository.
func (m *MockRepository) ListBudgets(_ context.Context, filter BudgetFilter) ([]planning.BudgetEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListBudgetsErr != nil {
		return nil, m.ListBudgetsErr
	}
	var out []planning.BudgetEntry
	for _, b := range m.budgets {
		if !samePeriod(filter.Period, b.Period) {
			continue
		}
		if filter.ExpenseType != "" && filter.ExpenseType != b.ExpenseType {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetBudget implements BudgetRepository.
func (m *MockRepository) GetBudget(_ context.Context, id int64) (*planning.BudgetEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.budgets[id]
	if !ok {
		return nil, planning.NotFound("budget entry", id)
	}
	cp := *b
	return &cp, nil
}

// CreateBudget implements BudgetRepository.
func (m *MockRepository) CreateBudget(_ context.Context, entry *planning.BudgetEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateBudgetErr != nil {
		return m.CreateBudgetErr
	}
	now := time.Now().UTC()
	entry.ID = m.id()
	entry.CreatedAt, entry.UpdatedAt = now, now
	cp := *entry
	m.budgets[entry.ID] = &cp
	return nil
}

// UpdateBudget implements BudgetRepository.
func (m *MockRepository) UpdateBudget(_ context.Context, entry *planning.BudgetEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.budgets[entry.ID]
	if !ok {
		return planning.NotFound("budget entry", entry.ID)
	}
	entry.CreatedAt = existing.CreatedAt
	entry.UpdatedAt = time.Now().UTC()
	cp := *entry
	m.budgets[entry.ID] = &cp
	return nil
}

// DeleteBudget implements BudgetRepository.
func (m *MockRepository) DeleteBudget(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.budgets[id]; !ok {
		return planning.NotFound("budget entry", id)
	}
	delete(m.budgets, id)
	return nil
}

// ListAdProducts implements AdProductRepository.
func (m *MockRepository) ListAdProducts(_ context.Context, filter AdProductFilter) ([]planning.AdProductEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListAdProductsErr != nil {
		return nil, m.ListAdProductsErr
	}
	var out []planning.AdProductEntry
	for _, e := range m.adProducts {
		if !samePeriod(filter.Period, e.Period) {
			continue
		}
		if filter.ProductID != "" && filter.ProductID != e.ProductID {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetAdProduct implements AdProductRepository.
func (m *MockRepository) GetAdProduct(_ context.Context, id int64) (*planning.AdProductEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.adProducts[id]
	if !ok {
		return nil, planning.NotFound("ad product entry", id)
	}
	cp := *e
	return &cp, nil
}

// CreateAdProduct implements AdProductRepository.
func (m *MockRepository) CreateAdProduct(_ context.Context, entry *planning.AdProductEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateAdProductErr != nil {
		return m.CreateAdProductErr
	}
	now := time.Now().UTC()
	entry.ID = m.id()
	entry.TargetStatus = statusOrDefault(entry.TargetStatus)
	entry.CreatedAt, entry.UpdatedAt = now, now
	cp := *entry
	m.adProducts[entry.ID] = &cp
	return nil
}

// UpdateAdProduct implements AdProductRepository.
func (m *MockRepository) UpdateAdProduct(_ context.Context, entry *planning.AdProductEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.adProducts[entry.ID]
	if !ok {
		return planning.NotFound("ad product entry", entry.ID)
	}
	entry.CreatedAt = existing.CreatedAt
	entry.UpdatedAt = time.Now().UTC()
	cp := *entry
	m.adProducts[entry.ID] = &cp
	return nil
}

// DeleteAdProduct implements AdProductRepository.
func (m *MockRepository) DeleteAdProduct(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.adProducts[id]; !ok {
		return planning.NotFound("ad product entry", id)
	}
	delete(m.adProducts, id)
	delete(m.sellingTargets, id)
	return nil
}

// ApplyPeriodTargets implements AdProductRepository.
func (m *MockRepository) ApplyPeriodTargets(_ context.Context, period planning.Period, updates []TargetUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ApplyPeriodTargetsCalls++
	m.LastTargetUpdates = append([]TargetUpdate(nil), updates...)
	if m.ApplyPeriodTargetsErr != nil {
		return m.ApplyPeriodTargetsErr
	}
	// Validate everything before writing anything.
	for _, u := range updates {
		e, ok := m.adProducts[u.ID]
		if !ok || !e.Period.Equal(period) {
			return planning.NotFound("ad product entry", u.ID)
		}
	}
	now := time.Now().UTC()
	for _, u := range updates {
		e := m.adProducts[u.ID]
		e.MonthlyBudget = u.MonthlyBudget
		e.RequiredMonthlyUnits = u.RequiredMonthlyUnits
		e.RequiredDailyUnits = u.RequiredDailyUnits
		e.TargetStatus = statusOrDefault(u.TargetStatus)
		e.UpdatedAt = now
	}
	return nil
}

// ListSellingTargets implements SellingTargetRepository.
func (m *MockRepository) ListSellingTargets(_ context.Context, adProductEntryID int64, period *planning.Period) ([]planning.SellingTargetEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []planning.SellingTargetEntry
	for _, e := range m.sellingTargets[adProductEntryID] {
		if period != nil && !period.Contains(e.Date) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// SaveSellingPlan implements SellingTargetRepository.
func (m *MockRepository) SaveSellingPlan(_ context.Context, update SellingPlanUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveSellingPlanCalls++
	cp := update
	m.LastSellingPlan = &cp
	if m.SaveSellingPlanErr != nil {
		return m.SaveSellingPlanErr
	}
	if err := m.SaveSellingPlanErrFor[update.AdProductEntryID]; err != nil {
		return err
	}
	if _, ok := m.adProducts[update.AdProductEntryID]; !ok {
		return planning.NotFound("ad product entry", update.AdProductEntryID)
	}

	days := m.sellingTargets[update.AdProductEntryID]
	if days == nil {
		days = make(map[string]*planning.SellingTargetEntry)
		m.sellingTargets[update.AdProductEntryID] = days
	}
	now := time.Now().UTC()
	row := func(d time.Time) *planning.SellingTargetEntry {
		key := formatDate(d)
		e, ok := days[key]
		if !ok {
			e = &planning.SellingTargetEntry{
				ID:               m.id(),
				AdProductEntryID: update.AdProductEntryID,
				Date:             d.UTC(),
				CreatedAt:        now,
			}
			days[key] = e
		}
		e.UpdatedAt = now
		return e
	}
	if update.Sold != nil {
		row(update.Sold.Date).SoldUnits = update.Sold.SoldUnits
	}
	for _, t := range update.Targets {
		row(t.Date).TargetUnits = t.TargetUnits
	}
	return nil
}

// ListCategories implements CatalogRepository.
func (m *MockRepository) ListCategories(_ context.Context) ([]planning.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]planning.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ListProducts implements CatalogRepository.
func (m *MockRepository) ListProducts(_ context.Context, categoryID int64) ([]planning.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []planning.Product
	for _, p := range m.products {
		if categoryID != 0 && p.CategoryID != categoryID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetProduct implements CatalogRepository.
func (m *MockRepository) GetProduct(_ context.Context, id string) (*planning.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, fmt.Errorf("product %q: %w", id, planning.ErrNotFound)
	}
	return &p, nil
}

// ImportCatalog implements CatalogRepository.
func (m *MockRepository) ImportCatalog(_ context.Context, categories []planning.Category, products []planning.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range categories {
		m.categories[c.ID] = c
	}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return nil
}

// StartRecomputeRun implements RecomputeRunRepository.
func (m *MockRepository) StartRecomputeRun(_ context.Context, period planning.Period, trigger string, retryOf *int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StartRunErr != nil {
		return 0, m.StartRunErr
	}
	run := &RecomputeRun{
		ID:        m.id(),
		Period:    period,
		Trigger:   trigger,
		StartedAt: time.Now().UTC(),
		Status:    RecomputeRunning,
		RetryOf:   retryOf,
	}
	m.runs[run.ID] = run
	return run.ID, nil
}

// CompleteRecomputeRun implements RecomputeRunRepository.
func (m *MockRepository) CompleteRecomputeRun(_ context.Context, id int64, outcome RecomputeOutcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return planning.NotFound("recompute run", id)
	}
	now := time.Now().UTC()
	run.CompletedAt = &now
	run.Status = outcome.Status
	run.ProductCount = outcome.ProductCount
	run.BudgetTotal = outcome.BudgetTotal
	run.Share = outcome.Share
	run.InfeasibleCount = outcome.InfeasibleCount
	run.Error = outcome.Error
	return nil
}

// ListRecomputeRuns implements RecomputeRunRepository.
func (m *MockRepository) ListRecomputeRuns(_ context.Context, limit int) ([]RecomputeRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecomputeRun, 0, len(m.runs))
	for _, r := range m.runs {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetRecomputeRun implements RecomputeRunRepository.
func (m *MockRepository) GetRecomputeRun(_ context.Context, id int64) (*RecomputeRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok {
		return nil, planning.NotFound("recompute run", id)
	}
	cp := *r
	return &cp, nil
}

// SchemaVersion implements Repository.
func (m *MockRepository) SchemaVersion(_ context.Context) (int64, error) {
	return 3, nil
}

// Close implements Repository.
func (m *MockRepository) Close() error {
	return nil
}
