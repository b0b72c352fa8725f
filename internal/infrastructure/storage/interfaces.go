package storage

import (
	"context"

	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
)

// BudgetRepository stores budget line items.
type BudgetRepository interface {
	ListBudgets(ctx context.Context, filter BudgetFilter) ([]planning.BudgetEntry, error)
	GetBudget(ctx context.Context, id int64) (*planning.BudgetEntry, error)
	CreateBudget(ctx context.Context, entry *planning.BudgetEntry) error
	UpdateBudget(ctx context.Context, entry *planning.BudgetEntry) error
	DeleteBudget(ctx context.Context, id int64) error
}

// AdProductRepository stores per-period ad product entries.
type AdProductRepository interface {
	ListAdProducts(ctx context.Context, filter AdProductFilter) ([]planning.AdProductEntry, error)
	GetAdProduct(ctx context.Context, id int64) (*planning.AdProductEntry, error)
	CreateAdProduct(ctx context.Context, entry *planning.AdProductEntry) error
	UpdateAdProduct(ctx context.Context, entry *planning.AdProductEntry) error
	// DeleteAdProduct removes the entry and its selling targets.
	DeleteAdProduct(ctx context.Context, id int64) error
	// ApplyPeriodTargets writes the budget share and derived targets of every
	// listed entry in one transaction. If any entry is missing or no longer
	// belongs to period, nothing is written.
	ApplyPeriodTargets(ctx context.Context, period planning.Period, updates []TargetUpdate) error
}

// SellingTargetRepository stores daily plan vs. actual rows.
type SellingTargetRepository interface {
	// ListSellingTargets returns the rows of one ad product ordered by date.
	// A nil period returns every row.
	ListSellingTargets(ctx context.Context, adProductEntryID int64, period *planning.Period) ([]planning.SellingTargetEntry, error)
	// SaveSellingPlan upserts the sold day, keeping its target, and the
	// planned days, keeping their sold units, in one transaction.
	SaveSellingPlan(ctx context.Context, update SellingPlanUpdate) error
}

// CatalogRepository is the read-mostly product catalog.
type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]planning.Category, error)
	// ListProducts returns all products when categoryID is zero.
	ListProducts(ctx context.Context, categoryID int64) ([]planning.Product, error)
	GetProduct(ctx context.Context, id string) (*planning.Product, error)
	// ImportCatalog upserts categories and products in one transaction.
	ImportCatalog(ctx context.Context, categories []planning.Category, products []planning.Product) error
}

// RecomputeRunRepository records each period recompute.
type RecomputeRunRepository interface {
	StartRecomputeRun(ctx context.Context, period planning.Period, trigger string, retryOf *int64) (int64, error)
	CompleteRecomputeRun(ctx context.Context, id int64, outcome RecomputeOutcome) error
	ListRecomputeRuns(ctx context.Context, limit int) ([]RecomputeRun, error)
	GetRecomputeRun(ctx context.Context, id int64) (*RecomputeRun, error)
}

// Repository is the full storage surface used by the planner.
type Repository interface {
	BudgetRepository
	AdProductRepository
	SellingTargetRepository
	CatalogRepository
	RecomputeRunRepository

	// SchemaVersion returns the applied migration version.
	SchemaVersion(ctx context.Context) (int64, error)
	Close() error
}
