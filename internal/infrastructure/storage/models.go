package storage

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
)

// BudgetFilter narrows ListBudgets. Zero fields match everything.
type BudgetFilter struct {
	Period      *planning.Period
	ExpenseType planning.ExpenseType
}

// AdProductFilter narrows ListAdProducts. Zero fields match everything.
type AdProductFilter struct {
	Period    *planning.Period
	ProductID string
}

// TargetUpdate is the recomputed state of one ad product entry.
type TargetUpdate struct {
	ID                   int64
	MonthlyBudget        decimal.Decimal
	RequiredMonthlyUnits int
	RequiredDailyUnits   int
	TargetStatus         planning.TargetStatus
}

// DaySale is the sold quantity recorded for one day.
type DaySale struct {
	Date      time.Time
	SoldUnits int
}

// DayTarget is the planned quantity for one day.
type DayTarget struct {
	Date        time.Time
	TargetUnits int
}

// SellingPlanUpdate is written by SaveSellingPlan. Sold is nil when only
// the plan changes.
type SellingPlanUpdate struct {
	AdProductEntryID int64
	Sold             *DaySale
	Targets          []DayTarget
}

// RecomputeStatus is the lifecycle state of a recompute run.
type RecomputeStatus string

const (
	RecomputeRunning   RecomputeStatus = "running"
	RecomputeCompleted RecomputeStatus = "completed"
	RecomputeFailed    RecomputeStatus = "failed"
)

// RecomputeRun is one logged period recompute.
type RecomputeRun struct {
	ID              int64           `json:"id"`
	Period          planning.Period `json:"period"`
	Trigger         string          `json:"trigger"`
	StartedAt       time.Time       `json:"started_at"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	Status          RecomputeStatus `json:"status"`
	ProductCount    int             `json:"product_count"`
	BudgetTotal     decimal.Decimal `json:"budget_total"`
	Share           decimal.Decimal `json:"share"`
	InfeasibleCount int             `json:"infeasible_count"`
	Error           string          `json:"error,omitempty"`
	RetryOf         *int64          `json:"retry_of,omitempty"`
}

// RecomputeOutcome closes a run.
type RecomputeOutcome struct {
	Status          RecomputeStatus
	ProductCount    int
	BudgetTotal     decimal.Decimal
	Share           decimal.Decimal
	InfeasibleCount int
	Error           string
}
