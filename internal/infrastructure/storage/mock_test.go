package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
)

func TestMockRepository_ApplyPeriodTargetsIsAtomic(t *testing.T) {
	mock := NewMockRepository()
	ctx := context.Background()

	a := newAdProduct("A", jan2025)
	require.NoError(t, mock.CreateAdProduct(ctx, a))

	err := mock.ApplyPeriodTargets(ctx, jan2025, []TargetUpdate{
		{ID: a.ID, MonthlyBudget: decimal.NewFromInt(100)},
		{ID: 404, MonthlyBudget: decimal.NewFromInt(100)},
	})
	assert.True(t, errors.Is(err, planning.ErrNotFound))
	assert.Equal(t, 1, mock.ApplyPeriodTargetsCalls)

	got, err := mock.GetAdProduct(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got.MonthlyBudget.IsZero())
}

func TestMockRepository_SellingPlanAndCascade(t *testing.T) {
	mock := NewMockRepository()
	ctx := context.Background()

	a := newAdProduct("A", jan2025)
	require.NoError(t, mock.CreateAdProduct(ctx, a))

	require.NoError(t, mock.SaveSellingPlan(ctx, SellingPlanUpdate{
		AdProductEntryID: a.ID,
		Targets:          []DayTarget{{Date: jan2025.Date(1), TargetUnits: 4}},
	}))
	require.NoError(t, mock.SaveSellingPlan(ctx, SellingPlanUpdate{
		AdProductEntryID: a.ID,
		Sold:             &DaySale{Date: jan2025.Date(1), SoldUnits: 2},
	}))

	rows, err := mock.ListSellingTargets(ctx, a.ID, &jan2025)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].TargetUnits)
	assert.Equal(t, 2, rows[0].SoldUnits)

	require.NoError(t, mock.DeleteAdProduct(ctx, a.ID))
	rows, err = mock.ListSellingTargets(ctx, a.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMockRepository_ErrorInjection(t *testing.T) {
	mock := NewMockRepository()
	mock.ListBudgetsErr = errors.New("db down")

	_, err := mock.ListBudgets(context.Background(), BudgetFilter{})
	assert.EqualError(t, err, "db down")
}
