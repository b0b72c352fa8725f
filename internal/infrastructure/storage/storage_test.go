package storage

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
)

var jan2025 = planning.Period{Month: "January", Year: 2025}

func createTempDB(t *testing.T) string {
	tmpFile, err := os.CreateTemp("", "test_*.db")
	require.NoError(t, err)
	tmpFile.Close()
	return tmpFile.Name()
}

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	tmpDB := createTempDB(t)
	t.Cleanup(func() { os.Remove(tmpDB) })

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newAdProduct(productID string, period planning.Period) *planning.AdProductEntry {
	return &planning.AdProductEntry{
		ProductID:    productID,
		ProductName:  "Product " + productID,
		Period:       period,
		BuyingPrice:  decimal.NewFromInt(40),
		SellingPrice: decimal.NewFromInt(100),
		FBAdCost:     decimal.NewFromInt(5),
		DeliveryCost: decimal.NewFromInt(5),
	}
}

func TestNewStorage_AppliesMigrations(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)

	version, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), version)
	require.NoError(t, store.Close())

	// Reopening an up-to-date database applies nothing new.
	store2, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer store2.Close()

	version, err = store2.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), version)
}

func TestStorage_BudgetCRUD(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	entry := &planning.BudgetEntry{
		Period:      jan2025,
		ExpenseType: planning.ExpenseFacebookAds,
		Amount:      decimal.RequireFromString("3000.50"),
		Currency:    "BDT",
		Note:        "launch",
	}
	require.NoError(t, store.CreateBudget(ctx, entry))
	assert.NotZero(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())

	got, err := store.GetBudget(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, jan2025, got.Period)
	assert.Equal(t, planning.ExpenseFacebookAds, got.ExpenseType)
	assert.Equal(t, "3000.5", got.Amount.String())
	assert.Equal(t, "launch", got.Note)

	got.Amount = decimal.NewFromInt(2000)
	got.Period = planning.Period{Month: "February", Year: 2025}
	require.NoError(t, store.UpdateBudget(ctx, got))

	jan, err := store.ListBudgets(ctx, BudgetFilter{Period: &jan2025})
	require.NoError(t, err)
	assert.Empty(t, jan)

	all, err := store.ListBudgets(ctx, BudgetFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "2000", all[0].Amount.String())

	require.NoError(t, store.DeleteBudget(ctx, entry.ID))
	_, err = store.GetBudget(ctx, entry.ID)
	assert.True(t, errors.Is(err, planning.ErrNotFound))

	err = store.DeleteBudget(ctx, entry.ID)
	assert.True(t, errors.Is(err, planning.ErrNotFound))
}

func TestStorage_ListBudgets_FilterByExpenseType(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	for _, et := range []planning.ExpenseType{planning.ExpenseFacebookAds, planning.ExpenseGoogleAds, planning.ExpenseFacebookAds} {
		require.NoError(t, store.CreateBudget(ctx, &planning.BudgetEntry{
			Period: jan2025, ExpenseType: et, Amount: decimal.NewFromInt(100),
		}))
	}

	fb, err := store.ListBudgets(ctx, BudgetFilter{Period: &jan2025, ExpenseType: planning.ExpenseFacebookAds})
	require.NoError(t, err)
	assert.Len(t, fb, 2)
}

func TestStorage_AdProductCRUD(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	pct := decimal.NewFromInt(20)
	entry := newAdProduct("P1", jan2025)
	entry.DesiredProfitPct = &pct
	entry.ReturnParcelQty = 3
	require.NoError(t, store.CreateAdProduct(ctx, entry))
	assert.Equal(t, planning.TargetFeasible, entry.TargetStatus)

	got, err := store.GetAdProduct(ctx, entry.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DesiredProfitPct)
	assert.Equal(t, "20", got.DesiredProfitPct.String())
	assert.Equal(t, 3, got.ReturnParcelQty)
	assert.Equal(t, "100", got.SellingPrice.String())

	got.DesiredProfitPct = nil
	got.ProductName = "Renamed"
	require.NoError(t, store.UpdateAdProduct(ctx, got))

	got2, err := store.GetAdProduct(ctx, entry.ID)
	require.NoError(t, err)
	assert.Nil(t, got2.DesiredProfitPct)
	assert.Equal(t, "Renamed", got2.ProductName)

	byProduct, err := store.ListAdProducts(ctx, AdProductFilter{ProductID: "P1"})
	require.NoError(t, err)
	assert.Len(t, byProduct, 1)

	missing := newAdProduct("P2", jan2025)
	missing.ID = 999
	err = store.UpdateAdProduct(ctx, missing)
	assert.True(t, errors.Is(err, planning.ErrNotFound))
}

func TestStorage_DeleteAdProduct_CascadesSellingTargets(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	entry := newAdProduct("P1", jan2025)
	require.NoError(t, store.CreateAdProduct(ctx, entry))
	require.NoError(t, store.SaveSellingPlan(ctx, SellingPlanUpdate{
		AdProductEntryID: entry.ID,
		Sold:             &DaySale{Date: jan2025.Date(1), SoldUnits: 4},
		Targets:          []DayTarget{{Date: jan2025.Date(2), TargetUnits: 3}},
	}))

	require.NoError(t, store.DeleteAdProduct(ctx, entry.ID))

	rows, err := store.ListSellingTargets(ctx, entry.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStorage_ApplyPeriodTargets(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	a := newAdProduct("A", jan2025)
	b := newAdProduct("B", jan2025)
	require.NoError(t, store.CreateAdProduct(ctx, a))
	require.NoError(t, store.CreateAdProduct(ctx, b))

	err := store.ApplyPeriodTargets(ctx, jan2025, []TargetUpdate{
		{ID: a.ID, MonthlyBudget: decimal.NewFromInt(2500), RequiredMonthlyUnits: 75, RequiredDailyUnits: 3, TargetStatus: planning.TargetFeasible},
		{ID: b.ID, MonthlyBudget: decimal.NewFromInt(2500), TargetStatus: planning.TargetInfeasible},
	})
	require.NoError(t, err)

	gotA, err := store.GetAdProduct(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "2500", gotA.MonthlyBudget.String())
	assert.Equal(t, 75, gotA.RequiredMonthlyUnits)
	assert.Equal(t, 3, gotA.RequiredDailyUnits)

	gotB, err := store.GetAdProduct(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, planning.TargetInfeasible, gotB.TargetStatus)
	assert.Equal(t, 0, gotB.RequiredMonthlyUnits)
}

func TestStorage_ApplyPeriodTargets_AllOrNothing(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	a := newAdProduct("A", jan2025)
	other := newAdProduct("B", planning.Period{Month: "February", Year: 2025})
	require.NoError(t, store.CreateAdProduct(ctx, a))
	require.NoError(t, store.CreateAdProduct(ctx, other))

	// The second update targets a row of another period, so the first must not stick.
	err := store.ApplyPeriodTargets(ctx, jan2025, []TargetUpdate{
		{ID: a.ID, MonthlyBudget: decimal.NewFromInt(1000), RequiredMonthlyUnits: 10},
		{ID: other.ID, MonthlyBudget: decimal.NewFromInt(1000), RequiredMonthlyUnits: 10},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, planning.ErrNotFound))

	gotA, err := store.GetAdProduct(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, gotA.MonthlyBudget.IsZero())
	assert.Equal(t, 0, gotA.RequiredMonthlyUnits)
}

func TestStorage_SaveSellingPlan_PreservesOtherColumn(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	entry := newAdProduct("P1", jan2025)
	require.NoError(t, store.CreateAdProduct(ctx, entry))

	// Initial plan for days 1-3.
	require.NoError(t, store.SaveSellingPlan(ctx, SellingPlanUpdate{
		AdProductEntryID: entry.ID,
		Targets: []DayTarget{
			{Date: jan2025.Date(1), TargetUnits: 3},
			{Date: jan2025.Date(2), TargetUnits: 3},
			{Date: jan2025.Date(3), TargetUnits: 2},
		},
	}))

	// Record day 1 sales and replan days 2-3.
	require.NoError(t, store.SaveSellingPlan(ctx, SellingPlanUpdate{
		AdProductEntryID: entry.ID,
		Sold:             &DaySale{Date: jan2025.Date(1), SoldUnits: 5},
		Targets: []DayTarget{
			{Date: jan2025.Date(2), TargetUnits: 2},
			{Date: jan2025.Date(3), TargetUnits: 1},
		},
	}))

	// Record day 2 sales without touching its target.
	require.NoError(t, store.SaveSellingPlan(ctx, SellingPlanUpdate{
		AdProductEntryID: entry.ID,
		Sold:             &DaySale{Date: jan2025.Date(2), SoldUnits: 1},
	}))

	rows, err := store.ListSellingTargets(ctx, entry.ID, &jan2025)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 1, rows[0].Day())
	assert.Equal(t, 3, rows[0].TargetUnits, "sold upsert keeps target")
	assert.Equal(t, 5, rows[0].SoldUnits)

	assert.Equal(t, 2, rows[1].TargetUnits)
	assert.Equal(t, 1, rows[1].SoldUnits)

	assert.Equal(t, 1, rows[2].TargetUnits)
	assert.Equal(t, 0, rows[2].SoldUnits)
}

func TestStorage_SaveSellingPlan_UnknownProduct(t *testing.T) {
	store := newTestStorage(t)

	err := store.SaveSellingPlan(context.Background(), SellingPlanUpdate{
		AdProductEntryID: 42,
		Sold:             &DaySale{Date: jan2025.Date(1), SoldUnits: 1},
	})
	assert.True(t, errors.Is(err, planning.ErrNotFound))
}

func TestStorage_ListSellingTargets_FiltersByPeriod(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	entry := newAdProduct("P1", jan2025)
	require.NoError(t, store.CreateAdProduct(ctx, entry))
	feb := planning.Period{Month: "February", Year: 2025}
	require.NoError(t, store.SaveSellingPlan(ctx, SellingPlanUpdate{
		AdProductEntryID: entry.ID,
		Targets: []DayTarget{
			{Date: jan2025.Date(31), TargetUnits: 1},
			{Date: feb.Date(1), TargetUnits: 2},
		},
	}))

	rows, err := store.ListSellingTargets(ctx, entry.ID, &feb)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].TargetUnits)

	all, err := store.ListSellingTargets(ctx, entry.ID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStorage_Catalog(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	err := store.ImportCatalog(ctx,
		[]planning.Category{{ID: 1, Name: "Skincare"}, {ID: 2, Name: "Apparel"}},
		[]planning.Product{
			{ID: "SKU-1", CategoryID: 1, Name: "Serum", BuyingPrice: decimal.NewFromInt(300), SellingPrice: decimal.NewFromInt(650)},
			{ID: "SKU-2", CategoryID: 2, Name: "Tee", BuyingPrice: decimal.NewFromInt(150), SellingPrice: decimal.NewFromInt(400)},
		},
	)
	require.NoError(t, err)

	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Apparel", categories[0].Name)

	skincare, err := store.ListProducts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, skincare, 1)
	assert.Equal(t, "SKU-1", skincare[0].ID)

	all, err := store.ListProducts(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Re-import updates in place.
	require.NoError(t, store.ImportCatalog(ctx, nil, []planning.Product{
		{ID: "SKU-1", CategoryID: 1, Name: "Serum", BuyingPrice: decimal.NewFromInt(320), SellingPrice: decimal.NewFromInt(650)},
	}))
	p, err := store.GetProduct(ctx, "SKU-1")
	require.NoError(t, err)
	assert.Equal(t, "320", p.BuyingPrice.String())

	_, err = store.GetProduct(ctx, "missing")
	assert.True(t, errors.Is(err, planning.ErrNotFound))
}

func TestStorage_RecomputeRuns(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	id, err := store.StartRecomputeRun(ctx, jan2025, "budget.create", nil)
	require.NoError(t, err)

	run, err := store.GetRecomputeRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, RecomputeRunning, run.Status)
	assert.Nil(t, run.CompletedAt)

	require.NoError(t, store.CompleteRecomputeRun(ctx, id, RecomputeOutcome{
		Status:       RecomputeFailed,
		ProductCount: 2,
		BudgetTotal:  decimal.NewFromInt(5000),
		Share:        decimal.NewFromInt(2500),
		Error:        "boom",
	}))

	retryID, err := store.StartRecomputeRun(ctx, jan2025, "retry", &id)
	require.NoError(t, err)

	runs, err := store.ListRecomputeRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, retryID, runs[0].ID, "newest first")
	require.NotNil(t, runs[0].RetryOf)
	assert.Equal(t, id, *runs[0].RetryOf)

	failed := runs[1]
	assert.Equal(t, RecomputeFailed, failed.Status)
	assert.Equal(t, "boom", failed.Error)
	assert.Equal(t, "2500", failed.Share.String())
	assert.NotNil(t, failed.CompletedAt)

	_, err = store.GetRecomputeRun(ctx, 999)
	assert.True(t, errors.Is(err, planning.ErrNotFound))
}

func TestPersistErr_KeepsDomainErrors(t *testing.T) {
	nf := planning.NotFound("budget entry", 1)
	assert.Equal(t, nf, persistErr("op", nf))

	wrapped := persistErr("op", errors.New("disk full"))
	var pe *planning.PersistenceError
	require.True(t, errors.As(wrapped, &pe))
	assert.Equal(t, "op", pe.Op)

	assert.NoError(t, persistErr("op", nil))
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "plan.db?_busy_timeout=5000&_foreign_keys=on", dsn("plan.db"))
	assert.Equal(t, "file:plan.db?mode=rwc&_busy_timeout=5000&_foreign_keys=on", dsn("file:plan.db?mode=rwc"))
}
