package api_test

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/growthplan-backend/internal/api"
	"github.com/eshaffer321/growthplan-backend/internal/api/dto"
	"github.com/eshaffer321/growthplan-backend/internal/application/service"
	"github.com/eshaffer321/growthplan-backend/internal/infrastructure/storage"
)

// newSQLiteServer wires the API over a real database file.
func newSQLiteServer(t *testing.T) *testServer {
	t.Helper()
	store, err := storage.NewStorage(filepath.Join(t.TempDir(), "growthplan.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	planner := service.NewPlannerService(store, nil, logger, service.Options{})
	return &testServer{server: api.NewServer(api.DefaultConfig(), planner, store, logger)}
}

func TestIntegration_PlanMonthEndToEnd(t *testing.T) {
	ts := newSQLiteServer(t)

	rec := ts.do(t, http.MethodGet, "/health", nil)
	var health dto.HealthResponse
	decode(t, rec, &health)
	assert.Equal(t, int64(3), health.SchemaVersion)

	// Two products then a budget: the budget recompute sets both shares.
	var ids []int64
	for _, sku := range []string{"A", "B"} {
		rec := ts.do(t, http.MethodPost, "/api/ad-products", serumRequest(sku))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var res service.AdProductResult
		decode(t, rec, &res)
		ids = append(ids, res.Entry.ID)
	}
	rec = ts.do(t, http.MethodPost, "/api/budget", map[string]interface{}{
		"month": "January", "year": 2025, "expense_type": "facebook_ads", "amount": "5000",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	for _, id := range ids {
		rec := ts.do(t, http.MethodGet, fmt.Sprintf("/api/ad-products/%d", id), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var entry struct {
			MonthlyBudget        string `json:"monthly_budget"`
			RequiredMonthlyUnits int    `json:"required_monthly_units"`
		}
		decode(t, rec, &entry)
		assert.Equal(t, "2500", entry.MonthlyBudget)
		assert.Equal(t, 75, entry.RequiredMonthlyUnits)
	}

	rec = ts.do(t, http.MethodPost, "/api/selling-targets", map[string]interface{}{
		"ad_product_entry_id": ids[0], "date": "2025-01-10", "sold_units": 20,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, fmt.Sprintf("/api/selling-targets?ad_product_entry_id=%d", ids[0]), nil)
	var list dto.SellingTargetListResponse
	decode(t, rec, &list)
	require.Equal(t, 22, list.Count)
	assert.Equal(t, 20, list.Days[0].SoldUnits)
	assert.Equal(t, 3, list.Days[1].TargetUnits)
	assert.Equal(t, 2, list.Days[21].TargetUnits)

	// Deleting the product drops its days and doubles the sibling's share.
	rec = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/ad-products/%d", ids[0]), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/summary?month=january&year=2025", nil)
	var summary service.PeriodSummary
	decode(t, rec, &summary)
	assert.Equal(t, 1, summary.ProductCount)
	assert.Equal(t, "5000", summary.Share.String())
	assert.Equal(t, 0, summary.SoldToDate)
}
