package cli

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/eshaffer321/growthplan-backend/internal/application/service"
	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
	"github.com/eshaffer321/growthplan-backend/internal/infrastructure/storage"
)

func TestPrintRun(t *testing.T) {
	var buf bytes.Buffer
	PrintRun(&buf, &storage.RecomputeRun{
		ID:           7,
		Period:       planning.Period{Month: "January", Year: 2025},
		Trigger:      "manual",
		Status:       storage.RecomputeFailed,
		ProductCount: 2,
		BudgetTotal:  decimal.NewFromInt(5000),
		Share:        decimal.NewFromInt(2500),
		Error:        "period is locked by another update",
	})

	out := buf.String()
	assert.Contains(t, out, "Run #7 January 2025 (manual) status=failed")
	assert.Contains(t, out, "Share=2500.00")
	assert.Contains(t, out, "recompute -retry 7")
}

func TestPrintBatch(t *testing.T) {
	var buf bytes.Buffer
	PrintBatch(&buf, &service.BatchResult{
		Period:    planning.Period{Month: "March", Year: 2025},
		AsOfDay:   14,
		Succeeded: 2,
		Failed:    1,
		Errors:    []service.ItemError{{AdProductEntryID: 9, Error: "disk full"}},
	})

	out := buf.String()
	assert.Contains(t, out, "Succeeded=2 Failed=1")
	assert.Contains(t, out, "ad product 9: disk full")
}
