package planning

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name      string
		month     string
		year      int
		want      Period
		wantError bool
	}{
		{name: "canonical name", month: "January", year: 2025, want: Period{Month: "January", Year: 2025}},
		{name: "lower case", month: "february", year: 2024, want: Period{Month: "February", Year: 2024}},
		{name: "numeral", month: "12", year: 2025, want: Period{Month: "December", Year: 2025}},
		{name: "padded numeral", month: " 03 ", year: 2025, want: Period{Month: "March", Year: 2025}},
		{name: "unknown month", month: "Smarch", year: 2025, wantError: true},
		{name: "month out of range", month: "13", year: 2025, wantError: true},
		{name: "two digit year", month: "May", year: 25, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePeriod(tt.month, tt.year)
			if tt.wantError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestPeriod_DaysInMonth(t *testing.T) {
	assert.Equal(t, 31, Period{Month: "January", Year: 2025}.DaysInMonth())
	assert.Equal(t, 28, Period{Month: "February", Year: 2025}.DaysInMonth())
	assert.Equal(t, 29, Period{Month: "February", Year: 2024}.DaysInMonth())
	assert.Equal(t, 30, Period{Month: "April", Year: 2025}.DaysInMonth())
	assert.Equal(t, 0, Period{Month: "Nope", Year: 2025}.DaysInMonth())
}

func TestPeriod_DateAndContains(t *testing.T) {
	p := Period{Month: "March", Year: 2025}
	d := p.Date(15)

	assert.Equal(t, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), d)
	assert.True(t, p.Contains(d))
	assert.False(t, p.Contains(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-03", p.Key())
	assert.Equal(t, "March 2025", p.String())
}

func TestPeriod_Equal(t *testing.T) {
	assert.True(t, Period{Month: "march", Year: 2025}.Equal(Period{Month: "March", Year: 2025}))
	assert.False(t, Period{Month: "March", Year: 2025}.Equal(Period{Month: "March", Year: 2024}))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-01-10")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Day())

	_, err = ParseDate("10/01/2025")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAdProductEntry_DerivedCosts(t *testing.T) {
	pct := decimal.NewFromInt(20)
	e := AdProductEntry{
		BuyingPrice:       decimal.NewFromInt(30),
		FBAdCost:          decimal.NewFromInt(12),
		DeliveryCost:      decimal.NewFromInt(8),
		ReturnParcelQty:   5,
		DamagedProductQty: 2,
		MonthlyBudget:     decimal.NewFromInt(2500),
		DesiredProfitPct:  &pct,
	}

	assert.True(t, e.ReturnCost().Equal(decimal.NewFromInt(40)))
	assert.True(t, e.DamagedCost().Equal(decimal.NewFromInt(76)))
	assert.True(t, e.PerUnitCost().Equal(decimal.NewFromInt(50)))
	assert.True(t, e.FixedMonthlyCost().Equal(decimal.NewFromInt(2616)))
	assert.True(t, e.ProfitPct().Equal(pct))

	e.DesiredProfitPct = nil
	assert.True(t, e.ProfitPct().IsZero())
}

func TestExpenseType_Valid(t *testing.T) {
	assert.True(t, ExpenseFacebookAds.Valid())
	assert.False(t, ExpenseType("billboards").Valid())
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("amount", "must not be negative")
	assert.Equal(t, "amount: must not be negative", err.Error())
	assert.ErrorIs(t, err, ErrValidation)

	var ve *ValidationError
	wrapped := errors.Join(errors.New("outer"), err)
	require.ErrorAs(t, wrapped, &ve)
	assert.Equal(t, "amount", ve.Field)
}

func TestNotFound(t *testing.T) {
	err := NotFound("budget entry", 7)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "budget entry 7")
}
