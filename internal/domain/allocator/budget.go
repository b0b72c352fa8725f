// Package allocator holds the growth-planning arithmetic.
//
// The budget distributor splits a period's marketing budget evenly over
// the products advertised in that period:
//
//	share = sum(budget amounts in period) / max(1, products in period)
//
// The target calculator turns a product's costs and its share into a
// required monthly and daily unit volume, and the daily redistributor
// spreads whatever is still outstanding over the rest of the month.
package allocator

import (
	"github.com/shopspring/decimal"

	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
)

// BudgetLine is the part of a budget entry the distributor needs.
type BudgetLine struct {
	Period planning.Period
	Amount decimal.Decimal
}

// Distribution is the outcome of splitting one period's budget.
type Distribution struct {
	Period       planning.Period
	Total        decimal.Decimal
	ProductCount int
	Share        decimal.Decimal
}

// DistributeBudget sums the budget lines of period and divides the total
// over the products of the same period. A period with no products still
// divides by one so the share equals the total.
func DistributeBudget(budgets []BudgetLine, products []planning.Period, period planning.Period) Distribution {
	total := decimal.Zero
	for _, b := range budgets {
		if b.Period.Equal(period) {
			total = total.Add(b.Amount)
		}
	}

	count := 0
	for _, p := range products {
		if p.Equal(period) {
			count++
		}
	}

	divisor := count
	if divisor < 1 {
		divisor = 1
	}

	return Distribution{
		Period:       period,
		Total:        total,
		ProductCount: count,
		Share:        roundToCents(total.Div(decimal.NewFromInt(int64(divisor)))),
	}
}

// MonthlyBudgetShare returns each product's share of the period budget.
func MonthlyBudgetShare(budgets []BudgetLine, products []planning.Period, period planning.Period) decimal.Decimal {
	return DistributeBudget(budgets, products, period).Share
}

// roundToCents rounds to 2 decimal places.
func roundToCents(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}
