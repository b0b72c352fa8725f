package service

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/eshaffer321/growthplan-backend/internal/domain/allocator"
	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
	"github.com/eshaffer321/growthplan-backend/internal/infrastructure/storage"
)

// ProductProgress is one ad product's standing within its period.
type ProductProgress struct {
	Entry       planning.AdProductEntry `json:"entry"`
	SoldToDate  int                     `json:"sold_to_date"`
	ProgressPct decimal.Decimal         `json:"progress_pct"`
}

// PeriodSummary aggregates a period's plan.
type PeriodSummary struct {
	Period               planning.Period                          `json:"period"`
	BudgetTotal          decimal.Decimal                          `json:"budget_total"`
	BudgetByExpenseType  map[planning.ExpenseType]decimal.Decimal `json:"budget_by_expense_type"`
	Share                decimal.Decimal                          `json:"share"`
	ProductCount         int                                      `json:"product_count"`
	InfeasibleCount      int                                      `json:"infeasible_count"`
	RequiredMonthlyUnits int                                      `json:"required_monthly_units"`
	SoldToDate           int                                      `json:"sold_to_date"`
	ProgressPct          decimal.Decimal                          `json:"progress_pct"`
	Products             []ProductProgress                        `json:"products"`
}

// PeriodSummary totals budget, targets and sales for period.
func (s *PlannerService) PeriodSummary(ctx context.Context, period planning.Period) (*PeriodSummary, error) {
	p, err := normalizePeriod(period)
	if err != nil {
		return nil, err
	}
	budgets, err := s.repo.ListBudgets(ctx, storage.BudgetFilter{Period: &p})
	if err != nil {
		return nil, err
	}
	products, err := s.repo.ListAdProducts(ctx, storage.AdProductFilter{Period: &p})
	if err != nil {
		return nil, err
	}

	lines := make([]allocator.BudgetLine, 0, len(budgets))
	byType := make(map[planning.ExpenseType]decimal.Decimal)
	for _, b := range budgets {
		lines = append(lines, allocator.BudgetLine{Period: b.Period, Amount: b.Amount})
		byType[b.ExpenseType] = byType[b.ExpenseType].Add(b.Amount)
	}
	periods := make([]planning.Period, 0, len(products))
	for _, e := range products {
		periods = append(periods, e.Period)
	}
	dist := allocator.DistributeBudget(lines, periods, p)

	summary := &PeriodSummary{
		Period:              p,
		BudgetTotal:         dist.Total,
		BudgetByExpenseType: byType,
		Share:               dist.Share,
		ProductCount:        len(products),
		Products:            make([]ProductProgress, 0, len(products)),
	}
	for _, e := range products {
		rows, err := s.repo.ListSellingTargets(ctx, e.ID, &p)
		if err != nil {
			return nil, err
		}
		sold := 0
		for _, r := range rows {
			sold += r.SoldUnits
		}
		if e.TargetStatus == planning.TargetInfeasible {
			summary.InfeasibleCount++
		}
		summary.RequiredMonthlyUnits += e.RequiredMonthlyUnits
		summary.SoldToDate += sold
		summary.Products = append(summary.Products, ProductProgress{
			Entry:       e,
			SoldToDate:  sold,
			ProgressPct: progressPct(sold, e.RequiredMonthlyUnits),
		})
	}
	summary.ProgressPct = progressPct(summary.SoldToDate, summary.RequiredMonthlyUnits)
	return summary, nil
}

// progressPct is sold as a percentage of target, rounded to one decimal.
// A zero target reports zero progress.
func progressPct(sold, target int) decimal.Decimal {
	if target <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(sold)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(target))).
		Round(1)
}

// ExportPeriodReport writes the period summary as an xlsx workbook with a
// Summary, a Products and a Budget sheet.
func (s *PlannerService) ExportPeriodReport(ctx context.Context, period planning.Period, w io.Writer) error {
	summary, err := s.PeriodSummary(ctx, period)
	if err != nil {
		return err
	}
	budgets, err := s.repo.ListBudgets(ctx, storage.BudgetFilter{Period: &summary.Period})
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), "Summary"); err != nil {
		return err
	}
	summaryRows := [][]interface{}{
		{"Period", summary.Period.String()},
		{"Budget total", summary.BudgetTotal.InexactFloat64()},
		{"Share per product", summary.Share.InexactFloat64()},
		{"Products", summary.ProductCount},
		{"Infeasible targets", summary.InfeasibleCount},
		{"Required units", summary.RequiredMonthlyUnits},
		{"Sold to date", summary.SoldToDate},
		{"Progress %", summary.ProgressPct.InexactFloat64()},
	}
	if err := writeRows(f, "Summary", summaryRows); err != nil {
		return err
	}

	if _, err := f.NewSheet("Products"); err != nil {
		return err
	}
	productRows := [][]interface{}{{
		"ID", "Product ID", "Product", "Buying", "Selling", "Ad cost", "Delivery",
		"Returns", "Damaged", "Budget share", "Profit %", "Monthly units", "Daily units",
		"Status", "Sold", "Progress %",
	}}
	for _, pp := range summary.Products {
		e := pp.Entry
		productRows = append(productRows, []interface{}{
			e.ID, e.ProductID, e.ProductName,
			e.BuyingPrice.InexactFloat64(), e.SellingPrice.InexactFloat64(),
			e.FBAdCost.InexactFloat64(), e.DeliveryCost.InexactFloat64(),
			e.ReturnParcelQty, e.DamagedProductQty,
			e.MonthlyBudget.InexactFloat64(), e.ProfitPct().InexactFloat64(),
			e.RequiredMonthlyUnits, e.RequiredDailyUnits, string(e.TargetStatus),
			pp.SoldToDate, pp.ProgressPct.InexactFloat64(),
		})
	}
	if err := writeRows(f, "Products", productRows); err != nil {
		return err
	}

	if _, err := f.NewSheet("Budget"); err != nil {
		return err
	}
	budgetRows := [][]interface{}{{"ID", "Expense type", "Amount", "Currency", "Note"}}
	for _, b := range budgets {
		budgetRows = append(budgetRows, []interface{}{
			b.ID, string(b.ExpenseType), b.Amount.InexactFloat64(), b.Currency, b.Note,
		})
	}
	if err := writeRows(f, "Budget", budgetRows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
