package dto

import (
	"github.com/shopspring/decimal"

	"github.com/eshaffer321/growthplan-backend/internal/application/service"
	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
)

// PeriodQuery is the month/year pair accepted by list and report endpoints.
// Month takes a name in any case or a numeral.
type PeriodQuery struct {
	Month string `form:"month"`
	Year  int    `form:"year"`
}

// IsSet reports whether either half of the period was given.
func (q PeriodQuery) IsSet() bool {
	return q.Month != "" || q.Year != 0
}

// Period converts the query into a normalized period.
func (q PeriodQuery) Period() (planning.Period, error) {
	return planning.ParsePeriod(q.Month, q.Year)
}

// BudgetRequest is the body of POST and PUT /api/budget.
type BudgetRequest struct {
	Month       string          `json:"month"`
	Year        int             `json:"year"`
	ExpenseType string          `json:"expense_type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Note        string          `json:"note"`
}

// Entry maps the request onto a budget entry.
func (r BudgetRequest) Entry() *planning.BudgetEntry {
	return &planning.BudgetEntry{
		Period:      planning.Period{Month: r.Month, Year: r.Year},
		ExpenseType: planning.ExpenseType(r.ExpenseType),
		Amount:      r.Amount,
		Currency:    r.Currency,
		Note:        r.Note,
	}
}

// AdProductRequest is the body of POST /api/ad-products. Zero prices are
// filled from the catalog product.
type AdProductRequest struct {
	ProductID         string           `json:"product_id"`
	ProductName       string           `json:"product_name"`
	ProductImage      string           `json:"product_image"`
	Month             string           `json:"month"`
	Year              int              `json:"year"`
	BuyingPrice       decimal.Decimal  `json:"buying_price"`
	SellingPrice      decimal.Decimal  `json:"selling_price"`
	FBAdCost          decimal.Decimal  `json:"fb_ad_cost"`
	DeliveryCost      decimal.Decimal  `json:"delivery_cost"`
	ReturnParcelQty   int              `json:"return_parcel_qty"`
	DamagedProductQty int              `json:"damaged_product_qty"`
	DesiredProfitPct  *decimal.Decimal `json:"desired_profit_pct"`
}

// Entry maps the request onto an ad product entry.
func (r AdProductRequest) Entry() *planning.AdProductEntry {
	return &planning.AdProductEntry{
		ProductID:         r.ProductID,
		ProductName:       r.ProductName,
		ProductImage:      r.ProductImage,
		Period:            planning.Period{Month: r.Month, Year: r.Year},
		BuyingPrice:       r.BuyingPrice,
		SellingPrice:      r.SellingPrice,
		FBAdCost:          r.FBAdCost,
		DeliveryCost:      r.DeliveryCost,
		ReturnParcelQty:   r.ReturnParcelQty,
		DamagedProductQty: r.DamagedProductQty,
		DesiredProfitPct:  r.DesiredProfitPct,
	}
}

// AdProductPatchRequest is the body of PUT /api/ad-products/:id. Absent
// fields are left unchanged; clear_desired_profit_pct unsets the target.
type AdProductPatchRequest struct {
	ProductID             *string          `json:"product_id"`
	ProductName           *string          `json:"product_name"`
	ProductImage          *string          `json:"product_image"`
	Month                 *string          `json:"month"`
	Year                  *int             `json:"year"`
	BuyingPrice           *decimal.Decimal `json:"buying_price"`
	SellingPrice          *decimal.Decimal `json:"selling_price"`
	FBAdCost              *decimal.Decimal `json:"fb_ad_cost"`
	DeliveryCost          *decimal.Decimal `json:"delivery_cost"`
	ReturnParcelQty       *int             `json:"return_parcel_qty"`
	DamagedProductQty     *int             `json:"damaged_product_qty"`
	DesiredProfitPct      *decimal.Decimal `json:"desired_profit_pct"`
	ClearDesiredProfitPct bool             `json:"clear_desired_profit_pct"`
}

// Patch maps the request onto a service patch.
func (r AdProductPatchRequest) Patch() service.AdProductPatch {
	return service.AdProductPatch{
		ProductID:             r.ProductID,
		ProductName:           r.ProductName,
		ProductImage:          r.ProductImage,
		Month:                 r.Month,
		Year:                  r.Year,
		BuyingPrice:           r.BuyingPrice,
		SellingPrice:          r.SellingPrice,
		FBAdCost:              r.FBAdCost,
		DeliveryCost:          r.DeliveryCost,
		ReturnParcelQty:       r.ReturnParcelQty,
		DamagedProductQty:     r.DamagedProductQty,
		DesiredProfitPct:      r.DesiredProfitPct,
		ClearDesiredProfitPct: r.ClearDesiredProfitPct,
	}
}

// SellingTargetRequest is the body of POST /api/selling-targets.
type SellingTargetRequest struct {
	AdProductEntryID int64  `json:"ad_product_entry_id" binding:"required"`
	Date             string `json:"date" binding:"required"`
	SoldUnits        int    `json:"sold_units"`
}

// SellingTargetQuery filters GET /api/selling-targets.
type SellingTargetQuery struct {
	AdProductEntryID int64 `form:"ad_product_entry_id" binding:"required"`
	PeriodQuery
}

// RecomputeRequest is the body of POST /api/recompute.
type RecomputeRequest struct {
	Month string `json:"month"`
	Year  int    `json:"year"`
}

// RunListParams are the query parameters of GET /api/recompute/runs.
type RunListParams struct {
	Limit int `form:"limit"`
}

// DefaultRunListParams returns default values for run list params.
func DefaultRunListParams() RunListParams {
	return RunListParams{
		Limit: 20,
	}
}
