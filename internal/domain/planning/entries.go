package planning

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseType categorizes a budget line.
type ExpenseType string

const (
	ExpenseFacebookAds ExpenseType = "facebook_ads"
	ExpenseGoogleAds   ExpenseType = "google_ads"
	ExpenseTikTokAds   ExpenseType = "tiktok_ads"
	ExpenseInfluencer  ExpenseType = "influencer"
	ExpenseContent     ExpenseType = "content"
	ExpenseOther       ExpenseType = "other"
)

// ExpenseTypes lists every accepted expense type.
var ExpenseTypes = []ExpenseType{
	ExpenseFacebookAds,
	ExpenseGoogleAds,
	ExpenseTikTokAds,
	ExpenseInfluencer,
	ExpenseContent,
	ExpenseOther,
}

// Valid reports whether t is a known expense type.
func (t ExpenseType) Valid() bool {
	for _, known := range ExpenseTypes {
		if t == known {
			return true
		}
	}
	return false
}

// TargetStatus tells a reachable target apart from one the current
// price and cost inputs can never reach.
type TargetStatus string

const (
	TargetFeasible   TargetStatus = "feasible"
	TargetInfeasible TargetStatus = "infeasible"
)

// BudgetEntry is one line item of planned spend for a period.
type BudgetEntry struct {
	ID          int64           `json:"id"`
	Period      Period          `json:"period"`
	ExpenseType ExpenseType     `json:"expense_type" validate:"required,expense_type"`
	Amount      decimal.Decimal `json:"amount" validate:"gte=0"`
	Currency    string          `json:"currency" validate:"omitempty,len=3,alpha"`
	Note        string          `json:"note,omitempty" validate:"max=500"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// AdProductEntry is one product's cost and target record for a period.
type AdProductEntry struct {
	ID           int64  `json:"id"`
	ProductID    string `json:"product_id" validate:"required"`
	ProductName  string `json:"product_name" validate:"required"`
	ProductImage string `json:"product_image,omitempty"`
	Period       Period `json:"period"`

	BuyingPrice       decimal.Decimal `json:"buying_price" validate:"gte=0"`
	SellingPrice      decimal.Decimal `json:"selling_price" validate:"gte=0"`
	FBAdCost          decimal.Decimal `json:"fb_ad_cost" validate:"gte=0"`
	DeliveryCost      decimal.Decimal `json:"delivery_cost" validate:"gte=0"`
	ReturnParcelQty   int             `json:"return_parcel_qty" validate:"gte=0"`
	DamagedProductQty int             `json:"damaged_product_qty" validate:"gte=0"`

	MonthlyBudget    decimal.Decimal  `json:"monthly_budget" validate:"gte=0"`
	DesiredProfitPct *decimal.Decimal `json:"desired_profit_pct,omitempty" validate:"omitempty,gte=0,lte=1000"`

	// Derived by the allocator, never edited directly.
	RequiredMonthlyUnits int          `json:"required_monthly_units"`
	RequiredDailyUnits   int          `json:"required_daily_units"`
	TargetStatus         TargetStatus `json:"target_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReturnCost is the delivery cost lost on returned parcels.
func (e *AdProductEntry) ReturnCost() decimal.Decimal {
	return decimal.NewFromInt(int64(e.ReturnParcelQty)).Mul(e.DeliveryCost)
}

// DamagedCost is the buying and delivery cost lost on damaged units.
func (e *AdProductEntry) DamagedCost() decimal.Decimal {
	return decimal.NewFromInt(int64(e.DamagedProductQty)).Mul(e.BuyingPrice.Add(e.DeliveryCost))
}

// PerUnitCost is buying price + ad cost + delivery cost.
func (e *AdProductEntry) PerUnitCost() decimal.Decimal {
	return e.BuyingPrice.Add(e.FBAdCost).Add(e.DeliveryCost)
}

// FixedMonthlyCost is the budget share plus return and damage costs.
func (e *AdProductEntry) FixedMonthlyCost() decimal.Decimal {
	return e.MonthlyBudget.Add(e.ReturnCost()).Add(e.DamagedCost())
}

// ProfitPct returns the desired profit percentage, zero when unset.
func (e *AdProductEntry) ProfitPct() decimal.Decimal {
	if e.DesiredProfitPct == nil {
		return decimal.Zero
	}
	return *e.DesiredProfitPct
}

// SellingTargetEntry is one calendar day's plan vs. actual for a product.
type SellingTargetEntry struct {
	ID               int64     `json:"id"`
	AdProductEntryID int64     `json:"ad_product_entry_id"`
	Date             time.Time `json:"date"`
	TargetUnits      int       `json:"target_units" validate:"gte=0"`
	SoldUnits        int       `json:"sold_units" validate:"gte=0"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Day returns the day of month of the entry.
func (e *SellingTargetEntry) Day() int {
	return e.Date.Day()
}

// Category is a read-only catalog category.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product is a read-only catalog product supplying price defaults.
type Product struct {
	ID           string          `json:"id"`
	CategoryID   int64           `json:"category_id"`
	Name         string          `json:"name"`
	Image        string          `json:"image,omitempty"`
	BuyingPrice  decimal.Decimal `json:"buying_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
}
