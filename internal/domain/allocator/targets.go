package allocator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
)

// ErrInvalidInput is returned for negative costs or an impossible month length.
var ErrInvalidInput = errors.New("invalid allocator input")

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// TargetInput holds the per-product figures the calculator needs.
type TargetInput struct {
	PerUnitCost      decimal.Decimal // buying + ad + delivery, per unit
	FixedMonthlyCost decimal.Decimal // budget share + return cost + damaged cost
	SellingPrice     decimal.Decimal
	DesiredProfitPct decimal.Decimal // 10 means 10%
	DaysInMonth      int
}

// Targets is the required sales volume for a product.
type Targets struct {
	MonthlyUnits int
	DailyUnits   int
	Status       planning.TargetStatus

	// UnitMargin is sellingPrice - perUnitCost*(1+p). Zero or negative
	// means the status is infeasible.
	UnitMargin decimal.Decimal
}

// ComputeTargets derives the monthly and daily unit volume that yields the
// desired profit on total cost:
//
//	p = pct / 100
//	margin = sellingPrice - perUnitCost*(1+p)
//	monthly = ceil((1+p) * fixedMonthlyCost / margin)
//	daily = ceil(monthly / daysInMonth)
//
// When margin <= 0 no volume can reach the profit goal, so both targets are
// zero and Status is TargetInfeasible.
func ComputeTargets(in TargetInput) (Targets, error) {
	if err := in.validate(); err != nil {
		return Targets{}, err
	}

	markup := one.Add(in.DesiredProfitPct.Div(hundred))
	margin := in.SellingPrice.Sub(in.PerUnitCost.Mul(markup))

	if !margin.IsPositive() {
		return Targets{
			Status:     planning.TargetInfeasible,
			UnitMargin: margin,
		}, nil
	}

	monthly := markup.Mul(in.FixedMonthlyCost).Div(margin).Ceil().IntPart()

	var daily int64
	if monthly > 0 {
		daily = decimal.NewFromInt(monthly).Div(decimal.NewFromInt(int64(in.DaysInMonth))).Ceil().IntPart()
	}

	return Targets{
		MonthlyUnits: int(monthly),
		DailyUnits:   int(daily),
		Status:       planning.TargetFeasible,
		UnitMargin:   margin,
	}, nil
}

func (in TargetInput) validate() error {
	switch {
	case in.PerUnitCost.IsNegative():
		return fmt.Errorf("%w: per-unit cost %s is negative", ErrInvalidInput, in.PerUnitCost)
	case in.FixedMonthlyCost.IsNegative():
		return fmt.Errorf("%w: fixed monthly cost %s is negative", ErrInvalidInput, in.FixedMonthlyCost)
	case in.SellingPrice.IsNegative():
		return fmt.Errorf("%w: selling price %s is negative", ErrInvalidInput, in.SellingPrice)
	case in.DesiredProfitPct.IsNegative():
		return fmt.Errorf("%w: desired profit %s%% is negative", ErrInvalidInput, in.DesiredProfitPct)
	case in.DaysInMonth < 1 || in.DaysInMonth > 31:
		return fmt.Errorf("%w: days in month %d", ErrInvalidInput, in.DaysInMonth)
	}
	return nil
}

// TargetInputFor builds the calculator input from a stored entry.
func TargetInputFor(e *planning.AdProductEntry) TargetInput {
	return TargetInput{
		PerUnitCost:      e.PerUnitCost(),
		FixedMonthlyCost: e.FixedMonthlyCost(),
		SellingPrice:     e.SellingPrice,
		DesiredProfitPct: e.ProfitPct(),
		DaysInMonth:      e.Period.DaysInMonth(),
	}
}

// ApplyTargets recomputes the derived target fields of e in place.
func ApplyTargets(e *planning.AdProductEntry) error {
	t, err := ComputeTargets(TargetInputFor(e))
	if err != nil {
		return err
	}
	e.RequiredMonthlyUnits = t.MonthlyUnits
	e.RequiredDailyUnits = t.DailyUnits
	e.TargetStatus = t.Status
	return nil
}
