package allocator

import (
	"fmt"
	"time"

	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
)

// DailySale is a recorded day of actual sales.
type DailySale struct {
	Date      time.Time
	SoldUnits int
}

// RedistributeInput describes the state of a product's month.
type RedistributeInput struct {
	Period planning.Period
	// CurrentDay is the last day with recorded sales. Zero plans the whole month.
	CurrentDay    int
	MonthlyTarget int
	Sold          []DailySale
}

// DayPlan is the planned volume for one remaining day.
type DayPlan struct {
	Date         time.Time
	Day          int
	PlannedUnits int
}

// Plan is the redistributed remainder of a month.
type Plan struct {
	SoldToDate      int
	RemainingNeeded int
	Days            []DayPlan
}

// Redistribute spreads the outstanding monthly requirement evenly over the
// days after CurrentDay. The first (remaining mod days) days get one extra
// unit, so the plan always sums to exactly the outstanding requirement.
// Nothing is planned once CurrentDay reaches the end of the month.
func Redistribute(in RedistributeInput) (*Plan, error) {
	if !in.Period.Valid() {
		return nil, fmt.Errorf("%w: period %q", ErrInvalidInput, in.Period.String())
	}
	if in.CurrentDay < 0 || in.CurrentDay > 31 {
		return nil, fmt.Errorf("%w: current day %d", ErrInvalidInput, in.CurrentDay)
	}
	if in.MonthlyTarget < 0 {
		return nil, fmt.Errorf("%w: monthly target %d is negative", ErrInvalidInput, in.MonthlyTarget)
	}

	sold := 0
	for _, s := range in.Sold {
		if s.SoldUnits < 0 {
			return nil, fmt.Errorf("%w: negative sold units on %s", ErrInvalidInput, s.Date.Format(planning.DateLayout))
		}
		if in.Period.Contains(s.Date) && s.Date.Day() <= in.CurrentDay {
			sold += s.SoldUnits
		}
	}

	needed := in.MonthlyTarget - sold
	if needed < 0 {
		needed = 0
	}

	plan := &Plan{SoldToDate: sold, RemainingNeeded: needed}

	days := in.Period.DaysInMonth()
	remaining := days - in.CurrentDay
	if remaining <= 0 {
		return plan, nil
	}

	base := needed / remaining
	extra := needed % remaining

	plan.Days = make([]DayPlan, 0, remaining)
	for offset := 0; offset < remaining; offset++ {
		units := base
		if offset < extra {
			units++
		}
		day := in.CurrentDay + 1 + offset
		plan.Days = append(plan.Days, DayPlan{
			Date:         in.Period.Date(day),
			Day:          day,
			PlannedUnits: units,
		})
	}

	return plan, nil
}

// Total returns the sum of planned units over the remaining days.
func (p *Plan) Total() int {
	total := 0
	for _, d := range p.Days {
		total += d.PlannedUnits
	}
	return total
}
