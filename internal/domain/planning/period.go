// Package planning holds the growth-planning entities shared by the
// allocator, the application service and the storage layer.
package planning

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period identifies a planning month, e.g. "January 2025".
type Period struct {
	Month string `json:"month" validate:"required,month"`
	Year  int    `json:"year" validate:"gte=1000,lte=9999"`
}

var monthsByName = func() map[string]time.Month {
	m := make(map[string]time.Month, 12)
	for i := time.January; i <= time.December; i++ {
		m[strings.ToLower(i.String())] = i
	}
	return m
}()

// ParsePeriod normalizes a month name (any case) or a numeral 1-12 together
// with a 4-digit year.
func ParsePeriod(month string, year int) (Period, error) {
	m, ok := parseMonth(month)
	if !ok {
		return Period{}, NewValidationError("month", fmt.Sprintf("invalid month %q", month))
	}
	if year < 1000 || year > 9999 {
		return Period{}, NewValidationError("year", fmt.Sprintf("invalid year %d", year))
	}
	return Period{Month: m.String(), Year: year}, nil
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Month: t.Month().String(), Year: t.Year()}
}

func parseMonth(s string) (time.Month, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return time.Month(n), true
		}
		return 0, false
	}
	m, ok := monthsByName[strings.ToLower(s)]
	return m, ok
}

// Valid reports whether the period has a canonical month name and a 4-digit year.
func (p Period) Valid() bool {
	m, ok := monthsByName[strings.ToLower(p.Month)]
	return ok && m.String() == p.Month && p.Year >= 1000 && p.Year <= 9999
}

// MonthNumber returns the calendar month, or 0 when the name is unknown.
func (p Period) MonthNumber() time.Month {
	m, _ := parseMonth(p.Month)
	return m
}

// DaysInMonth returns the number of calendar days in the period.
func (p Period) DaysInMonth() int {
	m := p.MonthNumber()
	if m == 0 {
		return 0
	}
	// Day 0 of the next month is the last day of this one.
	return time.Date(p.Year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Date returns the UTC midnight of the given day in the period.
func (p Period) Date(day int) time.Time {
	return time.Date(p.Year, p.MonthNumber(), day, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether the calendar day d falls inside the period.
func (p Period) Contains(d time.Time) bool {
	return d.Year() == p.Year && d.Month() == p.MonthNumber()
}

// Equal compares periods after normalizing the month name.
func (p Period) Equal(o Period) bool {
	return p.Year == o.Year && p.MonthNumber() == o.MonthNumber()
}

func (p Period) String() string {
	return fmt.Sprintf("%s %d", p.Month, p.Year)
}

// Key is a stable identifier used for lock names and cache keys.
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.MonthNumber()))
}

// DateLayout is the wire and storage format for calendar days.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar day as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, NewValidationError("date", fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s))
	}
	return d, nil
}
