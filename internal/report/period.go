// Package report is the monthly reconciliation engine: it filters expense
// and mileage records to a calendar month, aggregates them into the
// reimbursement figures, and projects them into the row shapes shared by
// every export format. The package is pure computation; it never mutates
// its inputs and never performs I/O.
package report

import (
	"fmt"
	"time"

	"github.com/gastos2n/gastos-tracker/internal/expense"
)

// Period is a calendar month. All aggregation is scoped to the half-open
// interval [start of month, start of next month) on UTC day boundaries.
type Period struct {
	Year  int
	Month time.Month
}

// ParsePeriod parses a YYYY-MM month key.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("parsing period %q: %w", s, err)
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

// String returns the YYYY-MM key.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Start is the first instant of the month, UTC.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the first instant of the following month, UTC (exclusive bound).
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// Contains reports whether t falls inside the period. The zero time never
// matches any period.
func (p Period) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	u := t.UTC()
	return !u.Before(p.Start()) && u.Before(p.End())
}

// FilterExpenses returns the expenses dated inside the period, preserving
// input order. Records whose date could not be parsed (zero date) are
// excluded and their IDs reported in skipped; filtering never fails.
func FilterExpenses(records []expense.Expense, p Period) (matched []expense.Expense, skipped []string) {
	matched = make([]expense.Expense, 0, len(records))
	for _, rec := range records {
		if rec.Date.IsZero() {
			skipped = append(skipped, rec.ID)
			continue
		}
		if p.Contains(rec.Date) {
			matched = append(matched, rec)
		}
	}
	return matched, skipped
}

// FilterMileage returns the mileage records dated inside the period, with
// the same contract as FilterExpenses.
func FilterMileage(records []expense.Mileage, p Period) (matched []expense.Mileage, skipped []string) {
	matched = make([]expense.Mileage, 0, len(records))
	for _, rec := range records {
		if rec.Date.IsZero() {
			skipped = append(skipped, rec.ID)
			continue
		}
		if p.Contains(rec.Date) {
			matched = append(matched, rec)
		}
	}
	return matched, skipped
}
