package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/gastos2n/gastos-tracker/internal/expense"
)

// ExpenseRow is the normalized projection of one expense record. Every
// export format (tabular report, spreadsheet, archive manifest) renders
// from these rows, so the figures are identical across formats.
type ExpenseRow struct {
	Date     string `json:"date"`
	Provider string `json:"provider"`
	Category string `json:"category"`
	PaidWith string `json:"paidWith"`
	Notes    string `json:"notes"`
	// Amount is the 2-decimal rendering of the stored amount.
	Amount string `json:"amount"`
}

// MileageRow is the normalized projection of one mileage record.
type MileageRow struct {
	Date string `json:"date"`
	// Type is the classified label, "Company" or "Personal".
	Type     string `json:"type"`
	Distance string `json:"distance"`
	// FuelPrice is blank when the record carries no usable price.
	FuelPrice string `json:"fuelPrice"`
	// PersonalCost is blank for company trips; for personal trips it is
	// the same figure the aggregator sums, rounded to 2 decimals.
	PersonalCost string `json:"personalCost"`
	Notes        string `json:"notes"`
}

// ProjectExpense maps one record to its row. Pure and per-record: the
// output never depends on other rows or on projection order.
func ProjectExpense(e expense.Expense) ExpenseRow {
	return ExpenseRow{
		Date:     dayString(e.Date),
		Provider: e.Provider,
		Category: strings.ToLower(strings.TrimSpace(e.Category)),
		PaidWith: strings.ToLower(strings.TrimSpace(e.PaidWith)),
		Notes:    e.Notes,
		Amount:   money(e.Amount),
	}
}

// ProjectMileage maps one record to its row.
func ProjectMileage(m expense.Mileage) MileageRow {
	row := MileageRow{
		Date:     dayString(m.Date),
		Type:     m.Classify().Label(),
		Distance: strconv.FormatFloat(m.Distance, 'f', 1, 64),
		Notes:    m.Notes,
	}
	if m.FuelPrice > 0 {
		row.FuelPrice = money(m.FuelPrice)
	}
	if m.Classify() == expense.TripPersonal {
		row.PersonalCost = money(personalTripCost(m))
	}
	return row
}

// ExpenseRows projects a filtered slice, preserving order.
func ExpenseRows(records []expense.Expense) []ExpenseRow {
	rows := make([]ExpenseRow, len(records))
	for i, rec := range records {
		rows[i] = ProjectExpense(rec)
	}
	return rows
}

// MileageRows projects a filtered slice, preserving order.
func MileageRows(records []expense.Mileage) []MileageRow {
	rows := make([]MileageRow, len(records))
	for i, rec := range records {
		rows[i] = ProjectMileage(rec)
	}
	return rows
}

// categoryColumns maps expense categories to their destination column in
// the paper expense template. This is a business contract with the
// template, not incidental formatting; keep it as one table.
var categoryColumns = map[string]string{
	expense.CategoryTolls:     "C",
	expense.CategoryLodging:   "D",
	expense.CategoryFuel:      "E",
	expense.CategoryTransport: "G",
	expense.CategoryFood:      "I",
}

// FallbackColumn receives every category without a dedicated column,
// including varios, ingreso and unrecognized values.
const FallbackColumn = "J"

// TotalColumn receives every row's amount regardless of category.
const TotalColumn = "K"

// CategoryColumn returns the template column for a category.
func CategoryColumn(category string) string {
	if col, ok := categoryColumns[strings.ToLower(strings.TrimSpace(category))]; ok {
		return col
	}
	return FallbackColumn
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func dayString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}
