package report

import "github.com/gastos2n/gastos-tracker/internal/expense"

// Summary is the statistics block for one period. Sums are kept at full
// float precision; rounding happens only when rows are projected or the
// values are displayed.
type Summary struct {
	// TotalExpenses is the sum of all expense amounts in the period.
	TotalExpenses float64 `json:"totalExpenses"`
	// PersonalPaidTotal is the sum of amounts the employee paid out of
	// their own funds.
	PersonalPaidTotal float64 `json:"personalPaidTotal"`
	// CompanyKm and PersonalKm partition the period's distance by trip
	// classification.
	CompanyKm  float64 `json:"companyKm"`
	PersonalKm float64 `json:"personalKm"`
	// PersonalKmCost is the imputed fuel cost of personal trips:
	// distance/100 * consumption * price per liter, summed over trips
	// with a positive fuel price.
	PersonalKmCost float64 `json:"personalKmCost"`
	// ReimbursementBalance is PersonalPaidTotal - PersonalKmCost. A
	// negative balance means the employee owes the company.
	ReimbursementBalance float64 `json:"reimbursementBalance"`
}

// personalTripCost is the liters-consumed-times-price model. Trips with no
// usable fuel price contribute nothing regardless of distance.
func personalTripCost(m expense.Mileage) float64 {
	if m.FuelPrice <= 0 {
		return 0
	}
	return m.Distance / 100 * m.EffectiveConsumption() * m.FuelPrice
}

// Aggregate computes the summary for an already-filtered period. It is a
// pure function: same inputs, same output, inputs never mutated.
func Aggregate(expenses []expense.Expense, trips []expense.Mileage) Summary {
	var s Summary

	for _, e := range expenses {
		s.TotalExpenses += e.Amount
		if e.PaidWith == expense.PaidPersonal {
			s.PersonalPaidTotal += e.Amount
		}
	}

	for _, m := range trips {
		switch m.Classify() {
		case expense.TripPersonal:
			s.PersonalKm += m.Distance
			s.PersonalKmCost += personalTripCost(m)
		default:
			s.CompanyKm += m.Distance
		}
	}

	s.ReimbursementBalance = s.PersonalPaidTotal - s.PersonalKmCost
	return s
}
