package expense

import "strings"

// TripType is the classification of a mileage record. It is decided once
// when the record is created; ClassifyTrip remains as a compatibility shim
// for legacy records that only carry free-text type values.
type TripType string

const (
	TripCompany  TripType = "company"
	TripPersonal TripType = "personal"
)

// ClassifyTrip maps a free-text trip type to a TripType. Any value
// containing "per" (case-insensitive) is personal; everything else,
// including ambiguous or empty values, is company.
func ClassifyTrip(raw string) TripType {
	if strings.Contains(strings.ToLower(raw), "per") {
		return TripPersonal
	}
	return TripCompany
}

// Label returns the display name used by report rows.
func (t TripType) Label() string {
	if t == TripPersonal {
		return "Personal"
	}
	return "Company"
}
