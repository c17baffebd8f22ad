package expense

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Expense categories as used by the data-entry forms and the OCR prompt.
// The field itself is an open string: unrecognized values pass through.
const (
	CategoryFood      = "comida"
	CategoryTolls     = "peajes"
	CategoryFuel      = "gasolina"
	CategoryTransport = "transporte"
	CategoryLodging   = "alojamiento"
	CategoryLeisure   = "ocio"
	CategoryServices  = "servicios"
	CategoryMisc      = "varios"
	CategoryIncome    = "ingreso"
)

// Payment methods. PaidWith drives the reimbursement calculation.
const (
	PaidCompany  = "empresa"
	PaidPersonal = "personal"
)

// Categories returns the known category values in form order.
func Categories() []string {
	return []string{
		CategoryFood, CategoryTolls, CategoryFuel, CategoryTransport,
		CategoryLodging, CategoryLeisure, CategoryServices, CategoryMisc,
		CategoryIncome,
	}
}

// KnownCategory reports whether cat is one of the fixed category values.
func KnownCategory(cat string) bool {
	switch strings.ToLower(strings.TrimSpace(cat)) {
	case CategoryFood, CategoryTolls, CategoryFuel, CategoryTransport,
		CategoryLodging, CategoryLeisure, CategoryServices, CategoryMisc,
		CategoryIncome:
		return true
	}
	return false
}

// Expense is a single expense record. Dates are day-granular UTC.
type Expense struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Amount    float64   `json:"amount"`
	Provider  string    `json:"provider"`
	Category  string    `json:"category"`
	PaidWith  string    `json:"paidWith"`
	Notes     string    `json:"notes"`
	PhotoPath string    `json:"photoPath,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Degraded lists field names that were coerced to their zero value
	// during decoding. Not persisted.
	Degraded []string `json:"-"`
}

// Mileage is a single trip record. Distance is kilometers.
type Mileage struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Distance float64   `json:"km"`
	Type     string    `json:"type"`
	Trip     TripType  `json:"tripType,omitempty"`
	// FuelPrice is the price per liter. Zero or negative means no
	// personal cost is attributed to this trip.
	FuelPrice float64 `json:"fuelPrice,omitempty"`
	// Consumption is liters per 100 km. Non-positive falls back to the
	// default rate.
	Consumption float64   `json:"consumption,omitempty"`
	TotalKm     float64   `json:"totalKm,omitempty"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`

	Degraded []string `json:"-"`
}

// DefaultConsumption is the fuel consumption rate assumed when a trip
// carries none, in liters per 100 km.
const DefaultConsumption = 6.0

// EffectiveConsumption returns the trip's consumption rate, falling back
// to DefaultConsumption when absent or non-positive.
func (m Mileage) EffectiveConsumption() float64 {
	if m.Consumption > 0 {
		return m.Consumption
	}
	return DefaultConsumption
}

// Classify returns the trip's classification. Records created through the
// service carry an explicit TripType; legacy records fall back to the
// free-text match on Type.
func (m Mileage) Classify() TripType {
	if m.Trip == TripCompany || m.Trip == TripPersonal {
		return m.Trip
	}
	return ClassifyTrip(m.Type)
}

// looseDateFormats are the layouts accepted for stored dates, most
// specific first. Legacy local-store exports used plain day strings.
var looseDateFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
}

// parseLooseDate decodes a raw JSON date value to a UTC day. Returns the
// zero time and false when the value cannot be interpreted as a date.
func parseLooseDate(raw json.RawMessage) (time.Time, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		for _, layout := range looseDateFormats {
			if t, err := time.Parse(layout, s); err == nil {
				return dayUTC(t), true
			}
		}
		return time.Time{}, false
	}

	// Epoch milliseconds, as exported by the remote document store.
	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil && ms > 0 {
		return dayUTC(time.UnixMilli(ms).UTC()), true
	}

	return time.Time{}, false
}

// parseLooseFloat decodes a raw JSON numeric value that may be a number
// or a numeric string. Returns 0 and false when the value is present but
// not numeric; absent values are 0 and true.
func parseLooseFloat(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, true
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v, true
		}
	}

	return 0, false
}

// dayUTC truncates a timestamp to its UTC calendar day.
func dayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// UnmarshalJSON decodes an expense leniently: numeric fields may arrive as
// numbers or numeric strings, and malformed values coerce to zero instead
// of failing the whole document. Coerced fields are listed in Degraded.
func (e *Expense) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        string          `json:"id"`
		Date      json.RawMessage `json:"date"`
		Amount    json.RawMessage `json:"amount"`
		Provider  string          `json:"provider"`
		Category  string          `json:"category"`
		PaidWith  string          `json:"paidWith"`
		Notes     string          `json:"notes"`
		PhotoPath string          `json:"photoPath"`
		CreatedAt time.Time       `json:"created_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.ID = raw.ID
	e.Provider = raw.Provider
	e.Category = raw.Category
	e.PaidWith = raw.PaidWith
	e.Notes = raw.Notes
	e.PhotoPath = raw.PhotoPath
	e.CreatedAt = raw.CreatedAt
	e.Degraded = nil

	var ok bool
	if e.Date, ok = parseLooseDate(raw.Date); !ok && len(raw.Date) > 0 {
		e.Degraded = append(e.Degraded, "date")
	}
	if e.Amount, ok = parseLooseFloat(raw.Amount); !ok {
		e.Degraded = append(e.Degraded, "amount")
	}

	return nil
}

// UnmarshalJSON decodes a mileage record leniently. The distance may be
// stored under either "km" or "distance"; "km" wins when both are present.
func (m *Mileage) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          string          `json:"id"`
		Date        json.RawMessage `json:"date"`
		Km          json.RawMessage `json:"km"`
		Distance    json.RawMessage `json:"distance"`
		Type        string          `json:"type"`
		Trip        TripType        `json:"tripType"`
		FuelPrice   json.RawMessage `json:"fuelPrice"`
		Consumption json.RawMessage `json:"consumption"`
		TotalKm     json.RawMessage `json:"totalKm"`
		Notes       string          `json:"notes"`
		CreatedAt   time.Time       `json:"created_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	m.ID = raw.ID
	m.Type = raw.Type
	m.Trip = raw.Trip
	m.Notes = raw.Notes
	m.CreatedAt = raw.CreatedAt
	m.Degraded = nil

	var ok bool
	if m.Date, ok = parseLooseDate(raw.Date); !ok && len(raw.Date) > 0 {
		m.Degraded = append(m.Degraded, "date")
	}

	dist := raw.Km
	if len(dist) == 0 || string(dist) == "null" {
		dist = raw.Distance
	}
	if m.Distance, ok = parseLooseFloat(dist); !ok {
		m.Degraded = append(m.Degraded, "km")
	}
	if m.FuelPrice, ok = parseLooseFloat(raw.FuelPrice); !ok {
		m.Degraded = append(m.Degraded, "fuelPrice")
	}
	if m.Consumption, ok = parseLooseFloat(raw.Consumption); !ok {
		m.Degraded = append(m.Degraded, "consumption")
	}
	if m.TotalKm, ok = parseLooseFloat(raw.TotalKm); !ok {
		m.Degraded = append(m.Degraded, "totalKm")
	}

	return nil
}
