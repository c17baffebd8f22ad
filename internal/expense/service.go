package expense

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/gastos2n/gastos-tracker/internal/scanning"
)

// IDGenerator generates unique IDs for records
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates IDs using UnixNano timestamp
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles expense and mileage operations
type Service struct {
	db          DB
	scanner     scanning.Scanner
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time
// source. scanner may be nil when OCR is not configured.
func NewService(db DB, scanner scanning.Scanner, storage Storage) *Service {
	return &Service{
		db:          db,
		scanner:     scanner,
		storage:     storage,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, scanner scanning.Scanner, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		scanner:     scanner,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	// Get the extension
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	// Remove special characters, keep only alphanumeric, spaces, hyphens, and underscores
	reg := regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	base = reg.ReplaceAllString(base, "")

	// Replace multiple spaces with single space
	reg = regexp.MustCompile(`\s+`)
	base = reg.ReplaceAllString(base, " ")

	// Trim spaces
	base = strings.TrimSpace(base)

	// Truncate to reasonable length (50 chars for base, plus extension)
	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}

	// If base is empty after sanitization, use a default
	if base == "" {
		base = "receipt"
	}

	return base + ext
}

// ExpenseInput carries the fields of a new expense record.
type ExpenseInput struct {
	Date     time.Time
	Amount   float64
	Provider string
	Category string
	PaidWith string
	Notes    string
}

// CreateExpense persists a new expense. photo may be nil; when present it
// is stored and the record keeps the storage path as its photo reference.
func (s *Service) CreateExpense(in ExpenseInput, photoName string, photo []byte) (*Expense, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	category := strings.ToLower(strings.TrimSpace(in.Category))
	if category == "" {
		category = CategoryMisc
	}
	paidWith := strings.ToLower(strings.TrimSpace(in.PaidWith))
	if paidWith == "" {
		paidWith = PaidCompany
	}

	rec := &Expense{
		ID:        id,
		Date:      dayUTC(in.Date),
		Amount:    in.Amount,
		Provider:  strings.TrimSpace(in.Provider),
		Category:  category,
		PaidWith:  paidWith,
		Notes:     in.Notes,
		CreatedAt: now,
	}

	if len(photo) > 0 {
		cleanFilename := sanitizeFilename(photoName)
		savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, cleanFilename), photo)
		if err != nil {
			return nil, fmt.Errorf("saving photo: %w", err)
		}
		rec.PhotoPath = savedPath
	}

	if err := s.db.SaveExpense(rec); err != nil {
		// Clean up photo if database save fails
		if rec.PhotoPath != "" {
			s.storage.Delete(rec.PhotoPath)
		}
		return nil, fmt.Errorf("saving expense to database: %w", err)
	}

	return rec, nil
}

// ScanReceipt runs OCR over a receipt image and returns a draft expense
// for the user to review before saving.
func (s *Service) ScanReceipt(data []byte, contentType string) (*scanning.ExpenseData, error) {
	if s.scanner == nil {
		return nil, fmt.Errorf("receipt scanning is not configured")
	}

	extracted, err := s.scanner.ScanReceipt(data, contentType)
	if err != nil {
		slog.Error("Failed to scan receipt",
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		return nil, fmt.Errorf("scanning receipt: %w", err)
	}
	return extracted, nil
}

// GetExpense retrieves an expense by ID
func (s *Service) GetExpense(id string) (*Expense, error) {
	rec, err := s.db.GetExpense(id)
	if err != nil {
		return nil, fmt.Errorf("getting expense: %w", err)
	}
	return rec, nil
}

// ListExpenses returns all expenses, newest first.
func (s *Service) ListExpenses() ([]*Expense, error) {
	records, err := s.db.ListExpenses()
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.After(records[j].Date)
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// DeleteExpense removes an expense and its photo
func (s *Service) DeleteExpense(id string) error {
	rec, err := s.db.GetExpense(id)
	if err != nil {
		return fmt.Errorf("getting expense for deletion: %w", err)
	}

	if rec.PhotoPath != "" {
		if err := s.storage.Delete(rec.PhotoPath); err != nil {
			// Log error but continue with database deletion
			slog.Warn("Failed to delete photo", "path", rec.PhotoPath, "error", err)
		}
	}

	if err := s.db.DeleteExpense(id); err != nil {
		return fmt.Errorf("deleting expense from database: %w", err)
	}
	return nil
}

// GetExpensePhoto retrieves the photo attached to an expense
func (s *Service) GetExpensePhoto(id string) ([]byte, string, error) {
	rec, err := s.db.GetExpense(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting expense: %w", err)
	}
	if rec.PhotoPath == "" {
		return nil, "", fmt.Errorf("expense %s has no photo", id)
	}

	data, err := s.storage.Get(rec.PhotoPath)
	if err != nil {
		return nil, "", fmt.Errorf("getting expense photo: %w", err)
	}

	return data, rec.PhotoPath, nil
}

// MileageInput carries the fields of a new mileage record.
type MileageInput struct {
	Date        time.Time
	Distance    float64
	Type        string
	FuelPrice   float64
	Consumption float64
	Notes       string
}

// CreateMileage persists a new trip. The trip classification is decided
// here, once, from the submitted type; the running odometer total is the
// latest known total across all records plus this trip's distance.
func (s *Service) CreateMileage(in MileageInput) (*Mileage, error) {
	if in.Distance <= 0 {
		return nil, fmt.Errorf("distance must be a positive number of kilometers")
	}

	latest, err := s.LatestOdometer()
	if err != nil {
		return nil, err
	}

	rec := &Mileage{
		ID:          s.idGenerator.Generate(),
		Date:        dayUTC(in.Date),
		Distance:    in.Distance,
		Type:        strings.TrimSpace(in.Type),
		Trip:        ClassifyTrip(in.Type),
		FuelPrice:   in.FuelPrice,
		Consumption: in.Consumption,
		TotalKm:     latest + in.Distance,
		Notes:       in.Notes,
		CreatedAt:   s.timeSource.Now(),
	}

	if err := s.db.SaveMileage(rec); err != nil {
		return nil, fmt.Errorf("saving mileage to database: %w", err)
	}
	return rec, nil
}

// ListMileage returns all mileage records, newest first.
func (s *Service) ListMileage() ([]*Mileage, error) {
	records, err := s.db.ListMileage()
	if err != nil {
		return nil, fmt.Errorf("listing mileage: %w", err)
	}
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.After(records[j].Date)
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// DeleteMileage removes a mileage record
func (s *Service) DeleteMileage(id string) error {
	if _, err := s.db.GetMileage(id); err != nil {
		return fmt.Errorf("getting mileage for deletion: %w", err)
	}
	if err := s.db.DeleteMileage(id); err != nil {
		return fmt.Errorf("deleting mileage from database: %w", err)
	}
	return nil
}

// LatestOdometer returns the odometer total of the most recent mileage
// record across all time, or 0 when none carries a total. The lookup is
// deliberately not scoped to any period.
func (s *Service) LatestOdometer() (float64, error) {
	records, err := s.db.ListMileage()
	if err != nil {
		return 0, fmt.Errorf("listing mileage for odometer: %w", err)
	}

	var latest *Mileage
	for _, rec := range records {
		if rec.TotalKm <= 0 {
			continue
		}
		if latest == nil ||
			rec.Date.After(latest.Date) ||
			(rec.Date.Equal(latest.Date) && rec.CreatedAt.After(latest.CreatedAt)) {
			latest = rec
		}
	}
	if latest == nil {
		return 0, nil
	}
	return latest.TotalKm, nil
}
