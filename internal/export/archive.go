package export

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gastos2n/gastos-tracker/internal/expense"
	"github.com/gastos2n/gastos-tracker/internal/report"
)

// PhotoSource resolves a photo reference to its bytes. expense.Storage
// satisfies it.
type PhotoSource interface {
	Get(path string) ([]byte, error)
}

var providerSanitizer = regexp.MustCompile(`[^a-zA-Z0-9\-_]+`)

// sanitizeProvider turns a free-text provider label into a filename-safe
// token.
func sanitizeProvider(provider string) string {
	s := strings.TrimSpace(provider)
	s = strings.ReplaceAll(s, " ", "-")
	s = providerSanitizer.ReplaceAllString(s, "")
	if s == "" {
		s = "ticket"
	}
	return s
}

// photoExtension infers the archive entry extension from the stored photo
// reference, defaulting to jpg.
func photoExtension(photoPath string) string {
	ext := strings.ToLower(filepath.Ext(photoPath))
	if ext == "" {
		ext = ".jpg"
	}
	return ext
}

// ReceiptsZip writes a zip of every receipt photo attached to the given
// expenses, named {date}_{provider}_{index}.{ext}, plus a manifest.csv
// carrying the same projected figures as the other export formats.
// Records whose photo cannot be resolved are skipped, not fatal.
func ReceiptsZip(w io.Writer, records []expense.Expense, photos PhotoSource) error {
	zw := zip.NewWriter(w)

	manifest := [][]string{
		{"file", "date", "provider", "category", "paidWith", "amount", "notes"},
	}

	index := 0
	for _, rec := range records {
		if rec.PhotoPath == "" {
			continue
		}

		data, err := photos.Get(rec.PhotoPath)
		if err != nil {
			slog.Warn("Skipping unresolvable receipt photo",
				"expense_id", rec.ID, "path", rec.PhotoPath, "error", err)
			continue
		}

		index++
		row := report.ProjectExpense(rec)
		name := fmt.Sprintf("%s_%s_%d%s",
			row.Date, sanitizeProvider(rec.Provider), index, photoExtension(rec.PhotoPath))

		entry, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("creating zip entry %s: %w", name, err)
		}
		if _, err := entry.Write(data); err != nil {
			return fmt.Errorf("writing zip entry %s: %w", name, err)
		}

		manifest = append(manifest, []string{
			name, row.Date, row.Provider, row.Category, row.PaidWith, row.Amount, row.Notes,
		})
	}

	mf, err := zw.Create("manifest.csv")
	if err != nil {
		return fmt.Errorf("creating manifest: %w", err)
	}
	cw := csv.NewWriter(mf)
	if err := cw.WriteAll(manifest); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing zip: %w", err)
	}
	return nil
}
