package web

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gastos2n/gastos-tracker/internal/expense"
	"github.com/gastos2n/gastos-tracker/internal/export"
	"github.com/gastos2n/gastos-tracker/internal/report"
)

// maxUploadSize bounds multipart uploads; phone photos can be large.
const maxUploadSize = int64(50 << 20) // 50MB

// corsError writes an error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// parseDay parses a form date, defaulting to today when absent.
func parseDay(value string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return now.UTC().Truncate(24 * time.Hour), nil
	}
	return time.Parse("2006-01-02", strings.TrimSpace(value))
}

func derefExpenses(in []*expense.Expense) []expense.Expense {
	out := make([]expense.Expense, len(in))
	for i, rec := range in {
		out[i] = *rec
	}
	return out
}

func derefMileage(in []*expense.Mileage) []expense.Mileage {
	out := make([]expense.Mileage, len(in))
	for i, rec := range in {
		out[i] = *rec
	}
	return out
}

// monthExpenses lists expenses, scoped to a month when one is given.
func (s *Server) monthExpenses(month string) ([]expense.Expense, []string, error) {
	records, err := s.service.ListExpenses()
	if err != nil {
		return nil, nil, err
	}
	all := derefExpenses(records)
	if month == "" {
		return all, nil, nil
	}
	p, err := report.ParsePeriod(month)
	if err != nil {
		return nil, nil, err
	}
	matched, skipped := report.FilterExpenses(all, p)
	return matched, skipped, nil
}

// monthMileage lists mileage records, scoped to a month when one is given.
func (s *Server) monthMileage(month string) ([]expense.Mileage, []string, error) {
	records, err := s.service.ListMileage()
	if err != nil {
		return nil, nil, err
	}
	all := derefMileage(records)
	if month == "" {
		return all, nil, nil
	}
	p, err := report.ParsePeriod(month)
	if err != nil {
		return nil, nil, err
	}
	matched, skipped := report.FilterMileage(all, p)
	return matched, skipped, nil
}

// handleListExpenses returns expenses, optionally filtered by ?month=YYYY-MM
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	records, _, err := s.monthExpenses(r.URL.Query().Get("month"))
	if err != nil {
		slog.Error("Error listing expenses", "error", err)
		corsError(w, "Invalid month or internal error", http.StatusBadRequest)
		return
	}
	writeJSON(w, records)
}

// handleCreateExpense creates an expense from form fields with an optional
// photo part
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var photoName string
	var photo []byte

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			slog.Error("Error parsing multipart form", "error", err)
			corsError(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		if f, header, err := r.FormFile("photo"); err == nil {
			defer f.Close()
			data, err := io.ReadAll(f)
			if err != nil {
				corsError(w, "Error reading photo", http.StatusBadRequest)
				return
			}
			photo = data
			photoName = header.Filename
		}
	} else if err := r.ParseForm(); err != nil {
		corsError(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	date, err := parseDay(r.FormValue("date"), time.Now())
	if err != nil {
		corsError(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("amount")), 64)
	if err != nil || amount < 0 {
		corsError(w, "Invalid amount", http.StatusBadRequest)
		return
	}

	rec, err := s.service.CreateExpense(expense.ExpenseInput{
		Date:     date,
		Amount:   amount,
		Provider: r.FormValue("provider"),
		Category: r.FormValue("category"),
		PaidWith: r.FormValue("paidWith"),
		Notes:    r.FormValue("notes"),
	}, photoName, photo)
	if err != nil {
		slog.Error("Error creating expense", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, rec)
}

// handleScanReceipt runs OCR over an uploaded receipt and returns the
// extracted draft fields
func (s *Server) handleScanReceipt(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		corsError(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		corsError(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		corsError(w, "Error reading file", http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	extracted, err := s.service.ScanReceipt(data, contentType)
	if err != nil {
		if strings.Contains(err.Error(), "not configured") {
			corsError(w, "Receipt scanning is not configured", http.StatusServiceUnavailable)
			return
		}
		corsError(w, "Error scanning receipt", http.StatusInternalServerError)
		return
	}

	writeJSON(w, extracted)
}

// handleDeleteExpense removes an expense
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Expense ID required", http.StatusBadRequest)
		return
	}
	if err := s.service.DeleteExpense(id); err != nil {
		corsError(w, "Expense not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetExpensePhoto serves the photo attached to an expense
func (s *Server) handleGetExpensePhoto(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Expense ID required", http.StatusBadRequest)
		return
	}

	data, name, err := s.service.GetExpensePhoto(id)
	if err != nil {
		corsError(w, "Photo not found", http.StatusNotFound)
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleListMileage returns mileage records, optionally filtered by month
func (s *Server) handleListMileage(w http.ResponseWriter, r *http.Request) {
	records, _, err := s.monthMileage(r.URL.Query().Get("month"))
	if err != nil {
		slog.Error("Error listing mileage", "error", err)
		corsError(w, "Invalid month or internal error", http.StatusBadRequest)
		return
	}
	writeJSON(w, records)
}

// handleCreateMileage creates a mileage record
func (s *Server) handleCreateMileage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		corsError(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	date, err := parseDay(r.FormValue("date"), time.Now())
	if err != nil {
		corsError(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	distance, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("km")), 64)
	if err != nil {
		corsError(w, "Invalid distance", http.StatusBadRequest)
		return
	}

	var fuelPrice float64
	if v := strings.TrimSpace(r.FormValue("fuelPrice")); v != "" {
		if fuelPrice, err = strconv.ParseFloat(v, 64); err != nil {
			corsError(w, "Invalid fuel price", http.StatusBadRequest)
			return
		}
	}

	var consumption float64
	if v := strings.TrimSpace(r.FormValue("consumption")); v != "" {
		if consumption, err = strconv.ParseFloat(v, 64); err != nil {
			corsError(w, "Invalid consumption", http.StatusBadRequest)
			return
		}
	}

	rec, err := s.service.CreateMileage(expense.MileageInput{
		Date:        date,
		Distance:    distance,
		Type:        r.FormValue("type"),
		FuelPrice:   fuelPrice,
		Consumption: consumption,
		Notes:       r.FormValue("notes"),
	})
	if err != nil {
		corsError(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, rec)
}

// handleDeleteMileage removes a mileage record
func (s *Server) handleDeleteMileage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Mileage ID required", http.StatusBadRequest)
		return
	}
	if err := s.service.DeleteMileage(id); err != nil {
		corsError(w, "Mileage record not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleOdometer returns the latest known odometer total
func (s *Server) handleOdometer(w http.ResponseWriter, r *http.Request) {
	total, err := s.service.LatestOdometer()
	if err != nil {
		slog.Error("Error reading odometer", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]float64{"totalKm": total})
}

// summaryResponse is the reconciliation result for one month.
type summaryResponse struct {
	Period          string              `json:"period"`
	Summary         report.Summary      `json:"summary"`
	Expenses        []report.ExpenseRow `json:"expenses"`
	Mileage         []report.MileageRow `json:"mileage"`
	SkippedExpenses []string            `json:"skippedExpenses,omitempty"`
	SkippedMileage  []string            `json:"skippedMileage,omitempty"`
}

// reconcileMonth runs the engine for one month key.
func (s *Server) reconcileMonth(month string) (*summaryResponse, []expense.Expense, error) {
	p, err := report.ParsePeriod(month)
	if err != nil {
		return nil, nil, err
	}

	expenses, skippedE, err := s.monthExpenses(month)
	if err != nil {
		return nil, nil, err
	}
	trips, skippedM, err := s.monthMileage(month)
	if err != nil {
		return nil, nil, err
	}

	return &summaryResponse{
		Period:          p.String(),
		Summary:         report.Aggregate(expenses, trips),
		Expenses:        report.ExpenseRows(expenses),
		Mileage:         report.MileageRows(trips),
		SkippedExpenses: skippedE,
		SkippedMileage:  skippedM,
	}, expenses, nil
}

// handleSummary returns the month's statistics and projected rows
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	resp, _, err := s.reconcileMonth(r.URL.Query().Get("month"))
	if err != nil {
		corsError(w, "Invalid or missing month, expected YYYY-MM", http.StatusBadRequest)
		return
	}
	writeJSON(w, resp)
}

// handleExpensesWorkbook downloads the month's expenses in the official
// spreadsheet template
func (s *Server) handleExpensesWorkbook(w http.ResponseWriter, r *http.Request) {
	resp, _, err := s.reconcileMonth(r.URL.Query().Get("month"))
	if err != nil {
		corsError(w, "Invalid or missing month, expected YYYY-MM", http.StatusBadRequest)
		return
	}

	f, err := export.ExpensesWorkbook(s.templatePath, s.employee, resp.Expenses)
	if err != nil {
		slog.Error("Error building expenses workbook", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=gastos-%s.xlsx", resp.Period))
	if err := f.Write(w); err != nil {
		slog.Error("Error writing workbook", "error", err)
	}
}

// handleMileageWorkbook downloads the month's mileage listing
func (s *Server) handleMileageWorkbook(w http.ResponseWriter, r *http.Request) {
	resp, _, err := s.reconcileMonth(r.URL.Query().Get("month"))
	if err != nil {
		corsError(w, "Invalid or missing month, expected YYYY-MM", http.StatusBadRequest)
		return
	}

	f, err := export.MileageWorkbook(resp.Mileage)
	if err != nil {
		slog.Error("Error building mileage workbook", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=kilometraje-%s.xlsx", resp.Period))
	if err := f.Write(w); err != nil {
		slog.Error("Error writing workbook", "error", err)
	}
}

// handleReportPDF downloads the month's report as PDF
func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	resp, _, err := s.reconcileMonth(r.URL.Query().Get("month"))
	if err != nil {
		corsError(w, "Invalid or missing month, expected YYYY-MM", http.StatusBadRequest)
		return
	}

	p, _ := report.ParsePeriod(resp.Period)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=informe-%s.pdf", resp.Period))
	if err := export.ReportPDF(w, p, resp.Summary, resp.Expenses, resp.Mileage); err != nil {
		slog.Error("Error writing pdf", "error", err)
	}
}

// handleReceiptsZip downloads the month's receipt photos as a zip
func (s *Server) handleReceiptsZip(w http.ResponseWriter, r *http.Request) {
	resp, expenses, err := s.reconcileMonth(r.URL.Query().Get("month"))
	if err != nil {
		corsError(w, "Invalid or missing month, expected YYYY-MM", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=tickets-%s.zip", resp.Period))
	if err := export.ReceiptsZip(w, expenses, s.photos); err != nil {
		slog.Error("Error writing receipts zip", "error", err)
	}
}
