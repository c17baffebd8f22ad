// Package web exposes the HTTP API: record entry, month queries and the
// export downloads. It composes the expense service, the report engine
// and the export encoders.
package web

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gastos2n/gastos-tracker/internal/expense"
	"github.com/gastos2n/gastos-tracker/internal/export"
)

// Server handles HTTP requests for expenses, mileage and exports
type Server struct {
	service      *expense.Service
	photos       export.PhotoSource
	templatePath string
	employee     export.Employee
	basicAuth    BasicAuth
	mux          *http.ServeMux
}

// BasicAuth holds basic authentication credentials
type BasicAuth struct {
	Username string
	Password string
}

// Config carries the server's collaborators and export settings.
type Config struct {
	Service *expense.Service
	// Photos resolves receipt photo references for the zip export.
	Photos export.PhotoSource
	// TemplatePath locates the official expense spreadsheet template.
	TemplatePath string
	Employee     export.Employee
	BasicAuth    BasicAuth
}

// NewServer creates a new Server with default mux
func NewServer(cfg Config) *Server {
	return NewServerWithMux(cfg, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(cfg Config, mux *http.ServeMux) *Server {
	s := &Server{
		service:      cfg.Service,
		photos:       cfg.Photos,
		templatePath: cfg.TemplatePath,
		employee:     cfg.Employee,
		basicAuth:    cfg.BasicAuth,
		mux:          mux,
	}
	s.registerRoutes()
	return s
}

// authenticate checks basic auth credentials
func (s *Server) authenticate(r *http.Request) bool {
	if s.basicAuth.Username == "" && s.basicAuth.Password == "" {
		return true // No auth required if not configured
	}

	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Basic ") {
		return false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(auth, "Basic "))
	if err != nil {
		return false
	}

	credentials := strings.SplitN(string(decoded), ":", 2)
	if len(credentials) != 2 {
		return false
	}

	return credentials[0] == s.basicAuth.Username && credentials[1] == s.basicAuth.Password
}

// corsMiddleware adds CORS headers to responses
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)

		// Handle preflight OPTIONS requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}

// requireAuth middleware
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticate(r) {
			// Ensure CORS headers are set before error response
			setCORSHeaders(w)
			w.Header().Set("WWW-Authenticate", `Basic realm="Gastos Tracker"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// registerRoutes registers all API routes on the server's mux
// Routes must be registered from most specific to least specific to avoid conflicts
func (s *Server) registerRoutes() {
	// Expenses (most specific paths first)
	s.mux.HandleFunc("GET /api/expenses/{id}/photo", s.requireAuth(s.handleGetExpensePhoto))
	s.mux.HandleFunc("DELETE /api/expenses/{id}", s.requireAuth(s.handleDeleteExpense))
	s.mux.HandleFunc("GET /api/expenses", s.requireAuth(s.handleListExpenses))
	s.mux.HandleFunc("POST /api/expenses", s.requireAuth(s.handleCreateExpense))
	s.mux.HandleFunc("POST /api/scan", s.requireAuth(s.handleScanReceipt))

	// Mileage
	s.mux.HandleFunc("GET /api/mileage/odometer", s.requireAuth(s.handleOdometer))
	s.mux.HandleFunc("DELETE /api/mileage/{id}", s.requireAuth(s.handleDeleteMileage))
	s.mux.HandleFunc("GET /api/mileage", s.requireAuth(s.handleListMileage))
	s.mux.HandleFunc("POST /api/mileage", s.requireAuth(s.handleCreateMileage))

	// Reconciliation and exports
	s.mux.HandleFunc("GET /api/summary", s.requireAuth(s.handleSummary))
	s.mux.HandleFunc("GET /api/export/expenses.xlsx", s.requireAuth(s.handleExpensesWorkbook))
	s.mux.HandleFunc("GET /api/export/mileage.xlsx", s.requireAuth(s.handleMileageWorkbook))
	s.mux.HandleFunc("GET /api/export/report.pdf", s.requireAuth(s.handleReportPDF))
	s.mux.HandleFunc("GET /api/export/receipts.zip", s.requireAuth(s.handleReceiptsZip))
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	slog.Info("Starting server", "address", addr)
	// Wrap the mux with CORS middleware to handle all requests including OPTIONS
	return http.ListenAndServe(addr, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			s.mux.ServeHTTP(w, r)
		})(w, r)
	}))
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
