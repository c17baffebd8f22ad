package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/gastos2n/gastos-tracker/internal/report"
)

// expenseHeaders is the fixed column order of the PDF detail table.
var expenseHeaders = []string{"Fecha", "Proveedor", "Categoría", "Pago", "Notas", "Importe"}

var expenseWidths = []float64{22, 40, 25, 22, 51, 20}

var mileageHeaders = []string{"Fecha", "Tipo", "Distancia", "EUR/L", "Coste", "Notas"}

var mileageWidths = []float64{22, 25, 25, 20, 20, 68}

// ReportPDF renders the monthly report: the summary block followed by the
// expense and mileage detail tables.
func ReportPDF(w io.Writer, period report.Period, summary report.Summary, expenses []report.ExpenseRow, trips []report.MileageRow) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("Gastos %s", period), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Liquidación de gastos — %s", period)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	summaryLine(pdf, tr, "Gastos totales", fmt.Sprintf("%.2f EUR", summary.TotalExpenses))
	summaryLine(pdf, tr, "Pagado personal", fmt.Sprintf("%.2f EUR", summary.PersonalPaidTotal))
	summaryLine(pdf, tr, "KM empresa", fmt.Sprintf("%.1f km", summary.CompanyKm))
	summaryLine(pdf, tr, "KM personales", fmt.Sprintf("%.1f km", summary.PersonalKm))
	summaryLine(pdf, tr, "Coste KM personal", fmt.Sprintf("%.2f EUR", summary.PersonalKmCost))
	pdf.SetFont("Helvetica", "B", 10)
	summaryLine(pdf, tr, "A devolver", fmt.Sprintf("%.2f EUR", summary.ReimbursementBalance))
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 8, "Gastos", "", 1, "L", false, 0, "")
	tableHeader(pdf, tr, expenseHeaders, expenseWidths)
	pdf.SetFont("Helvetica", "", 9)
	for _, row := range expenses {
		cells := []string{row.Date, row.Provider, row.Category, row.PaidWith, row.Notes, row.Amount}
		tableRow(pdf, tr, cells, expenseWidths)
	}
	if len(expenses) == 0 {
		pdf.CellFormat(0, 7, tr("Sin gastos este mes"), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 8, "Kilometraje", "", 1, "L", false, 0, "")
	tableHeader(pdf, tr, mileageHeaders, mileageWidths)
	pdf.SetFont("Helvetica", "", 9)
	for _, row := range trips {
		cells := []string{row.Date, row.Type, row.Distance, row.FuelPrice, row.PersonalCost, row.Notes}
		tableRow(pdf, tr, cells, mileageWidths)
	}
	if len(trips) == 0 {
		pdf.CellFormat(0, 7, tr("Sin registros de KM este mes"), "1", 1, "C", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

func summaryLine(pdf *gofpdf.Fpdf, tr func(string) string, label, value string) {
	pdf.CellFormat(50, 6, tr(label), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(value), "", 1, "L", false, 0, "")
}

func tableHeader(pdf *gofpdf.Fpdf, tr func(string) string, headers []string, widths []float64) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
}

func tableRow(pdf *gofpdf.Fpdf, tr func(string) string, cells []string, widths []float64) {
	for i, c := range cells {
		pdf.CellFormat(widths[i], 7, tr(clip(c, 40)), "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}

// clip keeps long free-text cells from overflowing their column.
func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
