// Package export renders a reconciled month into the downloadable
// formats: the template spreadsheet, the mileage spreadsheet, the PDF
// report and the receipts archive. Encoders consume only projected rows
// from the report package, so every format shows the same figures.
package export

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/gastos2n/gastos-tracker/internal/report"
)

// Employee identifies the report owner in the template header.
type Employee struct {
	Name       string
	Surname    string
	CostCenter string
}

// Layout of the official expense template: header cells are fixed
// coordinates filled once per export, data rows start at a fixed offset.
const (
	nameCell       = "C2"
	surnameCell    = "C3"
	costCenterCell = "C4"
	expenseFirstRow = 8

	dateColumn     = "A"
	providerColumn = "B"
)

// ExpensesWorkbook fills the official expense template with one row per
// projected expense. The amount goes to the category's destination column
// and, regardless of category, to the total column.
func ExpensesWorkbook(templatePath string, emp Employee, rows []report.ExpenseRow) (*excelize.File, error) {
	f, err := excelize.OpenFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("opening expense template: %w", err)
	}

	sheet := f.GetSheetName(0)
	f.SetCellValue(sheet, nameCell, emp.Name)
	f.SetCellValue(sheet, surnameCell, emp.Surname)
	f.SetCellValue(sheet, costCenterCell, emp.CostCenter)

	for i, row := range rows {
		r := expenseFirstRow + i
		f.SetCellValue(sheet, cell(dateColumn, r), row.Date)
		f.SetCellValue(sheet, cell(providerColumn, r), row.Provider)

		// The projected string is the authoritative rounding; parse it
		// back so the template's sum formulas see a number.
		amount, err := strconv.ParseFloat(row.Amount, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing projected amount %q: %w", row.Amount, err)
		}
		f.SetCellValue(sheet, cell(report.CategoryColumn(row.Category), r), amount)
		f.SetCellValue(sheet, cell(report.TotalColumn, r), amount)
	}

	return f, nil
}

// MileageWorkbook builds a fresh spreadsheet listing the month's trips
// with their computed personal cost.
func MileageWorkbook(rows []report.MileageRow) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Sheet1"
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}

	// Add headers
	f.SetCellValue(sheet, "A1", "Fecha")
	f.SetCellValue(sheet, "B1", "Tipo")
	f.SetCellValue(sheet, "C1", "Distancia (km)")
	f.SetCellValue(sheet, "D1", "Combustible (EUR/L)")
	f.SetCellValue(sheet, "E1", "Coste personal (EUR)")
	f.SetCellValue(sheet, "F1", "Notas")

	// Add data
	for i, row := range rows {
		r := i + 2
		f.SetCellValue(sheet, cell("A", r), row.Date)
		f.SetCellValue(sheet, cell("B", r), row.Type)
		f.SetCellValue(sheet, cell("C", r), row.Distance)
		f.SetCellValue(sheet, cell("D", r), row.FuelPrice)
		f.SetCellValue(sheet, cell("E", r), row.PersonalCost)
		f.SetCellValue(sheet, cell("F", r), row.Notes)
	}

	return f, nil
}

func cell(column string, row int) string {
	return column + strconv.Itoa(row)
}
