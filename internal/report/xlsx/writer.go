// Package xlsx writes the pivoted sales report as a one-sheet workbook.
package xlsx

import (
	"fmt"
	"path/filepath"

	"github.com/smallbiznis/geotally/internal/report/domain"
	"github.com/xuri/excelize/v2"
)

const sheetName = "SalesReport"

type Writer struct{}

func NewWriter() *Writer {
	return &Writer{}
}

// Filename derives the deterministic report name for a state and year.
func Filename(dir, state string, year int) string {
	return filepath.Join(dir, fmt.Sprintf("%s_state_sales_report_%d_generated.xlsx", state, year))
}

// Write saves the pivot rows under a SalesReport sheet with the
// city,Q1..Q4,Total header.
func (w *Writer) Write(path string, rows []domain.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	header := []any{"city", "Q1", "Q2", "Q3", "Q4", "Total"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{
			row.City,
			row.Quarters[0],
			row.Quarters[1],
			row.Quarters[2],
			row.Quarters[3],
			row.Total,
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
