package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"procurement/models"
)

// SheetName is the worksheet title for a view mode.
func SheetName(mode models.ViewMode) string {
	if mode == models.ViewPurchaseSchedule {
		return "Purchase Schedule"
	}
	return "Sales Report"
}

// TableXLSX writes t as a single worksheet: a header row in column order, then
// one row per display row with unrounded metrics.
func TableXLSX(w io.Writer, t *models.DisplayTable) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := SheetName(t.Mode)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, 0, len(t.Columns()))
	for _, c := range t.Columns() {
		header = append(header, c)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := t.Values(r)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// XLSXFilename is the download name of a table export.
func XLSXFilename(t *models.DisplayTable) string {
	return fmt.Sprintf("%s_%s_%s.xlsx", t.Mode, t.Branch, t.Week)
}
