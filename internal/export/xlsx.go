package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mithilai/Customer-Call-Analyzer/internal/storage/sqlite"
)

const sheetName = "Call Reports"

// reportHeader is the Reports-view column order
var reportHeader = []any{"ID", "Customer Name", "Agent Name", "Satisfied", "Company Improvements"}

// WriteXLSX renders the stored reports as a spreadsheet: one header row, one
// row per report, in the order given (callers pass rows already ordered by
// id ascending).
func WriteXLSX(w io.Writer, reports []*sqlite.CallReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name report sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &reportHeader); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, report := range reports {
		cell := fmt.Sprintf("A%d", i+2)
		row := []any{
			report.ID,
			report.CustomerName,
			report.AgentName,
			report.CustomerSatisfied,
			report.CompanyImprovements,
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write report row %d: %w", report.ID, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
