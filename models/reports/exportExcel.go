package reports

import (
	"fmt"

	"bitbucket.org/mmdatafocus/recon_backend/models"
	"github.com/xuri/excelize/v2"
)

// ExportAccountStatementExcel renders a statement report into a workbook:
// one row per operation with its debit/credit label, and a balance row
// opening and closing every day section.
func ExportAccountStatementExcel(report *AccountStatementReport) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Statement"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	f.SetCellValue(sheet, "A1", "Date")
	f.SetCellValue(sheet, "B1", "Operation")
	f.SetCellValue(sheet, "C1", "Service")
	f.SetCellValue(sheet, "D1", "Direction")
	f.SetCellValue(sheet, "E1", "Amount")
	f.SetCellValue(sheet, "F1", "BalanceAfter")

	rowNo := 2
	for _, day := range report.Days {
		f.SetCellValue(sheet, "A"+fmt.Sprint(rowNo), day.Date.Format("2006-01-02"))
		f.SetCellValue(sheet, "B"+fmt.Sprint(rowNo), "OPENING")
		f.SetCellValue(sheet, "F"+fmt.Sprint(rowNo), day.Opening.String())
		rowNo++
		for _, line := range day.Lines {
			op := line.Operation
			f.SetCellValue(sheet, "A"+fmt.Sprint(rowNo), op.Timestamp.Format("2006-01-02 15:04:05"))
			f.SetCellValue(sheet, "B"+fmt.Sprint(rowNo), string(op.Type))
			f.SetCellValue(sheet, "C"+fmt.Sprint(rowNo), op.Service)
			f.SetCellValue(sheet, "D"+fmt.Sprint(rowNo), string(line.Direction))
			f.SetCellValue(sheet, "E"+fmt.Sprint(rowNo), op.Amount.String())
			f.SetCellValue(sheet, "F"+fmt.Sprint(rowNo), op.BalanceAfter.String())
			rowNo++
		}
		f.SetCellValue(sheet, "A"+fmt.Sprint(rowNo), day.Date.Format("2006-01-02"))
		f.SetCellValue(sheet, "B"+fmt.Sprint(rowNo), "CLOSING")
		f.SetCellValue(sheet, "F"+fmt.Sprint(rowNo), day.Closing.String())
		rowNo++
	}

	return f, nil
}

// ExportReconciliationRowsExcel renders reconciliation rows for the review
// screens' download button.
func ExportReconciliationRowsExcel(rows []models.ReconciliationRow) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Reconciliation"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"Date", "Agency", "Service", "Country", "Total", "Matches", "BoOnly", "PartnerOnly", "Mismatches", "MatchRate", "Status", "Treatment", "Comment", "TicketId"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		values := []interface{}{
			row.ReconciliationDate.Format("2006-01-02"),
			row.Agency,
			row.Service,
			row.Country,
			row.TotalTransactions,
			row.Matches,
			row.BoOnly,
			row.PartnerOnly,
			row.Mismatches,
			row.MatchRate.String(),
			string(row.Status),
			string(row.Treatment),
			row.Comment,
		}
		if row.TicketId != nil {
			values = append(values, *row.TicketId)
		} else {
			values = append(values, "")
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheet, cell, v)
		}
	}

	return f, nil
}
