/*
Package export renders a payroll summary as a flat table.

PURPOSE:
  One row per employee with the columns Employee, Email, Hours, Gross Pay,
  Tax and Super. CSV carries just those rows; the XLSX workbook adds a
  totals row, a per-category breakdown sheet and an anomalies sheet.

  Money and hours are written with two decimals from the summary's decimal
  values, so the CSV matches the JSON summary exactly.

USAGE:
  err := export.CSV(w, summary)
  err := export.XLSX(w, summary)
*/
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/warp/payroll-engine/award"
)

// Row is one employee in the flat table.
type Row struct {
	Employee string `csv:"Employee"`
	Email    string `csv:"Email"`
	Hours    string `csv:"Hours"`
	GrossPay string `csv:"Gross Pay"`
	Tax      string `csv:"Tax"`
	Super    string `csv:"Super"`
}

// Rows flattens a summary in its employee order.
func Rows(s *award.Summary) []Row {
	rows := make([]Row, 0, len(s.Employees))
	for _, e := range s.Employees {
		rows = append(rows, Row{
			Employee: e.Name,
			Email:    e.Email,
			Hours:    e.HoursWorked.StringFixed(2),
			GrossPay: e.GrossPay.StringFixed(2),
			Tax:      e.Tax.StringFixed(2),
			Super:    e.Super.StringFixed(2),
		})
	}
	return rows
}

// Filename is the suggested download name for a summary export.
func Filename(s *award.Summary, ext string) string {
	return fmt.Sprintf("payroll_%s_%s_%s.%s", s.OrganizationID,
		s.Period.Start.Format("2006-01-02"), s.Period.End.Format("2006-01-02"), ext)
}

// =============================================================================
// CSV
// =============================================================================

// CSV writes the header and one row per employee.
func CSV(w io.Writer, s *award.Summary) error {
	rows := Rows(s)
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("write payroll csv: %w", err)
	}
	return nil
}

var header = []string{"Employee", "Email", "Hours", "Gross Pay", "Tax", "Super"}

// =============================================================================
// XLSX
// =============================================================================

const (
	payrollSheet   = "Payroll"
	breakdownSheet = "Breakdown"
	anomalySheet   = "Anomalies"
)

// XLSX writes a workbook with payroll, breakdown and anomaly sheets.
func XLSX(w io.Writer, s *award.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", payrollSheet); err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	if err := writePayroll(f, s, headerStyle); err != nil {
		return err
	}
	if err := writeBreakdown(f, s, headerStyle); err != nil {
		return err
	}
	if err := writeAnomalies(f, s, headerStyle); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write payroll xlsx: %w", err)
	}
	return nil
}

func writePayroll(f *excelize.File, s *award.Summary, style int) error {
	titles := make([]interface{}, len(header))
	for i, h := range header {
		titles[i] = h
	}
	if err := f.SetSheetRow(payrollSheet, "A1", &titles); err != nil {
		return err
	}
	if err := f.SetCellStyle(payrollSheet, "A1", "F1", style); err != nil {
		return err
	}
	f.SetColWidth(payrollSheet, "A", "B", 28)
	f.SetColWidth(payrollSheet, "C", "F", 14)

	row := 2
	for _, e := range s.Employees {
		values := []interface{}{
			e.Name, e.Email,
			e.HoursWorked.Round(2).InexactFloat64(),
			e.GrossPay.InexactFloat64(),
			e.Tax.InexactFloat64(),
			e.Super.InexactFloat64(),
		}
		if err := f.SetSheetRow(payrollSheet, cell("A", row), &values); err != nil {
			return err
		}
		row++
	}

	totals := []interface{}{
		"Total", fmt.Sprintf("%d employees", s.Totals.EmployeeCount),
		s.Totals.Hours.InexactFloat64(),
		s.Totals.GrossPay.InexactFloat64(),
		s.Totals.Tax.InexactFloat64(),
		s.Totals.Super.InexactFloat64(),
	}
	if err := f.SetSheetRow(payrollSheet, cell("A", row), &totals); err != nil {
		return err
	}
	return f.SetCellStyle(payrollSheet, cell("A", row), cell("F", row), style)
}

func writeBreakdown(f *excelize.File, s *award.Summary, style int) error {
	if _, err := f.NewSheet(breakdownSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(breakdownSheet, "A1", &[]interface{}{"Category", "Amount"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(breakdownSheet, "A1", "B1", style); err != nil {
		return err
	}
	f.SetColWidth(breakdownSheet, "A", "A", 22)

	for i, c := range award.Categories {
		values := []interface{}{string(c), s.Breakdown.Get(c).InexactFloat64()}
		if err := f.SetSheetRow(breakdownSheet, cell("A", i+2), &values); err != nil {
			return err
		}
	}
	return nil
}

func writeAnomalies(f *excelize.File, s *award.Summary, style int) error {
	if _, err := f.NewSheet(anomalySheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(anomalySheet, "A1", &[]interface{}{"Employee", "Type", "Severity", "Description", "Shifts"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(anomalySheet, "A1", "E1", style); err != nil {
		return err
	}
	f.SetColWidth(anomalySheet, "D", "D", 48)

	for i, a := range s.Anomalies {
		ids := make([]string, len(a.ShiftIDs))
		for j, id := range a.ShiftIDs {
			ids[j] = string(id)
		}
		values := []interface{}{a.EmployeeName, string(a.Type), string(a.Severity), a.Description, strings.Join(ids, ", ")}
		if err := f.SetSheetRow(anomalySheet, cell("A", i+2), &values); err != nil {
			return err
		}
	}
	return nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
