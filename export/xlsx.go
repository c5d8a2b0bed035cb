/*
Package export converts payroll records to and from office documents.

PURPOSE:
  The spreadsheet is how administrators exchange data with the system:
  they download a work-log template, fill it in, upload it back, and
  receive the computed report as a workbook or a PDF.

WORK-LOG TEMPLATE:
  Two sheets, "Day Hours" and "Evening Hours". Row 1 is
  "Name" followed by one column per date of the month (YYYY-MM-DD).
  Each following row is one employee; blank or zero cells mean no hours.

EMPLOYEE IMPORT:
  First sheet, header row skipped, column A name, column B employee number.

SEE ALSO:
  - pdf.go: Report PDF rendering
  - api/handlers.go: Upload and download endpoints
*/
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/warp/payroll-engine/payroll"
	"github.com/xuri/excelize/v2"
)

const (
	SheetDayHours     = "Day Hours"
	SheetEveningHours = "Evening Hours"
	SheetReport       = "Overtime Report"

	nameHeader   = "Name"
	defaultSheet = "Sheet1"
)

// Field names match store/sqlite.LogField values.
const (
	FieldDay     = "day"
	FieldEvening = "evening"
)

var (
	ErrNoWorksheet  = errors.New("no worksheet found")
	ErrEmptySheet   = errors.New("worksheet is empty")
	ErrInvalidHours = errors.New("invalid hours value")
)

// =============================================================================
// WORK-LOG TEMPLATE
// =============================================================================

// WriteWorkLogTemplate writes an empty template for ym listing names.
func WriteWorkLogTemplate(w io.Writer, ym payroll.YearMonth, names []string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(defaultSheet, SheetDayHours); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetEveningHours); err != nil {
		return err
	}

	header := []any{nameHeader}
	for day := 1; day <= payroll.DaysInMonth(ym); day++ {
		header = append(header, payroll.FormatDate(ym.Day(day)))
	}

	for _, sheet := range []string{SheetDayHours, SheetEveningHours} {
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return err
		}
		for i, name := range names {
			cell, _ := excelize.CoordinatesToCellName(1, i+2)
			if err := f.SetCellValue(sheet, cell, name); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}

// HourCell is one non-empty cell of an uploaded template.
type HourCell struct {
	Name  string
	Date  string
	Field string // FieldDay or FieldEvening
	Hours int
}

// ParseWorkLogs reads a filled template. Missing sheets are skipped; blank
// and zero cells produce nothing. Hours must be whole non-negative numbers.
func ParseWorkLogs(r io.Reader) ([]HourCell, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	var cells []HourCell
	for _, sheet := range []struct{ name, field string }{
		{SheetDayHours, FieldDay},
		{SheetEveningHours, FieldEvening},
	} {
		if idx, err := f.GetSheetIndex(sheet.name); err != nil || idx < 0 {
			continue
		}
		rows, err := f.GetRows(sheet.name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sheet.name, err)
		}
		parsed, err := parseHourSheet(sheet.name, sheet.field, rows)
		if err != nil {
			return nil, err
		}
		cells = append(cells, parsed...)
	}
	return cells, nil
}

func parseHourSheet(sheet, field string, rows [][]string) ([]HourCell, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	dates := make([]string, len(header))
	for i := 1; i < len(header); i++ {
		h := strings.TrimSpace(header[i])
		if h == "" {
			continue
		}
		if _, err := payroll.ParseDate(h); err != nil {
			return nil, fmt.Errorf("%s: column %d header: %w", sheet, i+1, err)
		}
		dates[i] = h
	}

	var cells []HourCell
	for r, row := range rows[1:] {
		name := cellValue(row, 0)
		if name == "" {
			continue
		}
		for i := 1; i < len(row) && i < len(dates); i++ {
			raw := cellValue(row, i)
			if raw == "" || dates[i] == "" {
				continue
			}
			hours, err := parseHours(raw)
			if err != nil {
				ref, _ := excelize.CoordinatesToCellName(i+1, r+2)
				return nil, fmt.Errorf("%s!%s: %w", sheet, ref, err)
			}
			if hours == 0 {
				continue
			}
			cells = append(cells, HourCell{Name: name, Date: dates[i], Field: field, Hours: hours})
		}
	}
	return cells, nil
}

func parseHours(raw string) (int, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || v != float64(int(v)) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHours, raw)
	}
	return int(v), nil
}

// =============================================================================
// EMPLOYEE IMPORT
// =============================================================================

// EmployeeRow is one line of an employee upload.
type EmployeeRow struct {
	Name       string
	ExternalID string
}

// ParseEmployees reads name / employee-number pairs from the first sheet.
func ParseEmployees(r io.Reader) ([]EmployeeRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrNoWorksheet
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	var out []EmployeeRow
	for _, row := range rows[1:] {
		name := cellValue(row, 0)
		if name == "" {
			continue
		}
		out = append(out, EmployeeRow{Name: name, ExternalID: cellValue(row, 1)})
	}
	return out, nil
}

// =============================================================================
// REPORT WORKBOOK
// =============================================================================

var reportHeader = []any{
	"Name", "Employee No", "Branch", "Policy",
	"Weekday Day", "Weekday Evening", "Weekend/Holiday Day", "Weekend/Holiday Evening",
	"Total Hours", "Overtime Hours",
	"Minimum Wage", "Fixed Salary", "Overtime Pay", "Total Payment",
	"Calculation Details",
}

// WriteReport writes the month's rows as a single-sheet workbook. Money is
// written as two-decimal text so the file matches the JSON report exactly.
func WriteReport(w io.Writer, ym payroll.YearMonth, rows []payroll.PaymentResult) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(defaultSheet, SheetReport); err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetReport, "A1", &reportHeader); err != nil {
		return err
	}

	for i, r := range rows {
		values := []any{
			r.Name, r.ExternalID, r.Branch, r.PolicyName,
			r.Hours.WeekdayDay, r.Hours.WeekdayEvening, r.Hours.WeekendDay, r.Hours.WeekendEvening,
			r.TotalHours, r.OvertimeHours.String(),
			r.MinimumWageApplied.StringFixed(2), r.FixedSalary.StringFixed(2),
			r.OvertimePay.StringFixed(2), r.TotalPayment.StringFixed(2),
			r.CalculationDetails(),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetReport, cell, &values); err != nil {
			return err
		}
	}

	if err := f.SetDocProps(&excelize.DocProperties{Title: "Overtime report " + ym.String()}); err != nil {
		return err
	}
	return f.Write(w)
}

// ReportBytes is WriteReport into memory.
func ReportBytes(ym payroll.YearMonth, rows []payroll.PaymentResult) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, ym, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
