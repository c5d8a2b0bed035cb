package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/payroll"
	"github.com/xuri/excelize/v2"
)

var feb = payroll.MustParseYearMonth("2025-02")

func openBook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func toBytes(t *testing.T, f *excelize.File) []byte {
	t.Helper()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestWorkLogTemplate_Layout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkLogTemplate(&buf, feb, []string{"Ali", "Banu"}))

	f := openBook(t, buf.Bytes())
	for _, sheet := range []string{SheetDayHours, SheetEveningHours} {
		rows, err := f.GetRows(sheet)
		require.NoError(t, err)
		require.Len(t, rows, 3, sheet)
		assert.Len(t, rows[0], 29, sheet) // Name + 28 dates
		assert.Equal(t, "Name", rows[0][0])
		assert.Equal(t, "2025-02-01", rows[0][1])
		assert.Equal(t, "2025-02-28", rows[0][28])
		assert.Equal(t, "Banu", rows[2][0])
	}

	// An untouched template imports nothing
	cells, err := ParseWorkLogs(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Empty(t, cells)
}

func TestParseWorkLogs_FilledTemplate(t *testing.T) {
	// GIVEN: A template with day, evening, zero and blank cells
	var buf bytes.Buffer
	require.NoError(t, WriteWorkLogTemplate(&buf, feb, []string{"Ali", "Banu"}))
	f := openBook(t, buf.Bytes())

	require.NoError(t, f.SetCellValue(SheetDayHours, "B2", 8))   // Ali 02-01
	require.NoError(t, f.SetCellValue(SheetDayHours, "C2", 0))   // zero: skipped
	require.NoError(t, f.SetCellValue(SheetDayHours, "D3", "6")) // Banu 02-03, text
	require.NoError(t, f.SetCellValue(SheetEveningHours, "D3", 2.0))

	// WHEN: Parsing the upload
	cells, err := ParseWorkLogs(bytes.NewReader(toBytes(t, f)))

	// THEN: Non-zero cells are returned per sheet
	require.NoError(t, err)
	assert.Equal(t, []HourCell{
		{Name: "Ali", Date: "2025-02-01", Field: FieldDay, Hours: 8},
		{Name: "Banu", Date: "2025-02-03", Field: FieldDay, Hours: 6},
		{Name: "Banu", Date: "2025-02-03", Field: FieldEvening, Hours: 2},
	}, cells)
}

func TestParseWorkLogs_InvalidHours(t *testing.T) {
	for _, bad := range []any{"abc", -3, 1.5} {
		var buf bytes.Buffer
		require.NoError(t, WriteWorkLogTemplate(&buf, feb, []string{"Ali"}))
		f := openBook(t, buf.Bytes())
		require.NoError(t, f.SetCellValue(SheetEveningHours, "E2", bad))

		_, err := ParseWorkLogs(bytes.NewReader(toBytes(t, f)))
		require.Error(t, err, "%v", bad)
		assert.ErrorIs(t, err, ErrInvalidHours)
		assert.True(t, strings.HasPrefix(err.Error(), "Evening Hours!E2:"), err.Error())
	}
}

func TestParseWorkLogs_BadHeaderDate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkLogTemplate(&buf, feb, []string{"Ali"}))
	f := openBook(t, buf.Bytes())
	require.NoError(t, f.SetCellValue(SheetDayHours, "C1", "Feb 2nd"))

	_, err := ParseWorkLogs(bytes.NewReader(toBytes(t, f)))
	assert.ErrorIs(t, err, payroll.ErrInvalidDate)
}

func TestParseWorkLogs_MissingSheetIsSkipped(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", SheetEveningHours))
	require.NoError(t, f.SetSheetRow(SheetEveningHours, "A1", &[]any{"Name", "2025-02-03"}))
	require.NoError(t, f.SetSheetRow(SheetEveningHours, "A2", &[]any{"Ali", 3}))

	cells, err := ParseWorkLogs(bytes.NewReader(toBytes(t, f)))
	require.NoError(t, err)
	assert.Equal(t, []HourCell{{Name: "Ali", Date: "2025-02-03", Field: FieldEvening, Hours: 3}}, cells)
}

func TestParseWorkLogs_NotAWorkbook(t *testing.T) {
	_, err := ParseWorkLogs(strings.NewReader("name,hours\nAli,3\n"))
	assert.Error(t, err)
}

func TestParseEmployees(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Name", "No"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"  Cem Ak ", 100}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]any{"Nur Er"}))

	rows, err := ParseEmployees(bytes.NewReader(toBytes(t, f)))
	require.NoError(t, err)
	assert.Equal(t, []EmployeeRow{{Name: "Cem Ak", ExternalID: "100"}, {Name: "Nur Er"}}, rows)
}

func TestParseEmployees_EmptySheet(t *testing.T) {
	_, err := ParseEmployees(bytes.NewReader(toBytes(t, excelize.NewFile())))
	assert.ErrorIs(t, err, ErrEmptySheet)
}

func sampleRows() []payroll.PaymentResult {
	return []payroll.PaymentResult{
		{
			EmployeeID: "a", Name: "Deniz Arslan", ExternalID: "A-001", Branch: "Production",
			PolicyName:         "Minimum wage + overtime",
			Hours:              payroll.HourBuckets{WeekdayDay: 100},
			TotalHours:         100,
			OvertimeHours:      decimal.NewFromInt(20),
			OvertimePay:        decimal.NewFromInt(2000),
			TotalPayment:       decimal.NewFromInt(19002),
			MinimumWageApplied: decimal.NewFromInt(17002),
			Details:            []string{"minimum wage 17002.00", "total 19002.00 = base 17002.00 + overtime 2000.00"},
		},
		{EmployeeID: "b", Name: "Broken Row", Error: "negative hours", Details: []string{"error: negative hours"}},
	}
}

func TestWriteReport(t *testing.T) {
	data, err := ReportBytes(feb, sampleRows())
	require.NoError(t, err)

	f := openBook(t, data)
	rows, err := f.GetRows(SheetReport)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Len(t, rows[0], 15)
	assert.Equal(t, "Total Payment", rows[0][13])
	assert.Equal(t, []string{
		"Deniz Arslan", "A-001", "Production", "Minimum wage + overtime",
		"100", "0", "0", "0", "100", "20",
		"17002.00", "0.00", "2000.00", "19002.00",
		"minimum wage 17002.00; total 19002.00 = base 17002.00 + overtime 2000.00",
	}, rows[1])
	assert.Equal(t, "error: negative hours", rows[2][14])

	props, err := f.GetDocProps()
	require.NoError(t, err)
	assert.Equal(t, "Overtime report 2025-02", props.Title)
}

func TestWriteReport_Empty(t *testing.T) {
	data, err := ReportBytes(feb, nil)
	require.NoError(t, err)
	rows, err := openBook(t, data).GetRows(SheetReport)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWriteReportPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportPDF(&buf, feb, sampleRows()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.True(t, bytes.Contains(buf.Bytes(), []byte("%%EOF")))

	var empty bytes.Buffer
	require.NoError(t, WriteReportPDF(&empty, feb, nil))
	assert.True(t, bytes.HasPrefix(empty.Bytes(), []byte("%PDF-")))
}
