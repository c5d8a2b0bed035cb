/*
handlers_test.go - HTTP handler tests

Tests for:
- Employee, policy, holiday and settings endpoints
- Work log upsert semantics and spreadsheet import
- Report, export and snapshot endpoints
- Error status mapping
*/
package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/export"
	"github.com/warp/payroll-engine/payroll"
	"github.com/xuri/excelize/v2"
)

func mustDecimal(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func createPolicy(t *testing.T, router http.Handler, body map[string]any) PolicyDTO {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/policies", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[PolicyDTO](t, rec)
}

func createEmployee(t *testing.T, router http.Handler, req EmployeeRequest) EmployeeDTO {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/employees", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[EmployeeDTO](t, rec)
}

func setHours(t *testing.T, router http.Handler, empID, date, field string, hours int) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/worklogs", WorkLogRequest{
		EmployeeID: empID, Date: date, Field: field, Hours: &hours,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func uploadFile(t *testing.T, router http.Handler, path string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "upload.xlsx")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestEmployee_CreateGetUpdateDelete(t *testing.T) {
	_, router := setupTestRouter(t)

	policy := createPolicy(t, router, map[string]any{"name": "Office", "preset": "fixed_salary"})
	pid := policy.ID

	// GIVEN: A created employee
	emp := createEmployee(t, router, EmployeeRequest{
		Name: "Ada Şahin", ExternalID: "E-1", Branch: "HQ", PolicyID: &pid,
		FixedSalary: mustDecimal("21000.50"),
	})
	require.NotEmpty(t, emp.ID)

	// WHEN: Fetching it
	rec := doJSON(t, router, http.MethodGet, "/api/employees/"+emp.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[EmployeeDTO](t, rec)

	// THEN: Fields round-trip exactly
	assert.Equal(t, "Ada Şahin", got.Name)
	assert.Equal(t, "21000.5", got.FixedSalary.String())
	require.NotNil(t, got.PolicyID)
	assert.Equal(t, pid, *got.PolicyID)

	// Update
	rec = doJSON(t, router, http.MethodPut, "/api/employees/"+emp.ID, EmployeeRequest{Name: "Ada Şahin-Yıldız"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Nil(t, decodeBody[EmployeeDTO](t, rec).PolicyID)

	// Delete, then 404
	rec = doJSON(t, router, http.MethodDelete, "/api/employees/"+emp.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodGet, "/api/employees/"+emp.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(t, router, http.MethodDelete, "/api/employees/"+emp.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmployee_Validation(t *testing.T) {
	_, router := setupTestRouter(t)
	missing := "missing-policy"

	cases := map[string]any{
		"missing name":    EmployeeRequest{ExternalID: "E-1"},
		"negative salary": EmployeeRequest{Name: "X", FixedSalary: mustDecimal("-1")},
		"unknown policy":  EmployeeRequest{Name: "X", PolicyID: &missing},
		"unknown field":   map[string]any{"name": "X", "salary": 5},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/employees", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestEmployee_BulkIsAllOrNothing(t *testing.T) {
	h, router := setupTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/employees/bulk", BulkEmployeesRequest{
		Employees: []EmployeeRequest{{Name: "A"}, {Name: ""}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	employees, err := h.Store.ListEmployees(t.Context())
	require.NoError(t, err)
	assert.Empty(t, employees)

	rec = doJSON(t, router, http.MethodPost, "/api/employees/bulk", BulkEmployeesRequest{
		Employees: []EmployeeRequest{{Name: "B"}, {Name: "A"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/employees", nil)
	list := decodeBody[[]EmployeeDTO](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Name)
}

func TestEmployee_Upload(t *testing.T) {
	_, router := setupTestRouter(t)

	f := excelize.NewFile()
	rows := [][]any{{"Name", "Employee No"}, {"Cem Ak", "100"}, {"", "skipped"}, {"Nur Er", "101"}}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rec := uploadFile(t, router, "/api/employees/upload", buf.Bytes())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, decodeBody[UploadResultDTO](t, rec).Imported)

	list := decodeBody[[]EmployeeDTO](t, doJSON(t, router, http.MethodGet, "/api/employees", nil))
	require.Len(t, list, 2)
	assert.Equal(t, "100", list[0].ExternalID)
}

func TestUpload_MissingFile(t *testing.T) {
	_, router := setupTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/employees/upload", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func TestHoliday_CreateDuplicateDelete(t *testing.T) {
	_, router := setupTestRouter(t)

	body := HolidayRequest{Date: "2025-02-12", Description: "Plant shutdown"}
	rec := doJSON(t, router, http.MethodPost, "/api/holidays", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Duplicate date
	rec = doJSON(t, router, http.MethodPost, "/api/holidays", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	list := decodeBody[[]payroll.Holiday](t, doJSON(t, router, http.MethodGet, "/api/holidays", nil))
	require.Len(t, list, 1)
	assert.Equal(t, "Plant shutdown", list[0].Description)

	rec = doJSON(t, router, http.MethodDelete, "/api/holidays/2025-02-12", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list = decodeBody[[]payroll.Holiday](t, doJSON(t, router, http.MethodGet, "/api/holidays", nil))
	assert.Empty(t, list)
}

func TestHoliday_InvalidDate(t *testing.T) {
	_, router := setupTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/holidays", HolidayRequest{Date: "2025-2-12"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHoliday_Official(t *testing.T) {
	_, router := setupTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/holidays/official/2025", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dto := decodeBody[OfficialHolidaysDTO](t, rec)
	assert.Equal(t, 2025, dto.Year)
	assert.Len(t, dto.Holidays, 17)

	rec = doJSON(t, router, http.MethodGet, "/api/holidays/official/1999", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[OfficialHolidaysDTO](t, rec).Holidays)

	rec = doJSON(t, router, http.MethodGet, "/api/holidays/official/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHoliday_CustomHolidayChangesReport(t *testing.T) {
	// GIVEN: Minimum-wage scenario (20 working days)
	_, router := setupTestRouter(t)
	loadScenario(t, router, "minimum-wage-overtime")

	// WHEN: A weekday is declared a custom holiday
	rec := doJSON(t, router, http.MethodPost, "/api/holidays", HolidayRequest{Date: "2025-02-12"})
	require.Equal(t, http.StatusCreated, rec.Code)
	report := fetchReport(t, router, "2025-02")

	// THEN: 19 working days; that day's 5 hours move to the holiday bucket
	assert.Equal(t, 19, report.WorkingDays)
	row := report.Rows[0]
	assert.Equal(t, 95, row.WeekdayDayHours)
	assert.Equal(t, 5, row.WeekendDayHours)
	// 95 - 76 = 19 day hours x 100 + 5 holiday hours x 120
	assert.Equal(t, "2500.00", row.OvertimePayment)
	assert.Equal(t, "19502.00", row.TotalPayment)
}

// =============================================================================
// WORK LOGS
// =============================================================================

func TestWorkLog_UpsertKeepsOtherField(t *testing.T) {
	_, router := setupTestRouter(t)
	emp := createEmployee(t, router, EmployeeRequest{Name: "Oya"})

	setHours(t, router, emp.ID, "2025-03-03", "day", 8)
	setHours(t, router, emp.ID, "2025-03-03", "evening", 2)
	setHours(t, router, emp.ID, "2025-03-03", "day", 7)

	rec := doJSON(t, router, http.MethodGet, "/api/worklogs/2025-03", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	logs := decodeBody[[]WorkLogDTO](t, rec)
	require.Len(t, logs, 1)
	assert.Equal(t, 7, logs[0].DayHours)
	assert.Equal(t, 2, logs[0].EveningHours)

	// Other months are not included
	rec = doJSON(t, router, http.MethodGet, "/api/worklogs/2025-04", nil)
	assert.Empty(t, decodeBody[[]WorkLogDTO](t, rec))
}

func TestWorkLog_Validation(t *testing.T) {
	_, router := setupTestRouter(t)
	emp := createEmployee(t, router, EmployeeRequest{Name: "Oya"})
	neg, ok := -1, 4

	cases := map[string]WorkLogRequest{
		"negative hours": {EmployeeID: emp.ID, Date: "2025-03-03", Field: "day", Hours: &neg},
		"bad field":      {EmployeeID: emp.ID, Date: "2025-03-03", Field: "night", Hours: &ok},
		"bad date":       {EmployeeID: emp.ID, Date: "03/03/2025", Field: "day", Hours: &ok},
		"missing hours":  {EmployeeID: emp.ID, Date: "2025-03-03", Field: "day"},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/worklogs", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	rec := doJSON(t, router, http.MethodPost, "/api/worklogs", WorkLogRequest{
		EmployeeID: "ghost", Date: "2025-03-03", Field: "day", Hours: &ok,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/worklogs/2025-13", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorkLog_TemplateRoundTrip(t *testing.T) {
	// GIVEN: Two employees and the month's template
	_, router := setupTestRouter(t)
	createEmployee(t, router, EmployeeRequest{Name: "Bora"})
	createEmployee(t, router, EmployeeRequest{Name: "Alp"})

	rec := doJSON(t, router, http.MethodGet, "/api/worklogs/template/2025-02", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "worklog-template-2025-02.xlsx")

	// WHEN: Filling a few cells (plus an unknown name) and uploading
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	rows, err := f.GetRows(export.SheetDayHours)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Alp", rows[1][0])
	assert.Equal(t, "2025-02-01", rows[0][1])

	require.NoError(t, f.SetCellValue(export.SheetDayHours, "C2", 6))     // Alp, 2025-02-02
	require.NoError(t, f.SetCellValue(export.SheetEveningHours, "D3", 3)) // Bora, 2025-02-03
	require.NoError(t, f.SetCellValue(export.SheetDayHours, "A4", "Stranger"))
	require.NoError(t, f.SetCellValue(export.SheetDayHours, "B4", 2))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rec = uploadFile(t, router, "/api/worklogs/upload", buf.Bytes())

	// THEN: Known names are imported, the stranger is reported
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decodeBody[UploadResultDTO](t, rec)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, []string{"Stranger"}, result.Skipped)

	logs := decodeBody[[]WorkLogDTO](t, doJSON(t, router, http.MethodGet, "/api/worklogs/2025-02", nil))
	require.Len(t, logs, 2)
	byDate := map[string]WorkLogDTO{}
	for _, l := range logs {
		byDate[l.Date] = l
	}
	assert.Equal(t, 6, byDate["2025-02-02"].DayHours)
	assert.Equal(t, 3, byDate["2025-02-03"].EveningHours)
}

// =============================================================================
// POLICIES
// =============================================================================

func TestPolicy_CreateListGetDelete(t *testing.T) {
	_, router := setupTestRouter(t)

	p := createPolicy(t, router, map[string]any{
		"id": "mixed", "name": "Mixed",
		"include_fixed_salary": true, "include_on_call": true, "include_overtime_calc": true,
	})
	assert.Equal(t, []string{"fixed_salary", "on_call", "overtime_calc"}, p.Flags)

	list := decodeBody[[]PolicyDTO](t, doJSON(t, router, http.MethodGet, "/api/policies", nil))
	require.Len(t, list, 1)

	rec := doJSON(t, router, http.MethodGet, "/api/policies/mixed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[PolicyDTO](t, rec).Config.IncludeOnCall)

	rec = doJSON(t, router, http.MethodDelete, "/api/policies/mixed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodGet, "/api/policies/mixed", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(t, router, http.MethodDelete, "/api/policies/mixed", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPolicy_Invalid(t *testing.T) {
	_, router := setupTestRouter(t)
	for _, body := range []map[string]any{
		{"include_fixed_salary": true},
		{"name": "X", "preset": "bogus"},
	} {
		rec := doJSON(t, router, http.MethodPost, "/api/policies", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	}
}

func TestPolicy_Presets(t *testing.T) {
	_, router := setupTestRouter(t)
	presets := decodeBody[[]PresetDTO](t, doJSON(t, router, http.MethodGet, "/api/policies/presets", nil))
	require.NotEmpty(t, presets)
	assert.Equal(t, "minimum_wage_overtime", presets[0].Key)
	assert.True(t, presets[0].Config.IncludeMinimumWage)
	assert.True(t, presets[0].Config.IncludeOvertimeCalc)
}

func TestPolicy_DeleteFallsBackToEmptyPolicy(t *testing.T) {
	// GIVEN: Scenario B employee on a fixed-salary policy
	_, router := setupTestRouter(t)
	loadScenario(t, router, "fixed-salary")

	// WHEN: The policy is deleted
	rec := doJSON(t, router, http.MethodDelete, "/api/policies/fixed-salary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// THEN: The employee is computed with no components
	row := fetchReport(t, router, "2025-02").Rows[0]
	assert.Equal(t, "0.00", row.TotalPayment)
	assert.Contains(t, row.CalculationDetails, "no payment components enabled")
}

// =============================================================================
// SETTINGS
// =============================================================================

func TestSettings_GetAndUpdate(t *testing.T) {
	_, router := setupTestRouter(t)

	s := decodeBody[SettingsDTO](t, doJSON(t, router, http.MethodGet, "/api/settings", nil))
	assert.Equal(t, "100", s.DayRate.String())
	assert.Equal(t, "120", s.EveningRate.String())
	assert.Equal(t, "17002", s.MinimumWage.String())

	rec := doJSON(t, router, http.MethodPut, "/api/settings", map[string]any{"eveningRate": "135.5"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	s = decodeBody[SettingsDTO](t, rec)
	assert.Equal(t, "135.5", s.EveningRate.String())
	assert.Equal(t, "100", s.DayRate.String())
}

func TestSettings_Invalid(t *testing.T) {
	_, router := setupTestRouter(t)
	for _, body := range []map[string]any{
		{"dayRate": -5},
		{},
	} {
		rec := doJSON(t, router, http.MethodPut, "/api/settings", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestSettings_RateChangeFlowsIntoReport(t *testing.T) {
	_, router := setupTestRouter(t)
	loadScenario(t, router, "fixed-salary-on-call")

	rec := doJSON(t, router, http.MethodPut, "/api/settings", map[string]any{"eveningRate": 200})
	require.Equal(t, http.StatusOK, rec.Code)

	row := fetchReport(t, router, "2025-02").Rows[0]
	assert.Equal(t, "2400.00", row.OvertimePayment)
}

// =============================================================================
// REPORTS
// =============================================================================

func TestReport_InvalidMonth(t *testing.T) {
	_, router := setupTestRouter(t)
	for _, m := range []string{"2025-13", "2025-1", "202502", "abcd-ef"} {
		rec := doJSON(t, router, http.MethodGet, "/api/reports/"+m, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, m)
		assert.Contains(t, decodeBody[ErrorResponse](t, rec).Details, "invalid_month_format")
	}
}

func TestReport_OrderedByName(t *testing.T) {
	_, router := setupTestRouter(t)
	for _, name := range []string{"Zehra", "Ali", "Mehmet"} {
		createEmployee(t, router, EmployeeRequest{Name: name})
	}

	report := fetchReport(t, router, "2025-01")
	names := make([]string, len(report.Rows))
	for i, r := range report.Rows {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"Ali", "Mehmet", "Zehra"}, names)
	assert.Equal(t, 22, report.WorkingDays) // January 2025: 23 weekdays, 1 official holiday
}

func TestReport_EmptyMonth(t *testing.T) {
	_, router := setupTestRouter(t)
	report := fetchReport(t, router, "2025-05")
	assert.Empty(t, report.Rows)
	assert.Equal(t, []string{"2025-05-01", "2025-05-19"}, report.Holidays)
}

func TestReport_Exports(t *testing.T) {
	_, router := setupTestRouter(t)
	loadScenario(t, router, "minimum-wage-overtime")

	rec := doJSON(t, router, http.MethodGet, "/api/reports/2025-02/xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	total, err := f.GetCellValue(export.SheetReport, "N2")
	require.NoError(t, err)
	assert.Equal(t, "19002.00", total)

	rec = doJSON(t, router, http.MethodGet, "/api/reports/2025-02/pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))

	rec = doJSON(t, router, http.MethodGet, "/api/reports/2025-2/pdf", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

func TestSnapshot_SaveVerifyDetectsChange(t *testing.T) {
	// GIVEN: A stored snapshot of the minimum-wage scenario
	_, router := setupTestRouter(t)
	loadScenario(t, router, "minimum-wage-overtime")

	rec := doJSON(t, router, http.MethodPost, "/api/reports/2025-02/snapshot", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/reports/2025-02/snapshot", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeBody[SnapshotDTO](t, rec)
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, "19002.00", snap.Rows[0].TotalPayment)

	// WHEN: Verifying without changes
	verify := decodeBody[VerifyDTO](t, doJSON(t, router, http.MethodGet, "/api/reports/2025-02/verify", nil))

	// THEN: Matches
	assert.True(t, verify.Matches)
	assert.Empty(t, verify.Diffs)

	// WHEN: A log changes after the snapshot
	setHours(t, router, "emp-a", "2025-02-03", "day", 6)
	verify = decodeBody[VerifyDTO](t, doJSON(t, router, http.MethodGet, "/api/reports/2025-02/verify", nil))

	// THEN: The changed total is reported
	assert.False(t, verify.Matches)
	require.Len(t, verify.Diffs, 1)
	assert.Equal(t, "total", verify.Diffs[0].Reason)
	assert.Equal(t, "19002.00", verify.Diffs[0].Before)
	assert.Equal(t, "19102.00", verify.Diffs[0].After)

	// And an added employee shows up as added
	createEmployee(t, router, EmployeeRequest{Name: "New Hire"})
	verify = decodeBody[VerifyDTO](t, doJSON(t, router, http.MethodGet, "/api/reports/2025-02/verify", nil))
	reasons := []string{}
	for _, d := range verify.Diffs {
		reasons = append(reasons, d.Reason)
	}
	assert.ElementsMatch(t, []string{"total", "added"}, reasons)
}

func TestSnapshot_NotFound(t *testing.T) {
	_, router := setupTestRouter(t)
	for _, path := range []string{"/api/reports/2025-02/snapshot", "/api/reports/2025-02/verify"} {
		rec := doJSON(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{payroll.ErrInvalidMonthFormat, http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", payroll.ErrNegativeHours), http.StatusBadRequest},
		{payroll.ErrUnknownPolicy, http.StatusBadRequest},
		{payroll.ErrEmployeeNotFound, http.StatusNotFound},
		{payroll.ErrSnapshotNotFound, http.StatusNotFound},
		{payroll.ErrDuplicateHoliday, http.StatusConflict},
		{fmt.Errorf("disk full"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, statusFor(c.err), c.err.Error())
	}
}
