/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes record management and the monthly report via REST API. Handles
  HTTP request/response, JSON serialization, and delegates computation to
  the payroll package.

ENDPOINTS:
  Settings:
    GET    /api/settings                       Current rates
    PUT    /api/settings                       Update rates

  Employees:
    GET    /api/employees                      List employees
    POST   /api/employees                      Create employee
    POST   /api/employees/bulk                 Create many
    POST   /api/employees/upload               Import from spreadsheet
    GET    /api/employees/{id}                 Get employee
    PUT    /api/employees/{id}                 Replace employee
    DELETE /api/employees/{id}                 Delete employee and logs

  Holidays:
    GET    /api/holidays                       Custom holidays
    POST   /api/holidays                       Add custom holiday (409 if present)
    DELETE /api/holidays/{date}                Remove custom holiday
    GET    /api/holidays/official/{year}       Official table for a year

  Work logs:
    GET    /api/worklogs/{yearMonth}           Month's logs
    POST   /api/worklogs                       Set day or evening hours
    POST   /api/worklogs/upload                Import filled template
    GET    /api/worklogs/template/{yearMonth}  Download template

  Policies:
    GET    /api/policies                       List
    POST   /api/policies                       Create from JSON
    GET    /api/policies/presets               Built-in flag combinations
    GET    /api/policies/{id}                  Get
    DELETE /api/policies/{id}                  Delete

  Reports:
    GET    /api/reports/{yearMonth}            JSON report
    GET    /api/reports/{yearMonth}/xlsx       Spreadsheet export
    GET    /api/reports/{yearMonth}/pdf        PDF export
    POST   /api/reports/{yearMonth}/snapshot   Store current report
    GET    /api/reports/{yearMonth}/snapshot   Stored report
    GET    /api/reports/{yearMonth}/verify     Recompute and diff against snapshot

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid month, unknown policy reference
  - 404: Resource not found
  - 409: Duplicate holiday
  - 500: Internal errors (logged)

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/export"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/holidays"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
	"go.uber.org/zap"
)

const maxUploadBytes = 10 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store         *sqlite.Store
	Official      *holidays.Table
	Calendar      *payroll.Calendar
	Reporter      *payroll.Reporter
	PolicyFactory *factory.PolicyFactory
	Logger        *zap.Logger

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler wires the engine to the store. workers <= 0 means GOMAXPROCS.
func NewHandler(store *sqlite.Store, official *holidays.Table, logger *zap.Logger, workers int) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	cal := payroll.NewCalendar(official)
	asm := payroll.NewAssembler(cal, logger.Named("report"))
	asm.Workers = workers

	return &Handler{
		Store:         store,
		Official:      official,
		Calendar:      cal,
		Reporter:      payroll.NewReporter(store, asm),
		PolicyFactory: factory.NewPolicyFactory(),
		Logger:        logger,
	}
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

// GetSettings returns the current rates.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	raw, err := h.Store.Settings(r.Context())
	if err != nil {
		h.fail(w, "Failed to load settings", err)
		return
	}
	s, _ := payroll.SettingsFromMap(raw)
	writeJSON(w, http.StatusOK, SettingsDTO{DayRate: s.DayRate, EveningRate: s.EveningRate, MinimumWage: s.MinimumWage})
}

// UpdateSettings updates the supplied rates.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	values := make(map[string]string)
	for key, v := range map[string]*decimal.Decimal{
		payroll.SettingDayRate:     req.DayRate,
		payroll.SettingEveningRate: req.EveningRate,
		payroll.SettingMinimumWage: req.MinimumWage,
	} {
		if v == nil {
			continue
		}
		if v.IsNegative() {
			writeError(w, http.StatusBadRequest, "Rates must not be negative", fmt.Errorf("%s=%s", key, v.String()))
			return
		}
		values[key] = v.String()
	}
	if len(values) == 0 {
		writeError(w, http.StatusBadRequest, "No settings supplied", nil)
		return
	}

	if err := h.Store.UpdateSettings(r.Context(), values); err != nil {
		h.fail(w, "Failed to update settings", err)
		return
	}
	h.GetSettings(w, r)
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.fail(w, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := payroll.EmployeeID(chi.URLParam(r, "id"))

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		h.fail(w, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// CreateEmployee creates a new employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	emp, err := h.employeeFromRequest(r.Context(), payroll.EmployeeID(uuid.NewString()), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employee", err)
		return
	}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		h.fail(w, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// BulkCreateEmployees creates every employee in the request, or none.
func (h *Handler) BulkCreateEmployees(w http.ResponseWriter, r *http.Request) {
	var req BulkEmployeesRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	emps := make([]payroll.Employee, 0, len(req.Employees))
	for i, er := range req.Employees {
		emp, err := h.employeeFromRequest(r.Context(), payroll.EmployeeID(uuid.NewString()), er)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid employee at index %d", i), err)
			return
		}
		emps = append(emps, emp)
	}

	if err := h.Store.SaveEmployees(r.Context(), emps); err != nil {
		h.fail(w, "Failed to create employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(emps))
	for i, e := range emps {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusCreated, dtos)
}

// UpdateEmployee replaces an existing employee's fields.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id := payroll.EmployeeID(chi.URLParam(r, "id"))

	existing, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		h.fail(w, "Failed to get employee", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}

	var req EmployeeRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	emp, err := h.employeeFromRequest(r.Context(), id, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employee", err)
		return
	}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		h.fail(w, "Failed to update employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// DeleteEmployee removes an employee and their work logs.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := payroll.EmployeeID(chi.URLParam(r, "id"))
	if err := h.Store.DeleteEmployee(r.Context(), id); err != nil {
		h.fail(w, "Failed to delete employee", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// UploadEmployees imports names and employee numbers from a spreadsheet.
func (h *Handler) UploadEmployees(w http.ResponseWriter, r *http.Request) {
	data, ok := readUpload(w, r)
	if !ok {
		return
	}

	rows, err := export.ParseEmployees(bytes.NewReader(data))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid spreadsheet", err)
		return
	}
	if len(rows) == 0 {
		writeJSON(w, http.StatusOK, UploadResultDTO{Imported: 0})
		return
	}

	emps := make([]payroll.Employee, len(rows))
	for i, row := range rows {
		emps[i] = payroll.Employee{
			ID:         payroll.EmployeeID(uuid.NewString()),
			ExternalID: row.ExternalID,
			Name:       row.Name,
		}
	}
	if err := h.Store.SaveEmployees(r.Context(), emps); err != nil {
		h.fail(w, "Failed to import employees", err)
		return
	}

	h.Logger.Info("employees imported", zap.Int("count", len(emps)))
	writeJSON(w, http.StatusOK, UploadResultDTO{Imported: len(emps)})
}

func (h *Handler) employeeFromRequest(ctx context.Context, id payroll.EmployeeID, req EmployeeRequest) (payroll.Employee, error) {
	for name, d := range map[string]*decimal.Decimal{
		"fixed_salary":        &req.FixedSalary,
		"fixed_overtime_pay":  &req.FixedOvertimePay,
		"fixed_day_hours":     &req.FixedDayHours,
		"fixed_evening_hours": &req.FixedEveningHours,
	} {
		if d.IsNegative() {
			return payroll.Employee{}, fmt.Errorf("%s must not be negative", name)
		}
	}

	emp := payroll.Employee{
		ID:                id,
		ExternalID:        req.ExternalID,
		Name:              req.Name,
		Branch:            req.Branch,
		FixedSalary:       req.FixedSalary,
		FixedOvertimePay:  req.FixedOvertimePay,
		FixedDayHours:     req.FixedDayHours,
		FixedEveningHours: req.FixedEveningHours,
	}

	if req.PolicyID != nil {
		pid := payroll.PolicyID(*req.PolicyID)
		policy, err := h.Store.GetPolicy(ctx, pid)
		if err != nil {
			return payroll.Employee{}, err
		}
		if policy == nil {
			return payroll.Employee{}, fmt.Errorf("%w: %s", payroll.ErrUnknownPolicy, pid)
		}
		emp.PolicyID = &pid
	}
	return emp, nil
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns the custom holidays.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	hs, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		h.fail(w, "Failed to get holidays", err)
		return
	}
	if hs == nil {
		hs = []payroll.Holiday{}
	}
	writeJSON(w, http.StatusOK, hs)
}

// CreateHoliday records a custom holiday.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req HolidayRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	holiday := payroll.Holiday{Date: req.Date, Description: req.Description}
	if err := h.Store.AddHoliday(r.Context(), holiday); err != nil {
		h.fail(w, "Failed to create holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, holiday)
}

// DeleteHoliday removes a custom holiday.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := payroll.ParseDate(date); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	if err := h.Store.DeleteHoliday(r.Context(), date); err != nil {
		h.fail(w, "Failed to delete holiday", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// ListOfficialHolidays returns the official table for a year.
func (h *Handler) ListOfficialHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	writeJSON(w, http.StatusOK, OfficialHolidaysDTO{Year: year, Holidays: h.Official.HolidaysFor(year)})
}

// =============================================================================
// WORK LOG HANDLERS
// =============================================================================

// ListWorkLogs returns every log of the month, ordered by employee then date.
func (h *Handler) ListWorkLogs(w http.ResponseWriter, r *http.Request) {
	ym, err := payroll.ParseYearMonth(chi.URLParam(r, "yearMonth"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month (use YYYY-MM)", err)
		return
	}

	byEmp, err := h.Store.MonthLogs(r.Context(), ym)
	if err != nil {
		h.fail(w, "Failed to load work logs", err)
		return
	}

	dtos := []WorkLogDTO{}
	for _, logs := range byEmp {
		for _, l := range logs {
			dtos = append(dtos, WorkLogDTO{
				EmployeeID:   string(l.EmployeeID),
				Date:         l.Date,
				DayHours:     l.DayHours,
				EveningHours: l.EveningHours,
				SundayReason: l.SundayReason,
			})
		}
	}
	sort.Slice(dtos, func(i, j int) bool {
		if dtos[i].EmployeeID != dtos[j].EmployeeID {
			return dtos[i].EmployeeID < dtos[j].EmployeeID
		}
		return dtos[i].Date < dtos[j].Date
	})
	writeJSON(w, http.StatusOK, dtos)
}

// UpsertWorkLog sets one hour field; the other field is left as it was.
func (h *Handler) UpsertWorkLog(w http.ResponseWriter, r *http.Request) {
	var req WorkLogRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	empID := payroll.EmployeeID(req.EmployeeID)
	err := h.Store.UpsertWorkLogField(r.Context(), empID, req.Date, sqlite.LogField(req.Field), *req.Hours, req.Reason)
	if err != nil {
		h.fail(w, "Failed to save work log", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "saved"})
}

// UploadWorkLogs imports a filled template. Rows are matched to employees
// by name; unknown names are reported back and skipped.
func (h *Handler) UploadWorkLogs(w http.ResponseWriter, r *http.Request) {
	data, ok := readUpload(w, r)
	if !ok {
		return
	}

	cells, err := export.ParseWorkLogs(bytes.NewReader(data))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid spreadsheet", err)
		return
	}

	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.fail(w, "Failed to list employees", err)
		return
	}
	byName := make(map[string]payroll.EmployeeID, len(employees))
	for _, e := range employees {
		if _, dup := byName[e.Name]; !dup {
			byName[e.Name] = e.ID
		}
	}

	var (
		entries []sqlite.WorkLogEntry
		skipped []string
		seen    = make(map[string]bool)
	)
	for _, c := range cells {
		id, ok := byName[c.Name]
		if !ok {
			if !seen[c.Name] {
				seen[c.Name] = true
				skipped = append(skipped, c.Name)
			}
			continue
		}
		entries = append(entries, sqlite.WorkLogEntry{
			EmployeeID: id, Date: c.Date, Field: sqlite.LogField(c.Field), Hours: c.Hours,
		})
	}

	if err := h.Store.ImportWorkLogs(r.Context(), entries); err != nil {
		h.fail(w, "Failed to import work logs", err)
		return
	}

	h.Logger.Info("work logs imported", zap.Int("cells", len(entries)), zap.Strings("skipped", skipped))
	writeJSON(w, http.StatusOK, UploadResultDTO{Imported: len(entries), Skipped: skipped})
}

// WorkLogTemplate returns an empty spreadsheet for the month.
func (h *Handler) WorkLogTemplate(w http.ResponseWriter, r *http.Request) {
	ym, err := payroll.ParseYearMonth(chi.URLParam(r, "yearMonth"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month (use YYYY-MM)", err)
		return
	}

	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.fail(w, "Failed to list employees", err)
		return
	}
	names := make([]string, len(employees))
	for i, e := range employees {
		names[i] = e.Name
	}

	var buf bytes.Buffer
	if err := export.WriteWorkLogTemplate(&buf, ym, names); err != nil {
		h.fail(w, "Failed to build template", err)
		return
	}
	writeFile(w, xlsxContentType, fmt.Sprintf("worklog-template-%s.xlsx", ym), buf.Bytes())
}

// =============================================================================
// POLICY HANDLERS
// =============================================================================

// ListPolicies returns all policies.
func (h *Handler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := h.Store.ListPolicies(r.Context())
	if err != nil {
		h.fail(w, "Failed to list policies", err)
		return
	}

	dtos := make([]PolicyDTO, len(policies))
	for i, p := range policies {
		dtos[i] = toPolicyDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePolicy creates a policy from its JSON definition.
func (h *Handler) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	var pj factory.PolicyJSON
	if err := json.NewDecoder(r.Body).Decode(&pj); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	policy, err := h.PolicyFactory.FromJSON(pj)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid policy", err)
		return
	}
	if err := h.Store.SavePolicy(r.Context(), policy); err != nil {
		h.fail(w, "Failed to save policy", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPolicyDTO(policy))
}

// GetPolicy returns a single policy.
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	id := payroll.PolicyID(chi.URLParam(r, "id"))

	policy, err := h.Store.GetPolicy(r.Context(), id)
	if err != nil {
		h.fail(w, "Failed to get policy", err)
		return
	}
	if policy == nil {
		writeError(w, http.StatusNotFound, "Policy not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toPolicyDTO(*policy))
}

// DeletePolicy removes a policy; employees on it fall back to no policy.
func (h *Handler) DeletePolicy(w http.ResponseWriter, r *http.Request) {
	id := payroll.PolicyID(chi.URLParam(r, "id"))
	if err := h.Store.DeletePolicy(r.Context(), id); err != nil {
		h.fail(w, "Failed to delete policy", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// ListPresets returns the built-in flag combinations.
func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	presets := factory.Presets()
	dtos := make([]PresetDTO, len(presets))
	for i, p := range presets {
		cfg := factory.ToPolicyJSON(p.Flags)
		cfg.Name = p.Label
		cfg.Preset = p.Key
		dtos[i] = PresetDTO{Key: p.Key, Label: p.Label, Config: cfg}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

type monthReport struct {
	month       payroll.YearMonth
	workingDays int
	holidays    []string
	rows        []payroll.PaymentResult
}

func (h *Handler) computeReport(ctx context.Context, yearMonth string) (monthReport, error) {
	ym, err := payroll.ParseYearMonth(yearMonth)
	if err != nil {
		return monthReport{}, err
	}
	in, err := h.Reporter.Load(ctx, ym)
	if err != nil {
		return monthReport{}, err
	}
	rows, err := h.Reporter.Assembler.Assemble(ctx, in)
	if err != nil {
		return monthReport{}, err
	}

	effective := h.Calendar.EffectiveHolidays(ym, in.CustomHolidays)
	if effective == nil {
		effective = []string{}
	}
	return monthReport{
		month:       ym,
		workingDays: h.Calendar.CountWorkingDays(ym, in.CustomHolidays),
		holidays:    effective,
		rows:        rows,
	}, nil
}

// GetReport computes the month's report.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.computeReport(r.Context(), chi.URLParam(r, "yearMonth"))
	if err != nil {
		h.fail(w, "Failed to compute report", err)
		return
	}
	writeJSON(w, http.StatusOK, ReportDTO{
		YearMonth:   rep.month.String(),
		WorkingDays: rep.workingDays,
		Holidays:    rep.holidays,
		Rows:        toPaymentResultDTOs(rep.rows),
	})
}

// ExportReportXLSX returns the report as a spreadsheet.
func (h *Handler) ExportReportXLSX(w http.ResponseWriter, r *http.Request) {
	rep, err := h.computeReport(r.Context(), chi.URLParam(r, "yearMonth"))
	if err != nil {
		h.fail(w, "Failed to compute report", err)
		return
	}
	data, err := export.ReportBytes(rep.month, rep.rows)
	if err != nil {
		h.fail(w, "Failed to build spreadsheet", err)
		return
	}
	writeFile(w, xlsxContentType, fmt.Sprintf("overtime-report-%s.xlsx", rep.month), data)
}

// ExportReportPDF returns the report as a PDF.
func (h *Handler) ExportReportPDF(w http.ResponseWriter, r *http.Request) {
	rep, err := h.computeReport(r.Context(), chi.URLParam(r, "yearMonth"))
	if err != nil {
		h.fail(w, "Failed to compute report", err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteReportPDF(&buf, rep.month, rep.rows); err != nil {
		h.fail(w, "Failed to build PDF", err)
		return
	}
	writeFile(w, "application/pdf", fmt.Sprintf("overtime-report-%s.pdf", rep.month), buf.Bytes())
}

// =============================================================================
// SNAPSHOT HANDLERS
// =============================================================================

// SaveSnapshot stores the current report for the month, replacing any
// earlier snapshot.
func (h *Handler) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.takeSnapshot(r.Context(), chi.URLParam(r, "yearMonth"))
	if err != nil {
		h.fail(w, "Failed to save snapshot", err)
		return
	}
	writeJSON(w, http.StatusCreated, toSnapshotDTO(*snap))
}

func (h *Handler) takeSnapshot(ctx context.Context, yearMonth string) (*payroll.Snapshot, error) {
	rep, err := h.computeReport(ctx, yearMonth)
	if err != nil {
		return nil, err
	}
	snap := payroll.Snapshot{
		Month:     rep.month,
		Rows:      rep.rows,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.Store.SaveSnapshot(ctx, snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// GetSnapshot returns the stored report for the month.
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.loadSnapshot(r.Context(), chi.URLParam(r, "yearMonth"))
	if err != nil {
		h.fail(w, "Failed to get snapshot", err)
		return
	}
	writeJSON(w, http.StatusOK, toSnapshotDTO(*snap))
}

// VerifySnapshot recomputes the month and lists rows that differ from the
// stored snapshot.
func (h *Handler) VerifySnapshot(w http.ResponseWriter, r *http.Request) {
	yearMonth := chi.URLParam(r, "yearMonth")
	snap, err := h.loadSnapshot(r.Context(), yearMonth)
	if err != nil {
		h.fail(w, "Failed to get snapshot", err)
		return
	}
	rep, err := h.computeReport(r.Context(), yearMonth)
	if err != nil {
		h.fail(w, "Failed to compute report", err)
		return
	}

	diffs := payroll.DiffReports(snap.Rows, rep.rows)
	dtos := make([]RowDiffDTO, len(diffs))
	for i, d := range diffs {
		dtos[i] = RowDiffDTO{EmployeeID: string(d.EmployeeID), Name: d.Name, Reason: d.Reason, Before: d.Before, After: d.After}
	}
	if len(diffs) > 0 {
		h.Logger.Warn("report differs from snapshot",
			zap.String("year_month", rep.month.String()), zap.Int("rows", len(diffs)))
	}
	writeJSON(w, http.StatusOK, VerifyDTO{
		YearMonth:  rep.month.String(),
		SnapshotAt: snap.CreatedAt,
		Matches:    len(diffs) == 0,
		Diffs:      dtos,
	})
}

func (h *Handler) loadSnapshot(ctx context.Context, yearMonth string) (*payroll.Snapshot, error) {
	ym, err := payroll.ParseYearMonth(yearMonth)
	if err != nil {
		return nil, err
	}
	snap, err := h.Store.GetSnapshot(ctx, ym)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: %s", payroll.ErrSnapshotNotFound, ym)
	}
	return snap, nil
}

func toSnapshotDTO(s payroll.Snapshot) SnapshotDTO {
	return SnapshotDTO{YearMonth: s.Month.String(), CreatedAt: s.CreatedAt, Rows: toPaymentResultDTOs(s.Rows)}
}

// =============================================================================
// HELPERS
// =============================================================================

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeFile(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// fail maps a domain error to its HTTP status. Server errors are logged.
func (h *Handler) fail(w http.ResponseWriter, message string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error(message, zap.Error(err))
	}
	writeError(w, status, message, err)
}

func statusFor(err error) int {
	switch {
	case payroll.IsClientError(err), errors.Is(err, payroll.ErrUnknownPolicy):
		return http.StatusBadRequest
	case payroll.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, payroll.ErrDuplicateHoliday):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// readUpload returns the multipart "file" field. On failure it has already
// written the error response.
func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "File not found in upload", err)
		return nil, false
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(file); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read upload", err)
		return nil, false
	}
	return buf.Bytes(), true
}
