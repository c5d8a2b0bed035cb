/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Provides pre-built scenarios that populate the database with a small,
  known month so the report can be checked by hand. Each scenario resets
  the database, restores default rates, creates its policy, employee and
  work logs.

AVAILABLE SCENARIOS (default rates: day 100, evening 120, minimum wage 17002):
  minimum-wage-overtime:  2025-02, 20 working days, 100 weekday day hours
                          -> 20 extra hours, total 19002.00
  fixed-salary:           2025-02, salary 20000 with hours logged
                          -> total 20000.00, no overtime
  fixed-salary-on-call:   2025-02, salary 15000, weekend 8 day + 4 evening
                          -> on-call 1440.00, total 16440.00
  official-holiday:       2025-04, 6 day hours on Wed 2025-04-23
                          -> weekend/holiday bucket, 720.00

USAGE VIA API:
  POST /api/scenarios/load
  {"scenario_id": "minimum-wage-overtime"}

NOTE:
  Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Report endpoints to inspect the result
  - factory/presets.go: Policy presets used here
*/
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
	"go.uber.org/zap"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "minimum-wage-overtime",
		Name:        "Minimum Wage + Overtime",
		Description: "Expected hours are deducted from weekday day hours; the rest is overtime",
		YearMonth:   "2025-02",
	},
	{
		ID:          "fixed-salary",
		Name:        "Fixed Salary",
		Description: "Fixed salary only; logged hours do not change the payment",
		YearMonth:   "2025-02",
	},
	{
		ID:          "fixed-salary-on-call",
		Name:        "Fixed Salary + On-Call",
		Description: "Weekend hours are paid at the evening rate on top of the salary",
		YearMonth:   "2025-02",
	},
	{
		ID:          "official-holiday",
		Name:        "Official Holiday on a Weekday",
		Description: "Hours on 2025-04-23 (Wednesday) fall in the weekend/holiday bucket",
		YearMonth:   "2025-04",
	},
}

var scenarioLoaders = map[string]func(h *Handler, ctx context.Context) error{
	"minimum-wage-overtime": (*Handler).loadMinimumWageOvertimeScenario,
	"fixed-salary":          (*Handler).loadFixedSalaryScenario,
	"fixed-salary-on-call":  (*Handler).loadFixedSalaryOnCallScenario,
	"official-holiday":      (*Handler).loadOfficialHolidayScenario,
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario resets the database and loads a scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	load, ok := scenarioLoaders[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		h.fail(w, "Failed to reset database", err)
		return
	}
	if err := load(h, ctx); err != nil {
		h.fail(w, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	h.Logger.Info("scenario loaded", zap.String("scenario", req.ScenarioID))
	writeJSON(w, http.StatusOK, map[string]any{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		h.fail(w, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]any{"status": "reset"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadMinimumWageOvertimeScenario(ctx context.Context) error {
	emp, err := h.scenarioEmployee(ctx, "mw-overtime", "minimum_wage_overtime", payroll.Employee{
		ID: "emp-a", ExternalID: "A-001", Name: "Deniz Arslan", Branch: "Production",
	})
	if err != nil {
		return err
	}

	// 5 day hours on each of February's 20 weekdays.
	ym := payroll.MustParseYearMonth("2025-02")
	for day := 1; day <= payroll.DaysInMonth(ym); day++ {
		d := ym.Day(day)
		if h.Calendar.ClassifyDay(d, nil) != payroll.Weekday {
			continue
		}
		if err := h.logHours(ctx, emp.ID, payroll.FormatDate(d), sqlite.FieldDay, 5); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadFixedSalaryScenario(ctx context.Context) error {
	emp, err := h.scenarioEmployee(ctx, "fixed-salary", "fixed_salary", payroll.Employee{
		ID: "emp-b", ExternalID: "B-001", Name: "Ece Kaya", Branch: "Office",
		FixedSalary: decimal.NewFromInt(20000),
	})
	if err != nil {
		return err
	}

	for _, l := range []struct {
		date  string
		field sqlite.LogField
		hours int
	}{
		{"2025-02-03", sqlite.FieldDay, 9},
		{"2025-02-03", sqlite.FieldEvening, 3},
		{"2025-02-08", sqlite.FieldDay, 6},
	} {
		if err := h.logHours(ctx, emp.ID, l.date, l.field, l.hours); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadFixedSalaryOnCallScenario(ctx context.Context) error {
	emp, err := h.scenarioEmployee(ctx, "fixed-on-call", "fixed_salary_on_call", payroll.Employee{
		ID: "emp-c", ExternalID: "C-001", Name: "Mert Demir", Branch: "Support",
		FixedSalary: decimal.NewFromInt(15000),
	})
	if err != nil {
		return err
	}

	// Saturday 8 day hours, Sunday 4 evening hours, plus a weekday that on-call ignores.
	if err := h.logHours(ctx, emp.ID, "2025-02-01", sqlite.FieldDay, 8); err != nil {
		return err
	}
	if err := h.logHours(ctx, emp.ID, "2025-02-02", sqlite.FieldEvening, 4); err != nil {
		return err
	}
	return h.logHours(ctx, emp.ID, "2025-02-04", sqlite.FieldDay, 8)
}

func (h *Handler) loadOfficialHolidayScenario(ctx context.Context) error {
	emp, err := h.scenarioEmployee(ctx, "overtime-only", "overtime_only", payroll.Employee{
		ID: "emp-d", ExternalID: "D-001", Name: "Selin Aydın", Branch: "Production",
	})
	if err != nil {
		return err
	}
	return h.logHours(ctx, emp.ID, "2025-04-23", sqlite.FieldDay, 6)
}

// scenarioEmployee creates a preset policy and assigns it to emp.
func (h *Handler) scenarioEmployee(ctx context.Context, policyID, preset string, emp payroll.Employee) (payroll.Employee, error) {
	policy, ok := factory.PresetPolicy(payroll.PolicyID(policyID), preset)
	if !ok {
		return payroll.Employee{}, fmt.Errorf("%w: %s", factory.ErrUnknownPreset, preset)
	}
	if err := h.Store.SavePolicy(ctx, policy); err != nil {
		return payroll.Employee{}, fmt.Errorf("save policy: %w", err)
	}

	emp.PolicyID = &policy.ID
	if err := h.Store.SaveEmployee(ctx, emp); err != nil {
		return payroll.Employee{}, fmt.Errorf("save employee: %w", err)
	}
	return emp, nil
}

func (h *Handler) logHours(ctx context.Context, id payroll.EmployeeID, date string, field sqlite.LogField, hours int) error {
	if err := h.Store.UpsertWorkLogField(ctx, id, date, field, hours, nil); err != nil {
		return fmt.Errorf("log %s %s: %w", date, field, err)
	}
	return nil
}
