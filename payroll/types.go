/*
Package payroll provides the monthly compensation engine.

PURPOSE:
  Turns raw daily time entries, a holiday calendar and a per-employee
  payment policy into an itemized, auditable payment result. Everything in
  this package is a pure function of its inputs: the persistence layer
  supplies records, the engine computes, the API and export layers consume.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee: read-only identity plus fixed per-employee amounts
  - WorkLog: one day's logged day/evening hours
  - Settings: global pay rates shared by every employee in a computation
  - HourBuckets: {weekday, weekend-or-holiday} x {day, evening}
  - PaymentResult: immutable output row

PRECISION:
  Money is decimal.Decimal. Logged hours are whole numbers; the fixed
  quota hours on an Employee are decimals because quotas may be fractional.

SEE ALSO:
  - calendar.go: Day classification and working-day counts
  - aggregate.go: Hour bucketing
  - calculator.go: Policy-driven payment calculation
  - report.go: Month-wide assembly
*/
package payroll

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type PolicyID string

// =============================================================================
// EMPLOYEE
// =============================================================================

// Employee is owned by the persistence layer. The engine never mutates it.
type Employee struct {
	ID         EmployeeID
	ExternalID string // company employee code
	Name       string
	Branch     string
	PolicyID   *PolicyID // nil = no policy assigned

	FixedSalary       decimal.Decimal
	FixedOvertimePay  decimal.Decimal
	FixedDayHours     decimal.Decimal
	FixedEveningHours decimal.Decimal
}

// =============================================================================
// WORK LOG
// =============================================================================

// WorkLog is a single employee's hours for a single date.
// Day and evening hours are independent totals for that date.
type WorkLog struct {
	EmployeeID   EmployeeID
	Date         string // YYYY-MM-DD
	DayHours     int
	EveningHours int
	SundayReason string
}

// LogsByDate indexes one employee's logs by ISO date.
type LogsByDate map[string]WorkLog

// =============================================================================
// SETTINGS
// =============================================================================

// Setting keys as stored by the persistence layer.
const (
	SettingDayRate     = "dayRate"
	SettingEveningRate = "eveningRate"
	SettingMinimumWage = "minimumWage"
)

// Settings are the global rates used for one computation.
type Settings struct {
	DayRate     decimal.Decimal
	EveningRate decimal.Decimal
	MinimumWage decimal.Decimal
}

// SettingsFromMap parses raw key/value settings. Missing or unparseable
// values become zero and are reported in the returned key list so the
// caller can log them; they never fail the computation.
func SettingsFromMap(raw map[string]string) (Settings, []string) {
	var missing []string
	get := func(key string) decimal.Decimal {
		v, ok := raw[key]
		if !ok || strings.TrimSpace(v) == "" {
			missing = append(missing, key)
			return decimal.Zero
		}
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			missing = append(missing, key)
			return decimal.Zero
		}
		return d
	}

	s := Settings{
		DayRate:     get(SettingDayRate),
		EveningRate: get(SettingEveningRate),
		MinimumWage: get(SettingMinimumWage),
	}
	return s, missing
}

// ToMap renders settings in their stored key/value form.
func (s Settings) ToMap() map[string]string {
	return map[string]string{
		SettingDayRate:     s.DayRate.String(),
		SettingEveningRate: s.EveningRate.String(),
		SettingMinimumWage: s.MinimumWage.String(),
	}
}

// =============================================================================
// HOUR BUCKETS
// =============================================================================

// HourBuckets is the aggregated month for one employee.
type HourBuckets struct {
	WeekdayDay     int
	WeekdayEvening int
	WeekendDay     int
	WeekendEvening int
}

func (b HourBuckets) Total() int {
	return b.WeekdayDay + b.WeekdayEvening + b.WeekendDay + b.WeekendEvening
}

// Weekend is the weekend-or-holiday total (day + evening).
func (b HourBuckets) Weekend() int { return b.WeekendDay + b.WeekendEvening }

// =============================================================================
// PAYMENT RESULT
// =============================================================================

// PaymentResult is one employee's computed month. Treat it as immutable.
type PaymentResult struct {
	EmployeeID EmployeeID
	Name       string
	ExternalID string
	Branch     string
	PolicyName string

	FixedSalary       decimal.Decimal
	FixedOvertimePay  decimal.Decimal
	FixedDayHours     decimal.Decimal
	FixedEveningHours decimal.Decimal

	Hours         HourBuckets
	TotalHours    int
	OvertimeHours decimal.Decimal

	OvertimePay        decimal.Decimal
	TotalPayment       decimal.Decimal
	MinimumWageApplied decimal.Decimal

	Details []string

	// Error is set on degraded rows produced when this employee's
	// computation failed; the numeric fields are then zero.
	Error string
}

// CalculationDetails joins the audit trail into its human-readable form.
func (r PaymentResult) CalculationDetails() string {
	return strings.Join(r.Details, "; ")
}

// Degraded reports whether the row is a failure placeholder.
func (r PaymentResult) Degraded() bool { return r.Error != "" }
