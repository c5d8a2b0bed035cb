/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the payroll domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Decimal amounts are JSON strings ("19002.00" in reports). Requests accept
  either strings or numbers.

VALIDATION:
  Request types carry go-playground/validator tags; decodeRequest applies
  them after JSON decoding. Rules that need domain knowledge (negative
  money, unknown policy references) stay in the handlers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/policy.go: PolicyJSON type
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// SETTINGS
// =============================================================================

type SettingsDTO struct {
	DayRate     decimal.Decimal `json:"dayRate"`
	EveningRate decimal.Decimal `json:"eveningRate"`
	MinimumWage decimal.Decimal `json:"minimumWage"`
}

// UpdateSettingsRequest updates any subset of the rates.
type UpdateSettingsRequest struct {
	DayRate     *decimal.Decimal `json:"dayRate"`
	EveningRate *decimal.Decimal `json:"eveningRate"`
	MinimumWage *decimal.Decimal `json:"minimumWage"`
}

// =============================================================================
// EMPLOYEES
// =============================================================================

type EmployeeDTO struct {
	ID                string          `json:"id"`
	ExternalID        string          `json:"external_id"`
	Name              string          `json:"name"`
	Branch            string          `json:"branch"`
	PolicyID          *string         `json:"policy_id"`
	FixedSalary       decimal.Decimal `json:"fixed_salary"`
	FixedOvertimePay  decimal.Decimal `json:"fixed_overtime_pay"`
	FixedDayHours     decimal.Decimal `json:"fixed_day_hours"`
	FixedEveningHours decimal.Decimal `json:"fixed_evening_hours"`
}

// EmployeeRequest creates or replaces an employee.
type EmployeeRequest struct {
	ExternalID        string          `json:"external_id" validate:"max=64"`
	Name              string          `json:"name" validate:"required,max=200"`
	Branch            string          `json:"branch" validate:"max=100"`
	PolicyID          *string         `json:"policy_id" validate:"omitempty,min=1"`
	FixedSalary       decimal.Decimal `json:"fixed_salary"`
	FixedOvertimePay  decimal.Decimal `json:"fixed_overtime_pay"`
	FixedDayHours     decimal.Decimal `json:"fixed_day_hours"`
	FixedEveningHours decimal.Decimal `json:"fixed_evening_hours"`
}

type BulkEmployeesRequest struct {
	Employees []EmployeeRequest `json:"employees" validate:"required,min=1,dive"`
}

func toEmployeeDTO(e payroll.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:                string(e.ID),
		ExternalID:        e.ExternalID,
		Name:              e.Name,
		Branch:            e.Branch,
		FixedSalary:       e.FixedSalary,
		FixedOvertimePay:  e.FixedOvertimePay,
		FixedDayHours:     e.FixedDayHours,
		FixedEveningHours: e.FixedEveningHours,
	}
	if e.PolicyID != nil {
		pid := string(*e.PolicyID)
		dto.PolicyID = &pid
	}
	return dto
}

// =============================================================================
// HOLIDAYS
// =============================================================================

type HolidayRequest struct {
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Description string `json:"description" validate:"max=200"`
}

type OfficialHolidaysDTO struct {
	Year     int               `json:"year"`
	Holidays []payroll.Holiday `json:"holidays"`
}

// =============================================================================
// WORK LOGS
// =============================================================================

type WorkLogDTO struct {
	EmployeeID   string `json:"employee_id"`
	Date         string `json:"date"`
	DayHours     int    `json:"day_hours"`
	EveningHours int    `json:"evening_hours"`
	SundayReason string `json:"sunday_reason,omitempty"`
}

// WorkLogRequest sets one hour field for an employee and date.
type WorkLogRequest struct {
	EmployeeID string  `json:"employee_id" validate:"required"`
	Date       string  `json:"date" validate:"required,datetime=2006-01-02"`
	Field      string  `json:"field" validate:"required,oneof=day evening"`
	Hours      *int    `json:"hours" validate:"required,min=0,max=24"`
	Reason     *string `json:"reason" validate:"omitempty,max=500"`
}

type UploadResultDTO struct {
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped,omitempty"`
}

// =============================================================================
// POLICIES
// =============================================================================

type PolicyDTO struct {
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	Flags  []string           `json:"flags"`
	Config factory.PolicyJSON `json:"config"`
}

type PresetDTO struct {
	Key    string             `json:"key"`
	Label  string             `json:"label"`
	Config factory.PolicyJSON `json:"config"`
}

func toPolicyDTO(p payroll.Policy) PolicyDTO {
	return PolicyDTO{
		ID:     string(p.ID),
		Name:   p.Name,
		Flags:  p.Flags(),
		Config: factory.ToPolicyJSON(p),
	}
}

// =============================================================================
// REPORTS
// =============================================================================

// PaymentResultDTO is one report row. Money is rendered with two decimals.
type PaymentResultDTO struct {
	EmployeeID          string   `json:"employee_id"`
	Name                string   `json:"name"`
	ExternalID          string   `json:"external_id"`
	Branch              string   `json:"branch"`
	PolicyName          string   `json:"policy_name"`
	FixedSalary         string   `json:"fixed_salary"`
	FixedOvertimePay    string   `json:"fixed_overtime_pay"`
	FixedDayHours       string   `json:"fixed_day_hours"`
	FixedEveningHours   string   `json:"fixed_evening_hours"`
	WeekdayDayHours     int      `json:"weekday_day_hours"`
	WeekdayEveningHours int      `json:"weekday_evening_hours"`
	WeekendDayHours     int      `json:"weekend_day_hours"`
	WeekendEveningHours int      `json:"weekend_evening_hours"`
	TotalHours          int      `json:"total_hours"`
	OvertimeHours       string   `json:"overtime_hours"`
	OvertimePayment     string   `json:"overtime_payment"`
	TotalPayment        string   `json:"total_payment"`
	MinimumWageApplied  string   `json:"minimum_wage_applied"`
	CalculationDetails  string   `json:"calculation_details"`
	Details             []string `json:"details"`
	Error               string   `json:"error,omitempty"`
}

type ReportDTO struct {
	YearMonth   string             `json:"year_month"`
	WorkingDays int                `json:"working_days"`
	Holidays    []string           `json:"holidays"`
	Rows        []PaymentResultDTO `json:"rows"`
}

func toPaymentResultDTO(r payroll.PaymentResult) PaymentResultDTO {
	return PaymentResultDTO{
		EmployeeID:          string(r.EmployeeID),
		Name:                r.Name,
		ExternalID:          r.ExternalID,
		Branch:              r.Branch,
		PolicyName:          r.PolicyName,
		FixedSalary:         r.FixedSalary.StringFixed(2),
		FixedOvertimePay:    r.FixedOvertimePay.StringFixed(2),
		FixedDayHours:       r.FixedDayHours.String(),
		FixedEveningHours:   r.FixedEveningHours.String(),
		WeekdayDayHours:     r.Hours.WeekdayDay,
		WeekdayEveningHours: r.Hours.WeekdayEvening,
		WeekendDayHours:     r.Hours.WeekendDay,
		WeekendEveningHours: r.Hours.WeekendEvening,
		TotalHours:          r.TotalHours,
		OvertimeHours:       r.OvertimeHours.String(),
		OvertimePayment:     r.OvertimePay.StringFixed(2),
		TotalPayment:        r.TotalPayment.StringFixed(2),
		MinimumWageApplied:  r.MinimumWageApplied.StringFixed(2),
		CalculationDetails:  r.CalculationDetails(),
		Details:             r.Details,
		Error:               r.Error,
	}
}

func toPaymentResultDTOs(rows []payroll.PaymentResult) []PaymentResultDTO {
	out := make([]PaymentResultDTO, len(rows))
	for i, r := range rows {
		out[i] = toPaymentResultDTO(r)
	}
	return out
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

type SnapshotDTO struct {
	YearMonth string             `json:"year_month"`
	CreatedAt string             `json:"created_at"`
	Rows      []PaymentResultDTO `json:"rows"`
}

type RowDiffDTO struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Reason     string `json:"reason"`
	Before     string `json:"before,omitempty"`
	After      string `json:"after,omitempty"`
}

type VerifyDTO struct {
	YearMonth  string       `json:"year_month"`
	SnapshotAt string       `json:"snapshot_at"`
	Matches    bool         `json:"matches"`
	Diffs      []RowDiffDTO `json:"diffs"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	YearMonth   string `json:"year_month"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is returned for all errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// DECODING
// =============================================================================

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeRequest decodes a JSON body into dst and runs struct validation.
func decodeRequest(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		return describeValidation(err)
	}
	return nil
}

// describeValidation flattens validator errors into one readable line.
func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
