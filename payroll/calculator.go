/*
calculator.go - Policy-driven payment calculation

PURPOSE:
  Combines an employee's aggregated hours, policy flags, fixed amounts and
  the global rates into a PaymentResult with an ordered audit trail.

STEPS (each applied only when its flag is on):
 1. minimum wage        base     += minimumWage
 2. fixed salary        base     += fixedSalary
 3. fixed overtime pay  overtime += fixedOvertimePay   (no hours)
 4. fixed hours quota   overtime += fixedDay*dayRate + fixedEvening*eveningRate
 5. on-call             overtime += weekend hours * eveningRate
 6. overtime calc       overtime += billable weekday hours at their rates
    (+ weekend hours at eveningRate when on-call is off)
 7. total = base + overtime

QUOTA DEDUCTION (step 6, only with minimum wage):
  expected = workingDays * 4. Up to `expected` hours are removed from the
  weekday DAY bucket only. Evening hours are never reduced, even when the
  day bucket could not absorb the whole quota.

DETERMINISM:
  The trail is built from fixed formats with two-decimal money, so equal
  inputs produce byte-identical output. Reports are diffed against earlier
  exports on that basis.
*/
package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ExpectedHoursPerWorkingDay is the daily quota covered by the minimum wage.
const ExpectedHoursPerWorkingDay = 4

// WorkingDaysFunc counts the working days of a month given the custom holidays.
type WorkingDaysFunc func(ym YearMonth, custom HolidaySet) int

// CalcInput is everything one employee's computation depends on.
type CalcInput struct {
	Employee       Employee
	Month          YearMonth
	Hours          HourBuckets
	Policy         Policy
	Settings       Settings
	CustomHolidays HolidaySet
}

// Calculator computes payments. It holds no mutable state.
type Calculator struct {
	WorkingDays WorkingDaysFunc
}

// NewCalculator binds the working-day count to a calendar.
func NewCalculator(cal *Calendar) *Calculator {
	return &Calculator{WorkingDays: cal.CountWorkingDays}
}

// Compute runs steps 1-7 for one employee.
func (c *Calculator) Compute(in CalcInput) (PaymentResult, error) {
	if in.Month.Month < time.January || in.Month.Month > time.December {
		return PaymentResult{}, &ValidationError{
			Code: "invalid_month_format", Field: "year_month", Value: in.Month.String(), Err: ErrInvalidMonthFormat,
		}
	}

	var (
		p   = in.Policy
		s   = in.Settings
		emp = in.Employee
		h   = in.Hours

		basePay       = decimal.Zero
		overtimePay   = decimal.Zero
		overtimeHours = decimal.Zero
		trail         = newTrail()
	)

	if p.IncludeMinimumWage {
		basePay = basePay.Add(s.MinimumWage)
		trail.add("minimum wage %s", money(s.MinimumWage))
	}

	if p.IncludeFixedSalary {
		basePay = basePay.Add(emp.FixedSalary)
		trail.add("fixed salary %s", money(emp.FixedSalary))
	}

	if p.IncludeFixedOvertimePay {
		overtimePay = overtimePay.Add(emp.FixedOvertimePay)
		trail.add("fixed overtime pay %s", money(emp.FixedOvertimePay))
	}

	if p.IncludeFixedHoursQuota {
		quotaPay := emp.FixedDayHours.Mul(s.DayRate).Add(emp.FixedEveningHours.Mul(s.EveningRate))
		overtimePay = overtimePay.Add(quotaPay)
		overtimeHours = overtimeHours.Add(emp.FixedDayHours).Add(emp.FixedEveningHours)
		trail.add("fixed hours quota %sh day x %s + %sh evening x %s = %s",
			emp.FixedDayHours, money(s.DayRate), emp.FixedEveningHours, money(s.EveningRate), money(quotaPay))
	}

	weekend := decimal.NewFromInt(int64(h.Weekend()))

	if p.IncludeOnCall {
		onCallPay := weekend.Mul(s.EveningRate)
		overtimePay = overtimePay.Add(onCallPay)
		overtimeHours = overtimeHours.Add(weekend)
		trail.add("on-call %sh weekend/holiday x %s = %s", weekend, money(s.EveningRate), money(onCallPay))
	}

	if p.IncludeOvertimeCalc {
		billableDay := h.WeekdayDay
		billableEvening := h.WeekdayEvening

		if p.IncludeMinimumWage {
			workingDays := 0
			if c.WorkingDays != nil {
				workingDays = c.WorkingDays(in.Month, in.CustomHolidays)
			}
			expected := workingDays * ExpectedHoursPerWorkingDay
			deducted := min(billableDay, expected)
			billableDay -= deducted
			trail.add("expected %dh (%d working days x %d), deducted %d hours from weekday day hours",
				expected, workingDays, ExpectedHoursPerWorkingDay, deducted)
		}

		dayH := decimal.NewFromInt(int64(billableDay))
		eveH := decimal.NewFromInt(int64(billableEvening))
		calcPay := dayH.Mul(s.DayRate).Add(eveH.Mul(s.EveningRate))
		trail.add("overtime %sh day x %s + %sh evening x %s", dayH, money(s.DayRate), eveH, money(s.EveningRate))

		if !p.IncludeOnCall {
			weekendPay := weekend.Mul(s.EveningRate)
			calcPay = calcPay.Add(weekendPay)
			overtimeHours = overtimeHours.Add(weekend)
			trail.add("weekend/holiday %sh x %s = %s", weekend, money(s.EveningRate), money(weekendPay))
		}

		overtimePay = overtimePay.Add(calcPay)
		overtimeHours = overtimeHours.Add(dayH).Add(eveH)
		trail.add("overtime calculation total %s", money(calcPay))
	}

	total := basePay.Add(overtimePay)
	if p.IsEmpty() {
		trail.add("no payment components enabled")
	}
	trail.add("total %s = base %s + overtime %s", money(total), money(basePay), money(overtimePay))

	minWageApplied := decimal.Zero
	if p.IncludeMinimumWage {
		minWageApplied = s.MinimumWage
	}

	return PaymentResult{
		EmployeeID:         emp.ID,
		Name:               emp.Name,
		ExternalID:         emp.ExternalID,
		Branch:             emp.Branch,
		PolicyName:         p.Name,
		FixedSalary:        emp.FixedSalary,
		FixedOvertimePay:   emp.FixedOvertimePay,
		FixedDayHours:      emp.FixedDayHours,
		FixedEveningHours:  emp.FixedEveningHours,
		Hours:              h,
		TotalHours:         h.Total(),
		OvertimeHours:      overtimeHours,
		OvertimePay:        overtimePay,
		TotalPayment:       total,
		MinimumWageApplied: minWageApplied,
		Details:            trail.lines,
	}, nil
}

// =============================================================================
// HELPERS
// =============================================================================

type trail struct{ lines []string }

func newTrail() *trail { return &trail{lines: []string{}} }

func (t *trail) add(format string, args ...any) {
	t.lines = append(t.lines, fmt.Sprintf(format, args...))
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }
