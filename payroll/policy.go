/*
policy.go - Payment policy definition

PURPOSE:
  A Policy is a named set of six independent capabilities. The flags are
  the only thing the calculator branches on; a policy name is a label for
  display. Administrators may create any combination, so there is no
  per-policy code path anywhere in the engine.

CAPABILITIES:
  IncludeMinimumWage       base pay += minimum wage
  IncludeFixedSalary       base pay += employee fixed salary
  IncludeFixedOvertimePay  overtime pay += employee flat overtime bonus
  IncludeFixedHoursQuota   overtime pay += fixed day/evening hours at rates
  IncludeOnCall            overtime pay += weekend/holiday hours at evening rate
  IncludeOvertimeCalc      overtime pay += weekday hours beyond quota

WEEKEND HOURS:
  Weekend and holiday hours are paid at the evening rate by exactly one
  component: OnCall when it is enabled, otherwise the OvertimeCalc branch.
  Without either flag they are not paid at all.

SEE ALSO:
  - calculator.go: Applies the flags
  - factory/policy.go: JSON form and presets
*/
package payroll

import "strings"

// Policy describes which payment components apply to an employee.
// The zero value is the legal all-false configuration.
type Policy struct {
	ID   PolicyID
	Name string

	IncludeMinimumWage      bool
	IncludeFixedSalary      bool
	IncludeFixedOvertimePay bool
	IncludeFixedHoursQuota  bool
	IncludeOvertimeCalc     bool
	IncludeOnCall           bool
}

// Flags lists the enabled capabilities in calculation order.
func (p Policy) Flags() []string {
	var out []string
	add := func(on bool, name string) {
		if on {
			out = append(out, name)
		}
	}
	add(p.IncludeMinimumWage, "minimum_wage")
	add(p.IncludeFixedSalary, "fixed_salary")
	add(p.IncludeFixedOvertimePay, "fixed_overtime_pay")
	add(p.IncludeFixedHoursQuota, "fixed_hours_quota")
	add(p.IncludeOnCall, "on_call")
	add(p.IncludeOvertimeCalc, "overtime_calc")
	return out
}

// IsEmpty reports whether no capability is enabled.
func (p Policy) IsEmpty() bool { return len(p.Flags()) == 0 }

// SameFlags reports whether two policies enable the same capabilities.
func (p Policy) SameFlags(other Policy) bool {
	return strings.Join(p.Flags(), ",") == strings.Join(other.Flags(), ",")
}
