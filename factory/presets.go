package factory

import "github.com/warp/payroll-engine/payroll"

// Preset is a display label attached to a flag combination. Presets carry
// no behaviour of their own; a policy created from one is an ordinary
// flag set afterwards.
type Preset struct {
	Key   string
	Label string
	Flags payroll.Policy
}

// Presets returns the built-in combinations in display order.
func Presets() []Preset {
	return []Preset{
		{
			Key:   "minimum_wage_overtime",
			Label: "Minimum wage + overtime",
			Flags: payroll.Policy{IncludeMinimumWage: true, IncludeOvertimeCalc: true},
		},
		{
			Key:   "fixed_salary",
			Label: "Fixed salary",
			Flags: payroll.Policy{IncludeFixedSalary: true},
		},
		{
			Key:   "fixed_salary_on_call",
			Label: "Fixed salary + on-call",
			Flags: payroll.Policy{IncludeFixedSalary: true, IncludeOnCall: true},
		},
		{
			Key:   "fixed_salary_fixed_overtime",
			Label: "Fixed salary + fixed overtime",
			Flags: payroll.Policy{IncludeFixedSalary: true, IncludeFixedOvertimePay: true},
		},
		{
			Key:   "fixed_salary_hours_quota",
			Label: "Fixed salary + fixed hours quota",
			Flags: payroll.Policy{IncludeFixedSalary: true, IncludeFixedHoursQuota: true},
		},
		{
			Key:   "overtime_only",
			Label: "Overtime only",
			Flags: payroll.Policy{IncludeOvertimeCalc: true},
		},
	}
}

// PresetPolicy builds a policy from a preset key. ok is false for unknown keys.
func PresetPolicy(id payroll.PolicyID, key string) (payroll.Policy, bool) {
	for _, p := range Presets() {
		if p.Key == key {
			policy := p.Flags
			policy.ID = id
			policy.Name = p.Label
			return policy, true
		}
	}
	return payroll.Policy{}, false
}
