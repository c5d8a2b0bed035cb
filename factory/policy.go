/*
Package factory provides JSON to Go policy conversion.

PURPOSE:
  Converts JSON policy definitions into payroll.Policy values and back.
  Administrators define policies as flag combinations through the API; the
  JSON form is also what the store persists in policies.config_json.

JSON SCHEMA:
  {
    "id": "min-wage-overtime",
    "name": "Minimum wage + overtime",
    "include_minimum_wage": true,
    "include_fixed_salary": false,
    "include_fixed_overtime_pay": false,
    "include_fixed_hours_quota": false,
    "include_overtime_calc": true,
    "include_on_call": false
  }

  Alternatively a preset can seed the flags:
  {"id": "p1", "name": "Office staff", "preset": "fixed_salary_on_call"}
  Explicit flags in the same document are OR-ed on top of the preset.

USAGE:
  f := factory.NewPolicyFactory()
  policy, err := f.ParsePolicy(jsonString)

  jsonStr, _ := f.ToJSON(policy)

SEE ALSO:
  - payroll/policy.go: Policy type definition
  - presets.go: Named flag combinations
*/
package factory

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// PolicyJSON is the JSON representation of a policy.
type PolicyJSON struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Preset string `json:"preset,omitempty"`

	IncludeMinimumWage      bool `json:"include_minimum_wage"`
	IncludeFixedSalary      bool `json:"include_fixed_salary"`
	IncludeFixedOvertimePay bool `json:"include_fixed_overtime_pay"`
	IncludeFixedHoursQuota  bool `json:"include_fixed_hours_quota"`
	IncludeOvertimeCalc     bool `json:"include_overtime_calc"`
	IncludeOnCall           bool `json:"include_on_call"`
}

var (
	ErrPolicyNameRequired = errors.New("policy name is required")
	ErrUnknownPreset      = errors.New("unknown policy preset")
)

// =============================================================================
// POLICY FACTORY
// =============================================================================

// PolicyFactory converts JSON policies to Go structs.
type PolicyFactory struct {
	presets map[string]Preset
}

func NewPolicyFactory() *PolicyFactory {
	f := &PolicyFactory{presets: make(map[string]Preset)}
	for _, p := range Presets() {
		f.presets[p.Key] = p
	}
	return f
}

// ParsePolicy parses a JSON string into a Policy.
func (f *PolicyFactory) ParsePolicy(jsonStr string) (payroll.Policy, error) {
	var pj PolicyJSON
	if err := json.Unmarshal([]byte(jsonStr), &pj); err != nil {
		return payroll.Policy{}, fmt.Errorf("failed to parse policy JSON: %w", err)
	}
	return f.FromJSON(pj)
}

// FromJSON converts PolicyJSON to payroll.Policy. A missing ID is generated.
func (f *PolicyFactory) FromJSON(pj PolicyJSON) (payroll.Policy, error) {
	name := strings.TrimSpace(pj.Name)

	policy := payroll.Policy{
		ID:                      payroll.PolicyID(pj.ID),
		Name:                    name,
		IncludeMinimumWage:      pj.IncludeMinimumWage,
		IncludeFixedSalary:      pj.IncludeFixedSalary,
		IncludeFixedOvertimePay: pj.IncludeFixedOvertimePay,
		IncludeFixedHoursQuota:  pj.IncludeFixedHoursQuota,
		IncludeOvertimeCalc:     pj.IncludeOvertimeCalc,
		IncludeOnCall:           pj.IncludeOnCall,
	}

	if pj.Preset != "" {
		preset, ok := f.presets[pj.Preset]
		if !ok {
			return payroll.Policy{}, fmt.Errorf("%w: %s", ErrUnknownPreset, pj.Preset)
		}
		policy = orFlags(policy, preset.Flags)
		if policy.Name == "" {
			policy.Name = preset.Label
		}
	}

	if policy.Name == "" {
		return payroll.Policy{}, ErrPolicyNameRequired
	}
	if policy.ID == "" {
		policy.ID = payroll.PolicyID(uuid.NewString())
	}
	return policy, nil
}

// ToJSON renders a policy in its stored JSON form.
func (f *PolicyFactory) ToJSON(p payroll.Policy) (string, error) {
	data, err := json.Marshal(ToPolicyJSON(p))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ToPolicyJSON is the inverse of FromJSON (without preset).
func ToPolicyJSON(p payroll.Policy) PolicyJSON {
	return PolicyJSON{
		ID:                      string(p.ID),
		Name:                    p.Name,
		IncludeMinimumWage:      p.IncludeMinimumWage,
		IncludeFixedSalary:      p.IncludeFixedSalary,
		IncludeFixedOvertimePay: p.IncludeFixedOvertimePay,
		IncludeFixedHoursQuota:  p.IncludeFixedHoursQuota,
		IncludeOvertimeCalc:     p.IncludeOvertimeCalc,
		IncludeOnCall:           p.IncludeOnCall,
	}
}

// Preset looks up a named flag combination.
func (f *PolicyFactory) Preset(key string) (Preset, bool) {
	p, ok := f.presets[key]
	return p, ok
}

func orFlags(p, flags payroll.Policy) payroll.Policy {
	p.IncludeMinimumWage = p.IncludeMinimumWage || flags.IncludeMinimumWage
	p.IncludeFixedSalary = p.IncludeFixedSalary || flags.IncludeFixedSalary
	p.IncludeFixedOvertimePay = p.IncludeFixedOvertimePay || flags.IncludeFixedOvertimePay
	p.IncludeFixedHoursQuota = p.IncludeFixedHoursQuota || flags.IncludeFixedHoursQuota
	p.IncludeOvertimeCalc = p.IncludeOvertimeCalc || flags.IncludeOvertimeCalc
	p.IncludeOnCall = p.IncludeOnCall || flags.IncludeOnCall
	return p
}
