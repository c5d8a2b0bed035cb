/*
report.go - Month-wide report assembly

PURPOSE:
  Runs the calculator once per employee and returns rows ordered by display
  name. One employee's failure never aborts the report: the row is replaced
  by a zeroed placeholder carrying the error in its trail.

CONCURRENCY:
  Rows are independent, so they are computed on a bounded errgroup. Each
  worker writes only its own slot of the result slice. Ordering is applied
  after all rows finish, so execution order never shows in the output.

RECOVERY:
  - unknown policy reference -> all-false policy, logged
  - missing rate setting     -> zero, logged (once per report)
  - negative hours / panic   -> degraded row, logged

SEE ALSO:
  - store.go: Source interface the Reporter loads from
  - calculator.go: Per-employee computation
*/
package payroll

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReportInput is every record needed for one month.
type ReportInput struct {
	Month          YearMonth
	Employees      []Employee
	Logs           map[EmployeeID]LogsByDate
	CustomHolidays HolidaySet
	Settings       Settings
	Policies       map[PolicyID]Policy
}

// Assembler computes a month's report.
type Assembler struct {
	Calendar   *Calendar
	Calculator *Calculator
	Logger     *zap.Logger
	Workers    int // <= 0 means GOMAXPROCS
}

func NewAssembler(cal *Calendar, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{
		Calendar:   cal,
		Calculator: NewCalculator(cal),
		Logger:     logger,
	}
}

// Assemble returns one row per employee ordered by name, then ID.
// Only context cancellation is returned as an error.
func (a *Assembler) Assemble(ctx context.Context, in ReportInput) ([]PaymentResult, error) {
	official := a.Calendar.OfficialSet(in.Month)
	custom := in.CustomHolidays
	if custom == nil {
		custom = HolidaySet{}
	}

	results := make([]PaymentResult, len(in.Employees))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers())

	for i, emp := range in.Employees {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = a.computeRow(emp, in, official, custom)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Name != results[j].Name {
			return results[i].Name < results[j].Name
		}
		return results[i].EmployeeID < results[j].EmployeeID
	})
	return results, nil
}

func (a *Assembler) workers() int {
	if a.Workers > 0 {
		return a.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// computeRow never fails; errors and panics become a degraded row.
func (a *Assembler) computeRow(emp Employee, in ReportInput, official, custom HolidaySet) (row PaymentResult) {
	defer func() {
		if r := recover(); r != nil {
			row = a.degraded(emp, &RowError{EmployeeID: emp.ID, Err: fmt.Errorf("panic: %v", r)})
		}
	}()

	logs := in.Logs[emp.ID]
	if err := ValidateLogs(logs); err != nil {
		return a.degraded(emp, &RowError{EmployeeID: emp.ID, Err: err})
	}

	policy := a.resolvePolicy(emp, in.Policies)
	hours := AggregateHours(in.Month, logs, official, custom)

	res, err := a.Calculator.Compute(CalcInput{
		Employee:       emp,
		Month:          in.Month,
		Hours:          hours,
		Policy:         policy,
		Settings:       in.Settings,
		CustomHolidays: custom,
	})
	if err != nil {
		return a.degraded(emp, &RowError{EmployeeID: emp.ID, Err: err})
	}
	return res
}

func (a *Assembler) resolvePolicy(emp Employee, policies map[PolicyID]Policy) Policy {
	if emp.PolicyID == nil {
		return Policy{}
	}
	p, ok := policies[*emp.PolicyID]
	if !ok {
		a.Logger.Warn("policy reference not found, using empty policy",
			zap.String("employee_id", string(emp.ID)),
			zap.String("policy_id", string(*emp.PolicyID)),
			zap.Error(ErrUnknownPolicy))
		return Policy{}
	}
	return p
}

func (a *Assembler) degraded(emp Employee, err error) PaymentResult {
	a.Logger.Warn("employee computation failed, emitting degraded row",
		zap.String("employee_id", string(emp.ID)),
		zap.Error(err))

	return PaymentResult{
		EmployeeID:        emp.ID,
		Name:              emp.Name,
		ExternalID:        emp.ExternalID,
		Branch:            emp.Branch,
		FixedSalary:       emp.FixedSalary,
		FixedOvertimePay:  emp.FixedOvertimePay,
		FixedDayHours:     emp.FixedDayHours,
		FixedEveningHours: emp.FixedEveningHours,
		Details:           []string{"error: " + err.Error()},
		Error:             err.Error(),
	}
}

// =============================================================================
// REPORTER - Loads a month from a Source and assembles it
// =============================================================================

// Reporter ties the assembler to the persistence collaborator.
type Reporter struct {
	Source    Source
	Assembler *Assembler
	Logger    *zap.Logger
}

func NewReporter(src Source, asm *Assembler) *Reporter {
	return &Reporter{Source: src, Assembler: asm, Logger: asm.Logger}
}

// MonthlyReport loads every record for yearMonth and computes the report.
// An invalid yearMonth is the only input error; load failures are returned
// as-is because no row can be computed without them.
func (r *Reporter) MonthlyReport(ctx context.Context, yearMonth string) ([]PaymentResult, error) {
	ym, err := ParseYearMonth(yearMonth)
	if err != nil {
		return nil, err
	}
	in, err := r.Load(ctx, ym)
	if err != nil {
		return nil, err
	}
	return r.Assembler.Assemble(ctx, in)
}

// Load gathers the ReportInput for ym.
func (r *Reporter) Load(ctx context.Context, ym YearMonth) (ReportInput, error) {
	employees, err := r.Source.ListEmployees(ctx)
	if err != nil {
		return ReportInput{}, fmt.Errorf("load employees: %w", err)
	}
	logs, err := r.Source.MonthLogs(ctx, ym)
	if err != nil {
		return ReportInput{}, fmt.Errorf("load work logs: %w", err)
	}
	custom, err := r.Source.CustomHolidays(ctx)
	if err != nil {
		return ReportInput{}, fmt.Errorf("load holidays: %w", err)
	}
	raw, err := r.Source.Settings(ctx)
	if err != nil {
		return ReportInput{}, fmt.Errorf("load settings: %w", err)
	}
	policies, err := r.Source.ListPolicies(ctx)
	if err != nil {
		return ReportInput{}, fmt.Errorf("load policies: %w", err)
	}

	settings, missing := SettingsFromMap(raw)
	for _, key := range missing {
		r.Logger.Warn("rate setting missing, defaulting to zero",
			zap.String("key", key), zap.Error(ErrMissingSetting))
	}

	byID := make(map[PolicyID]Policy, len(policies))
	for _, p := range policies {
		byID[p.ID] = p
	}

	return ReportInput{
		Month:          ym,
		Employees:      employees,
		Logs:           logs,
		CustomHolidays: NewHolidaySet(custom...),
		Settings:       settings,
		Policies:       byID,
	}, nil
}
