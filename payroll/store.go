/*
store.go - Persistence interface consumed by the engine

PURPOSE:
  The engine performs no I/O of its own. Source is the read side of the
  persistence collaborator: the Reporter pulls one month of records through
  it and hands them to the pure Assembler.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite-backed records
  - store/memory/memory.go: In-memory for tests and demos

SEE ALSO:
  - report.go: Reporter.Load
*/
package payroll

import "context"

// Source supplies the records for a month's computation.
type Source interface {
	// ListEmployees returns every employee.
	ListEmployees(ctx context.Context) ([]Employee, error)

	// MonthLogs returns the month's work logs grouped by employee.
	MonthLogs(ctx context.Context, ym YearMonth) (map[EmployeeID]LogsByDate, error)

	// CustomHolidays returns the administrator-recorded holiday dates.
	CustomHolidays(ctx context.Context) ([]string, error)

	// Settings returns the raw key/value rate settings.
	Settings(ctx context.Context) (map[string]string, error)

	// ListPolicies returns every defined policy.
	ListPolicies(ctx context.Context) ([]Policy, error)
}

// Snapshot is a stored report used for regression comparison.
type Snapshot struct {
	Month     YearMonth
	Rows      []PaymentResult
	CreatedAt string
}

// SnapshotStore persists computed reports per month.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snap Snapshot) error
	GetSnapshot(ctx context.Context, ym YearMonth) (*Snapshot, error)
}
