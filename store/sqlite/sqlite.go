/*
Package sqlite provides a SQLite-backed implementation of the persistence
collaborator.

PURPOSE:
  Stores employees, work logs, custom holidays, rate settings, policies and
  report snapshots. Implements payroll.Source (the read side the engine
  consumes) and payroll.SnapshotStore.

KEY TABLES:
  employees:         Identity, branch, policy reference, fixed amounts
  work_logs:         One row per employee per date (day/evening hours)
  holidays:          Administrator-recorded custom holidays (date is the key)
  settings:          Key/value rates, seeded with defaults
  policies:          Policy flag sets as JSON (factory.PolicyJSON)
  report_snapshots:  Computed month reports for regression comparison

WORK LOG UPSERT:
  UpsertWorkLogField writes one of day/evening. On an existing row the other
  field is left untouched; a new row starts the other field at zero. A
  non-nil reason overwrites sunday_reason.

MONEY:
  Decimal values are stored as TEXT and parsed with shopspring/decimal, so
  nothing passes through float64.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of WAL mode.

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - payroll/store.go: Interface definitions
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db      *sql.DB
	mu      sync.RWMutex
	factory *factory.PolicyFactory
}

var (
	_ payroll.Source        = (*Store)(nil)
	_ payroll.SnapshotStore = (*Store)(nil)
)

// DefaultSettings are inserted on first migration.
var DefaultSettings = map[string]string{
	payroll.SettingDayRate:     "100",
	payroll.SettingEveningRate: "120",
	payroll.SettingMinimumWage: "17002",
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A :memory: database exists per connection.
	db.SetMaxOpenConns(1)

	store := &Store{db: db, factory: factory.NewPolicyFactory()}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS policies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		config_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		external_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		branch TEXT NOT NULL DEFAULT '',
		policy_id TEXT REFERENCES policies(id) ON DELETE SET NULL,
		fixed_salary TEXT NOT NULL DEFAULT '0',
		fixed_overtime_pay TEXT NOT NULL DEFAULT '0',
		fixed_day_hours TEXT NOT NULL DEFAULT '0',
		fixed_evening_hours TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_name ON employees(name);

	CREATE TABLE IF NOT EXISTS work_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		day_hours INTEGER NOT NULL DEFAULT 0 CHECK (day_hours >= 0),
		evening_hours INTEGER NOT NULL DEFAULT 0 CHECK (evening_hours >= 0),
		sunday_reason TEXT,
		UNIQUE(employee_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_work_logs_date ON work_logs(date);

	CREATE TABLE IF NOT EXISTS holidays (
		date TEXT PRIMARY KEY,
		description TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS report_snapshots (
		year_month TEXT PRIMARY KEY,
		rows_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return s.seedSettings(context.Background())
}

func (s *Store) seedSettings(ctx context.Context) error {
	keys := make([]string, 0, len(DefaultSettings))
	for k := range DefaultSettings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := s.db.ExecContext(ctx,
			"INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)", k, DefaultSettings[k]); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// SETTINGS STORE
// =============================================================================

// Settings returns every stored setting.
func (s *Store) Settings(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

// UpdateSettings upserts the given keys.
func (s *Store) UpdateSettings(ctx context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for k, v := range values {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`, k, v); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// =============================================================================
// POLICY STORE
// =============================================================================

// PolicyRecord is a stored policy with its JSON config.
type PolicyRecord struct {
	ID         string
	Name       string
	ConfigJSON string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SavePolicy stores a policy, replacing any previous version.
func (s *Store) SavePolicy(ctx context.Context, p payroll.Policy) error {
	configJSON, err := s.factory.ToJSON(p)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO policies (id, name, config_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			config_json = excluded.config_json,
			updated_at = excluded.updated_at`,
		string(p.ID), p.Name, configJSON, now, now,
	)
	return err
}

// GetPolicy retrieves a policy by ID. Returns nil if absent.
func (s *Store) GetPolicy(ctx context.Context, id payroll.PolicyID) (*payroll.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var configJSON string
	err := s.db.QueryRowContext(ctx, "SELECT config_json FROM policies WHERE id = ?", string(id)).Scan(&configJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	p, err := s.factory.ParsePolicy(configJSON)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPolicies returns all policies ordered by name.
func (s *Store) ListPolicies(ctx context.Context) ([]payroll.Policy, error) {
	records, err := s.ListPolicyRecords(ctx)
	if err != nil {
		return nil, err
	}

	policies := make([]payroll.Policy, 0, len(records))
	for _, r := range records {
		p, err := s.factory.ParsePolicy(r.ConfigJSON)
		if err != nil {
			return nil, fmt.Errorf("policy %s: %w", r.ID, err)
		}
		policies = append(policies, p)
	}
	return policies, nil
}

// ListPolicyRecords returns the raw policy rows.
func (s *Store) ListPolicyRecords(ctx context.Context) ([]PolicyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, config_json, created_at, updated_at FROM policies ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PolicyRecord
	for rows.Next() {
		var r PolicyRecord
		var createdAt, updatedAt string
		if err := rows.Scan(&r.ID, &r.Name, &r.ConfigJSON, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		r.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

// DeletePolicy removes a policy. Employees referencing it fall back to no policy.
func (s *Store) DeletePolicy(ctx context.Context, id payroll.PolicyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM policies WHERE id = ?", string(id))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return payroll.ErrPolicyNotFound
	}
	return nil
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

const employeeColumns = `id, external_id, name, branch, policy_id,
	fixed_salary, fixed_overtime_pay, fixed_day_hours, fixed_evening_hours`

// SaveEmployee inserts or updates an employee.
func (s *Store) SaveEmployee(ctx context.Context, emp payroll.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveEmployee(ctx, s.db, emp)
}

// SaveEmployees inserts or updates a batch atomically.
func (s *Store) SaveEmployees(ctx context.Context, emps []payroll.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, emp := range emps {
		if err := s.saveEmployee(ctx, tx, emp); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) saveEmployee(ctx context.Context, db execer, emp payroll.Employee) error {
	var policyID sql.NullString
	if emp.PolicyID != nil {
		policyID = sql.NullString{String: string(*emp.PolicyID), Valid: true}
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO employees (`+employeeColumns+`, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			external_id = excluded.external_id,
			name = excluded.name,
			branch = excluded.branch,
			policy_id = excluded.policy_id,
			fixed_salary = excluded.fixed_salary,
			fixed_overtime_pay = excluded.fixed_overtime_pay,
			fixed_day_hours = excluded.fixed_day_hours,
			fixed_evening_hours = excluded.fixed_evening_hours`,
		string(emp.ID), emp.ExternalID, emp.Name, emp.Branch, policyID,
		emp.FixedSalary.String(), emp.FixedOvertimePay.String(),
		emp.FixedDayHours.String(), emp.FixedEveningHours.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save employee %s: %w", emp.ID, err)
	}
	return nil
}

// GetEmployee retrieves an employee by ID. Returns nil if absent.
func (s *Store) GetEmployee(ctx context.Context, id payroll.EmployeeID) (*payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = ?", string(id))
	emp, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+employeeColumns+" FROM employees ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []payroll.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// DeleteEmployee removes an employee and, by cascade, their work logs.
func (s *Store) DeleteEmployee(ctx context.Context, id payroll.EmployeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", string(id))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return payroll.ErrEmployeeNotFound
	}
	return nil
}

func scanEmployee(row interface{ Scan(dest ...any) error }) (payroll.Employee, error) {
	var (
		emp                                    payroll.Employee
		id                                     string
		policyID                               sql.NullString
		salary, overtimePay, dayHours, evHours string
	)
	if err := row.Scan(&id, &emp.ExternalID, &emp.Name, &emp.Branch, &policyID,
		&salary, &overtimePay, &dayHours, &evHours); err != nil {
		return payroll.Employee{}, err
	}
	emp.ID = payroll.EmployeeID(id)
	if policyID.Valid {
		pid := payroll.PolicyID(policyID.String)
		emp.PolicyID = &pid
	}
	emp.FixedSalary = parseDecimal(salary)
	emp.FixedOvertimePay = parseDecimal(overtimePay)
	emp.FixedDayHours = parseDecimal(dayHours)
	emp.FixedEveningHours = parseDecimal(evHours)
	return emp, nil
}

// =============================================================================
// WORK LOG STORE
// =============================================================================

// LogField selects which hour column an upsert writes.
type LogField string

const (
	FieldDay     LogField = "day"
	FieldEvening LogField = "evening"
)

func (f LogField) column() (string, error) {
	switch f {
	case FieldDay:
		return "day_hours", nil
	case FieldEvening:
		return "evening_hours", nil
	default:
		return "", fmt.Errorf("unknown work log field %q", f)
	}
}

// UpsertWorkLogField sets one hour field for an employee/date.
func (s *Store) UpsertWorkLogField(ctx context.Context, empID payroll.EmployeeID, date string, field LogField, hours int, reason *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertWorkLogField(ctx, s.db, empID, date, field, hours, reason)
}

func (s *Store) upsertWorkLogField(ctx context.Context, db execer, empID payroll.EmployeeID, date string, field LogField, hours int, reason *string) error {
	if hours < 0 {
		return payroll.ErrNegativeHours
	}
	if _, err := payroll.ParseDate(date); err != nil {
		return err
	}
	col, err := field.column()
	if err != nil {
		return err
	}

	var reasonArg sql.NullString
	if reason != nil {
		reasonArg = sql.NullString{String: *reason, Valid: true}
	}

	// col is one of two fixed column names.
	query := `
		INSERT INTO work_logs (employee_id, date, ` + col + `, sunday_reason)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(employee_id, date) DO UPDATE SET
			` + col + ` = excluded.` + col + `,
			sunday_reason = COALESCE(excluded.sunday_reason, work_logs.sunday_reason)`
	if _, err := db.ExecContext(ctx, query, string(empID), date, hours, reasonArg); err != nil {
		if isForeignKeyError(err) {
			return payroll.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to upsert work log: %w", err)
	}
	return nil
}

// WorkLogEntry is one field write in an import batch.
type WorkLogEntry struct {
	EmployeeID payroll.EmployeeID
	Date       string
	Field      LogField
	Hours      int
}

// ImportWorkLogs applies a batch of field writes atomically.
func (s *Store) ImportWorkLogs(ctx context.Context, entries []WorkLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, e := range entries {
		if err := s.upsertWorkLogField(ctx, tx, e.EmployeeID, e.Date, e.Field, e.Hours, nil); err != nil {
			return fmt.Errorf("%s %s: %w", e.EmployeeID, e.Date, err)
		}
	}
	return tx.Commit()
}

// MonthLogs returns the month's logs grouped by employee.
func (s *Store) MonthLogs(ctx context.Context, ym payroll.YearMonth) (map[payroll.EmployeeID]payroll.LogsByDate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, date, day_hours, evening_hours, sunday_reason
		FROM work_logs
		WHERE date LIKE ?
		ORDER BY employee_id, date`, ym.String()+"-%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[payroll.EmployeeID]payroll.LogsByDate)
	for rows.Next() {
		var (
			l      payroll.WorkLog
			empID  string
			reason sql.NullString
		)
		if err := rows.Scan(&empID, &l.Date, &l.DayHours, &l.EveningHours, &reason); err != nil {
			return nil, err
		}
		l.EmployeeID = payroll.EmployeeID(empID)
		l.SundayReason = reason.String
		if out[l.EmployeeID] == nil {
			out[l.EmployeeID] = make(payroll.LogsByDate)
		}
		out[l.EmployeeID][l.Date] = l
	}
	return out, rows.Err()
}

// =============================================================================
// HOLIDAY STORE
// =============================================================================

// AddHoliday records a custom holiday. Returns ErrDuplicateHoliday if present.
func (s *Store) AddHoliday(ctx context.Context, h payroll.Holiday) error {
	if _, err := payroll.ParseDate(h.Date); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "INSERT INTO holidays (date, description) VALUES (?, ?)", h.Date, h.Description)
	if isUniqueConstraintError(err) {
		return payroll.ErrDuplicateHoliday
	}
	return err
}

// DeleteHoliday removes a custom holiday. Deleting a missing date is a no-op.
func (s *Store) DeleteHoliday(ctx context.Context, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE date = ?", date)
	return err
}

// ListHolidays returns the custom holidays ordered by date.
func (s *Store) ListHolidays(ctx context.Context) ([]payroll.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT date, description FROM holidays ORDER BY date")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []payroll.Holiday
	for rows.Next() {
		var h payroll.Holiday
		if err := rows.Scan(&h.Date, &h.Description); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// CustomHolidays returns the custom holiday dates.
func (s *Store) CustomHolidays(ctx context.Context) ([]string, error) {
	hs, err := s.ListHolidays(ctx)
	if err != nil {
		return nil, err
	}
	dates := make([]string, len(hs))
	for i, h := range hs {
		dates[i] = h.Date
	}
	return dates, nil
}

// =============================================================================
// SNAPSHOT STORE
// =============================================================================

// SaveSnapshot stores (or replaces) a month's report.
func (s *Store) SaveSnapshot(ctx context.Context, snap payroll.Snapshot) error {
	rowsJSON, err := json.Marshal(snap.Rows)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := snap.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO report_snapshots (year_month, rows_json, created_at) VALUES (?, ?, ?)
		ON CONFLICT(year_month) DO UPDATE SET
			rows_json = excluded.rows_json,
			created_at = excluded.created_at`,
		snap.Month.String(), string(rowsJSON), createdAt)
	return err
}

// GetSnapshot returns a month's stored report, or nil if none exists.
func (s *Store) GetSnapshot(ctx context.Context, ym payroll.YearMonth) (*payroll.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rowsJSON, createdAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT rows_json, created_at FROM report_snapshots WHERE year_month = ?", ym.String(),
	).Scan(&rowsJSON, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	snap := &payroll.Snapshot{Month: ym, CreatedAt: createdAt}
	if err := json.Unmarshal([]byte(rowsJSON), &snap.Rows); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset clears every table and restores default settings.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"work_logs", "employees", "policies", "holidays", "settings", "report_snapshots"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return s.seedSettings(ctx)
}

// Helper functions

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
