// Package memory provides an in-memory payroll record store.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu        sync.RWMutex
	employees map[payroll.EmployeeID]payroll.Employee
	logs      map[payroll.EmployeeID]payroll.LogsByDate
	holidays  map[string]payroll.Holiday
	settings  map[string]string
	policies  map[payroll.PolicyID]payroll.Policy
	snapshots map[payroll.YearMonth]payroll.Snapshot
}

var (
	_ payroll.Source        = (*Store)(nil)
	_ payroll.SnapshotStore = (*Store)(nil)
)

func New() *Store {
	return &Store{
		employees: make(map[payroll.EmployeeID]payroll.Employee),
		logs:      make(map[payroll.EmployeeID]payroll.LogsByDate),
		holidays:  make(map[string]payroll.Holiday),
		settings:  make(map[string]string),
		policies:  make(map[payroll.PolicyID]payroll.Policy),
		snapshots: make(map[payroll.YearMonth]payroll.Snapshot),
	}
}

// =============================================================================
// WRITES
// =============================================================================

func (m *Store) SaveEmployee(_ context.Context, emp payroll.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[emp.ID] = emp
	return nil
}

// SetWorkLog replaces the log for (employee, date).
func (m *Store) SetWorkLog(_ context.Context, l payroll.WorkLog) error {
	if l.DayHours < 0 || l.EveningHours < 0 {
		return payroll.ErrNegativeHours
	}
	if _, err := payroll.ParseDate(l.Date); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[l.EmployeeID]; !ok {
		return payroll.ErrEmployeeNotFound
	}
	if m.logs[l.EmployeeID] == nil {
		m.logs[l.EmployeeID] = make(payroll.LogsByDate)
	}
	m.logs[l.EmployeeID][l.Date] = l
	return nil
}

func (m *Store) AddHoliday(_ context.Context, h payroll.Holiday) error {
	if _, err := payroll.ParseDate(h.Date); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.holidays[h.Date]; ok {
		return payroll.ErrDuplicateHoliday
	}
	m.holidays[h.Date] = h
	return nil
}

func (m *Store) UpdateSettings(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.settings[k] = v
	}
	return nil
}

func (m *Store) SavePolicy(_ context.Context, p payroll.Policy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policies[p.ID] = p
	return nil
}

func (m *Store) SaveSnapshot(_ context.Context, snap payroll.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]payroll.PaymentResult, len(snap.Rows))
	copy(rows, snap.Rows)
	snap.Rows = rows
	m.snapshots[snap.Month] = snap
	return nil
}

// =============================================================================
// READS (payroll.Source)
// =============================================================================

// ListEmployees returns employees ordered by name, then ID.
func (m *Store) ListEmployees(_ context.Context) ([]payroll.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]payroll.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Store) MonthLogs(_ context.Context, ym payroll.YearMonth) (map[payroll.EmployeeID]payroll.LogsByDate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[payroll.EmployeeID]payroll.LogsByDate)
	for id, logs := range m.logs {
		for date, l := range logs {
			if !ym.Contains(date) {
				continue
			}
			if out[id] == nil {
				out[id] = make(payroll.LogsByDate)
			}
			out[id][date] = l
		}
	}
	return out, nil
}

func (m *Store) CustomHolidays(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.holidays))
	for d := range m.holidays {
		out = append(out, d)
	}
	sort.Strings(out)
	return out, nil
}

func (m *Store) Settings(_ context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]string, len(m.settings))
	for k, v := range m.settings {
		out[k] = v
	}
	return out, nil
}

func (m *Store) ListPolicies(_ context.Context) ([]payroll.Policy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]payroll.Policy, 0, len(m.policies))
	for _, p := range m.policies {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetSnapshot returns nil when no snapshot exists for ym.
func (m *Store) GetSnapshot(_ context.Context, ym payroll.YearMonth) (*payroll.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.snapshots[ym]
	if !ok {
		return nil, nil
	}
	rows := make([]payroll.PaymentResult, len(snap.Rows))
	copy(rows, snap.Rows)
	snap.Rows = rows
	return &snap, nil
}
