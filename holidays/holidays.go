/*
Package holidays provides year-scoped official holiday tables.

PURPOSE:
  The engine never embeds a single year's calendar. A Table maps a year to
  its official holidays and implements payroll.HolidayProvider, so a new
  year is a data change: load a JSON file or Add entries at startup.

JSON FORMAT (LoadFile / Parse):
  {
    "2025": [{"date": "2025-01-01", "description": "New Year's Day"}],
    "2026": [...]
  }

USAGE:
  table := holidays.Default()
  if cfg.HolidaysFile != "" {
      extra, err := holidays.LoadFile(cfg.HolidaysFile)
      ...
      table.Merge(extra)
  }
  cal := payroll.NewCalendar(table)

SEE ALSO:
  - payroll/calendar.go: HolidayProvider, Calendar
*/
package holidays

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/warp/payroll-engine/payroll"
)

// Table is a concurrency-safe year -> holidays map.
type Table struct {
	mu    sync.RWMutex
	years map[int][]payroll.Holiday
}

var _ payroll.HolidayProvider = (*Table)(nil)

func NewTable() *Table {
	return &Table{years: make(map[int][]payroll.Holiday)}
}

// HolidaysFor returns a copy of the year's official holidays, ordered by date.
func (t *Table) HolidaysFor(year int) []payroll.Holiday {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]payroll.Holiday, len(t.years[year]))
	copy(out, t.years[year])
	return out
}

// Years lists the years that have a table, ascending.
func (t *Table) Years() []int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]int, 0, len(t.years))
	for y := range t.years {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// Add validates and inserts holidays. Duplicate dates keep the first description.
func (t *Table) Add(holidays ...payroll.Holiday) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, h := range holidays {
		d, err := payroll.ParseDate(h.Date)
		if err != nil {
			return err
		}
		year := d.Year()
		if containsDate(t.years[year], h.Date) {
			continue
		}
		t.years[year] = append(t.years[year], h)
		sort.Slice(t.years[year], func(i, j int) bool { return t.years[year][i].Date < t.years[year][j].Date })
	}
	return nil
}

// Replace swaps a whole year's table.
func (t *Table) Replace(year int, holidays []payroll.Holiday) error {
	fresh := NewTable()
	if err := fresh.Add(holidays...); err != nil {
		return err
	}
	for _, y := range fresh.Years() {
		if y != year {
			return fmt.Errorf("holiday %s outside year %d", fresh.years[y][0].Date, year)
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.years[year] = fresh.years[year]
	return nil
}

// Merge adds every entry of other into t.
func (t *Table) Merge(other *Table) error {
	for _, y := range other.Years() {
		if err := t.Add(other.HolidaysFor(y)...); err != nil {
			return err
		}
	}
	return nil
}

func containsDate(hs []payroll.Holiday, date string) bool {
	for _, h := range hs {
		if h.Date == date {
			return true
		}
	}
	return false
}

// =============================================================================
// LOADING
// =============================================================================

// Parse reads the JSON table format.
func Parse(data []byte) (*Table, error) {
	var raw map[string][]payroll.Holiday
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse holiday table: %w", err)
	}

	t := NewTable()
	for key, hs := range raw {
		year, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("parse holiday table: invalid year %q", key)
		}
		if err := t.Replace(year, hs); err != nil {
			return nil, fmt.Errorf("parse holiday table: %w", err)
		}
	}
	return t, nil
}

// LoadFile reads a JSON table from disk.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read holiday table: %w", err)
	}
	return Parse(data)
}

// =============================================================================
// BUILT-IN TABLE
// =============================================================================

// official2025 is the Turkish official holiday list used by existing exports.
var official2025 = []payroll.Holiday{
	{Date: "2025-01-01", Description: "New Year's Day"},
	{Date: "2025-03-31", Description: "Ramadan Feast"},
	{Date: "2025-04-01", Description: "Ramadan Feast"},
	{Date: "2025-04-02", Description: "Ramadan Feast"},
	{Date: "2025-04-23", Description: "National Sovereignty and Children's Day"},
	{Date: "2025-05-01", Description: "Labour and Solidarity Day"},
	{Date: "2025-05-19", Description: "Youth and Sports Day"},
	{Date: "2025-06-27", Description: "Feast of Sacrifice"},
	{Date: "2025-06-28", Description: "Feast of Sacrifice"},
	{Date: "2025-06-29", Description: "Feast of Sacrifice"},
	{Date: "2025-06-30", Description: "Feast of Sacrifice"},
	{Date: "2025-08-30", Description: "Victory Day"},
	{Date: "2025-09-05", Description: "Feast of Sacrifice"},
	{Date: "2025-09-06", Description: "Feast of Sacrifice"},
	{Date: "2025-09-07", Description: "Feast of Sacrifice"},
	{Date: "2025-09-08", Description: "Feast of Sacrifice"},
	{Date: "2025-10-29", Description: "Republic Day"},
}

// Default returns a fresh table holding the built-in years.
func Default() *Table {
	t := NewTable()
	if err := t.Replace(2025, official2025); err != nil {
		panic(err)
	}
	return t
}
