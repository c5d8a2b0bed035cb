package payroll

import (
	"sort"
	"time"
)

const (
	dateLayout      = "2006-01-02"
	yearMonthLayout = "2006-01"
)

// =============================================================================
// YEAR MONTH - The pay period (always a calendar month)
// =============================================================================

type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseYearMonth parses a strict YYYY-MM token.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse(yearMonthLayout, s)
	if err != nil || len(s) != len(yearMonthLayout) {
		return YearMonth{}, &ValidationError{
			Code:  "invalid_month_format",
			Field: "year_month",
			Value: s,
			Err:   ErrInvalidMonthFormat,
		}
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// MustParseYearMonth is for tests and fixtures.
func MustParseYearMonth(s string) YearMonth {
	ym, err := ParseYearMonth(s)
	if err != nil {
		panic(err)
	}
	return ym
}

func (ym YearMonth) String() string { return ym.First().Format(yearMonthLayout) }

// First returns the first day of the month at UTC midnight.
func (ym YearMonth) First() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Day returns the given day of the month at UTC midnight.
func (ym YearMonth) Day(day int) time.Time {
	return time.Date(ym.Year, ym.Month, day, 0, 0, 0, 0, time.UTC)
}

// Previous returns the month before ym.
func (ym YearMonth) Previous() YearMonth {
	t := ym.First().AddDate(0, -1, 0)
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// Contains reports whether an ISO date string falls in this month.
func (ym YearMonth) Contains(date string) bool {
	return len(date) >= len(yearMonthLayout) && date[:len(yearMonthLayout)] == ym.String()
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) YearMonth { return YearMonth{Year: t.Year(), Month: t.Month()} }

// DaysInMonth is the Gregorian month length.
func DaysInMonth(ym YearMonth) int {
	if ym.Month == time.December {
		return 31
	}
	return int(ym.First().AddDate(0, 1, 0).Sub(ym.First()).Hours() / 24)
}

// ParseDate parses a strict YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, &ValidationError{Code: "invalid_date", Field: "date", Value: s, Err: ErrInvalidDate}
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string { return t.Format(dateLayout) }

// =============================================================================
// HOLIDAYS
// =============================================================================

// Holiday is a non-working date. Official holidays come from a year-scoped
// table; custom ones are recorded by an administrator.
type Holiday struct {
	Date        string `json:"date"`
	Description string `json:"description"`
}

// HolidaySet is a deduplicated set of ISO dates.
type HolidaySet map[string]struct{}

func NewHolidaySet(dates ...string) HolidaySet {
	s := make(HolidaySet, len(dates))
	for _, d := range dates {
		s[d] = struct{}{}
	}
	return s
}

// HolidaySetOf builds a set from holiday records.
func HolidaySetOf(holidays []Holiday) HolidaySet {
	s := make(HolidaySet, len(holidays))
	for _, h := range holidays {
		s[h.Date] = struct{}{}
	}
	return s
}

func (s HolidaySet) Contains(date string) bool {
	_, ok := s[date]
	return ok
}

// Union returns the deduplicated union of s and other.
func (s HolidaySet) Union(other HolidaySet) HolidaySet {
	out := make(HolidaySet, len(s)+len(other))
	for d := range s {
		out[d] = struct{}{}
	}
	for d := range other {
		out[d] = struct{}{}
	}
	return out
}

// Sorted returns the dates in ascending order.
func (s HolidaySet) Sorted() []string {
	out := make([]string, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// HolidayProvider supplies the official holiday table for a year.
// Implementations must be safe for concurrent reads.
type HolidayProvider interface {
	HolidaysFor(year int) []Holiday
}

// NoHolidays is a provider with an empty table for every year.
type NoHolidays struct{}

func (NoHolidays) HolidaysFor(int) []Holiday { return nil }

// =============================================================================
// CLASSIFICATION
// =============================================================================

// DayClass is the pay-rate class of a calendar day.
type DayClass int

const (
	Weekday DayClass = iota
	// WeekendOrHoliday covers Saturdays, Sundays and every holiday,
	// including holidays that fall on a weekday.
	WeekendOrHoliday
)

func (c DayClass) String() string {
	if c == WeekendOrHoliday {
		return "weekend_or_holiday"
	}
	return "weekday"
}

func IsOfficialOrCustomHoliday(date time.Time, official, custom HolidaySet) bool {
	key := FormatDate(date)
	return official.Contains(key) || custom.Contains(key)
}

func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func ClassifyDay(date time.Time, official, custom HolidaySet) DayClass {
	if isWeekend(date) || IsOfficialOrCustomHoliday(date, official, custom) {
		return WeekendOrHoliday
	}
	return Weekday
}

// CountWorkingDays counts Monday-Friday dates of the month that are in
// neither holiday set. Only used for the expected-hours quota.
func CountWorkingDays(ym YearMonth, official, custom HolidaySet) int {
	n := 0
	for day := 1; day <= DaysInMonth(ym); day++ {
		d := ym.Day(day)
		if !isWeekend(d) && !IsOfficialOrCustomHoliday(d, official, custom) {
			n++
		}
	}
	return n
}

// =============================================================================
// CALENDAR - Binds the classification functions to an official table
// =============================================================================

// Calendar resolves official holidays per year from its provider.
type Calendar struct {
	Official HolidayProvider
}

func NewCalendar(official HolidayProvider) *Calendar {
	if official == nil {
		official = NoHolidays{}
	}
	return &Calendar{Official: official}
}

// OfficialSet returns the official holidays of ym's year.
func (c *Calendar) OfficialSet(ym YearMonth) HolidaySet {
	return HolidaySetOf(c.Official.HolidaysFor(ym.Year))
}

func (c *Calendar) ClassifyDay(date time.Time, custom HolidaySet) DayClass {
	return ClassifyDay(date, HolidaySetOf(c.Official.HolidaysFor(date.Year())), custom)
}

func (c *Calendar) CountWorkingDays(ym YearMonth, custom HolidaySet) int {
	return CountWorkingDays(ym, c.OfficialSet(ym), custom)
}

// EffectiveHolidays is the union of official and custom holidays in ym.
func (c *Calendar) EffectiveHolidays(ym YearMonth, custom HolidaySet) []string {
	var out []string
	for _, d := range c.OfficialSet(ym).Union(custom).Sorted() {
		if ym.Contains(d) {
			out = append(out, d)
		}
	}
	return out
}
