package payroll

import (
	"fmt"
	"sort"
)

// AggregateHours buckets one employee's month into weekday and
// weekend-or-holiday day/evening totals. Days without a log count as zero.
func AggregateHours(ym YearMonth, logs LogsByDate, official, custom HolidaySet) HourBuckets {
	var b HourBuckets
	for day := 1; day <= DaysInMonth(ym); day++ {
		d := ym.Day(day)
		log := logs[FormatDate(d)]

		switch ClassifyDay(d, official, custom) {
		case WeekendOrHoliday:
			b.WeekendDay += log.DayHours
			b.WeekendEvening += log.EveningHours
		default:
			b.WeekdayDay += log.DayHours
			b.WeekdayEvening += log.EveningHours
		}
	}
	return b
}

// ValidateLogs rejects negative hours. The ingestion boundary is expected to
// have done this already; the report uses it to isolate bad rows.
func ValidateLogs(logs LogsByDate) error {
	dates := make([]string, 0, len(logs))
	for date := range logs {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for _, date := range dates {
		if l := logs[date]; l.DayHours < 0 || l.EveningHours < 0 {
			return fmt.Errorf("%s: %w", date, ErrNegativeHours)
		}
	}
	return nil
}
