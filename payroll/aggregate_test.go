package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logs(entries ...WorkLog) LogsByDate {
	out := make(LogsByDate, len(entries))
	for _, e := range entries {
		out[e.Date] = e
	}
	return out
}

func TestAggregateHours_Buckets(t *testing.T) {
	// GIVEN: Logs on a weekday, a Saturday, an official and a custom holiday
	ym := MustParseYearMonth("2025-04")
	official := HolidaySetOf(turkey2025.HolidaysFor(2025))
	custom := NewHolidaySet("2025-04-10")

	in := logs(
		WorkLog{Date: "2025-04-07", DayHours: 8, EveningHours: 2}, // Monday
		WorkLog{Date: "2025-04-05", DayHours: 5, EveningHours: 1}, // Saturday
		WorkLog{Date: "2025-04-23", DayHours: 6},                  // official
		WorkLog{Date: "2025-04-10", EveningHours: 3},              // custom
	)

	// WHEN: Aggregating
	b := AggregateHours(ym, in, official, custom)

	// THEN: Holidays fall in the weekend bucket regardless of weekday
	assert.Equal(t, HourBuckets{WeekdayDay: 8, WeekdayEvening: 2, WeekendDay: 11, WeekendEvening: 4}, b)
	assert.Equal(t, 25, b.Total())
	assert.Equal(t, 15, b.Weekend())
}

func TestAggregateHours_IgnoresOtherMonths(t *testing.T) {
	in := logs(
		WorkLog{Date: "2025-02-28", DayHours: 4},
		WorkLog{Date: "2025-03-03", DayHours: 9},
	)
	b := AggregateHours(MustParseYearMonth("2025-02"), in, nil, nil)
	assert.Equal(t, HourBuckets{WeekdayDay: 4}, b)
}

func TestAggregateHours_NoLogs(t *testing.T) {
	assert.Equal(t, HourBuckets{}, AggregateHours(MustParseYearMonth("2025-02"), nil, nil, nil))
}

func TestAggregateHours_DayAndEveningAreIndependent(t *testing.T) {
	// Both fields on the same date are summed into their own buckets.
	b := AggregateHours(MustParseYearMonth("2025-02"),
		logs(WorkLog{Date: "2025-02-03", DayHours: 9, EveningHours: 3}), nil, nil)
	assert.Equal(t, 9, b.WeekdayDay)
	assert.Equal(t, 3, b.WeekdayEvening)
}

func TestValidateLogs(t *testing.T) {
	require.NoError(t, ValidateLogs(nil))
	require.NoError(t, ValidateLogs(logs(WorkLog{Date: "2025-02-03", DayHours: 0})))

	err := ValidateLogs(logs(
		WorkLog{Date: "2025-02-05", EveningHours: -2},
		WorkLog{Date: "2025-02-04", DayHours: -1},
	))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNegativeHours)
	assert.Contains(t, err.Error(), "2025-02-04")
	assert.True(t, IsClientError(err))
}
