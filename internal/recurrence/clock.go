// Package recurrence expands appointment recurrence rules into concrete,
// dated occurrences. All arithmetic is plain calendar-day math on
// UTC-normalised instants; there is no timezone or DST handling.
package recurrence

import "time"

// AddDays steps t by n calendar days, keeping the time of day.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// AddMonths steps t by n calendar months, clamping the day of month to the
// last valid day of the target month. An anchor on Jan 31 stepped by one
// month lands on Feb 28 (or 29), not Mar 2.
func AddMonths(t time.Time, n int) time.Time {
	t = t.UTC()
	year, month, day := t.Date()

	total := int(month) - 1 + n
	targetYear := year + total/12
	targetMonth := time.Month(total%12 + 1)
	if total < 0 {
		// Go's integer division truncates toward zero; normalise so the
		// month index stays in [1, 12].
		targetYear = year + (total-11)/12
		targetMonth = time.Month((total%12+12)%12 + 1)
	}

	if last := DaysIn(targetYear, targetMonth); day > last {
		day = last
	}
	hour, min, sec := t.Clock()
	return time.Date(targetYear, targetMonth, day, hour, min, sec, t.Nanosecond(), time.UTC)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartOfWeek returns the day at weekday index 0 (Sunday) of the calendar
// week containing t, keeping t's time of day.
func StartOfWeek(t time.Time) time.Time {
	t = t.UTC()
	return AddDays(t, -int(t.Weekday()))
}

// ProjectClock places the time of day of clock onto the calendar date of day.
func ProjectClock(day time.Time, clock time.Time) time.Time {
	day = day.UTC()
	clock = clock.UTC()
	year, month, date := day.Date()
	hour, min, sec := clock.Clock()
	return time.Date(year, month, date, hour, min, sec, clock.Nanosecond(), time.UTC)
}
