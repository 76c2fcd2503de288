package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestAddMonthsClampsToMonthEnd(t *testing.T) {
	anchor := date(2025, time.January, 31, 9, 30)

	assert.Equal(t, date(2025, time.February, 28, 9, 30), AddMonths(anchor, 1))
	assert.Equal(t, date(2025, time.March, 31, 9, 30), AddMonths(anchor, 2))
	assert.Equal(t, date(2025, time.April, 30, 9, 30), AddMonths(anchor, 3))
}

func TestAddMonthsLeapYear(t *testing.T) {
	anchor := date(2024, time.January, 31, 0, 0)
	assert.Equal(t, date(2024, time.February, 29, 0, 0), AddMonths(anchor, 1))
}

func TestAddMonthsAcrossYearBoundary(t *testing.T) {
	anchor := date(2025, time.November, 15, 12, 0)
	assert.Equal(t, date(2026, time.January, 15, 12, 0), AddMonths(anchor, 2))
	assert.Equal(t, date(2024, time.December, 15, 12, 0), AddMonths(anchor, -11))
}

func TestAddMonthsMidMonthUnchanged(t *testing.T) {
	anchor := date(2025, time.March, 12, 8, 45)
	assert.Equal(t, date(2025, time.April, 12, 8, 45), AddMonths(anchor, 1))
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 31, DaysIn(2025, time.January))
	assert.Equal(t, 28, DaysIn(2025, time.February))
	assert.Equal(t, 29, DaysIn(2024, time.February))
	assert.Equal(t, 30, DaysIn(2025, time.April))
}

func TestStartOfWeek(t *testing.T) {
	// 2025-01-06 is a Monday; the week origin (weekday 0) is Sunday the 5th.
	monday := date(2025, time.January, 6, 10, 0)
	assert.Equal(t, date(2025, time.January, 5, 10, 0), StartOfWeek(monday))

	sunday := date(2025, time.January, 5, 10, 0)
	assert.Equal(t, sunday, StartOfWeek(sunday))

	saturday := date(2025, time.January, 11, 23, 59)
	assert.Equal(t, date(2025, time.January, 5, 23, 59), StartOfWeek(saturday))
}

func TestProjectClock(t *testing.T) {
	day := date(2025, time.June, 3, 0, 0)
	clock := date(2025, time.January, 6, 10, 15)
	assert.Equal(t, date(2025, time.June, 3, 10, 15), ProjectClock(day, clock))
}
