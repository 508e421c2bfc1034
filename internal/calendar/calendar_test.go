package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/finclear/settlement-engine/pkg/models"
)

func date(y int, m time.Month, d int) models.Date {
	return models.NewDate(y, m, d)
}

func TestIsBusinessDay(t *testing.T) {
	cal := New("US", []models.Date{date(2023, time.December, 25)}, nil)

	assert.True(t, cal.IsBusinessDay(date(2023, time.December, 15)))   // Friday
	assert.False(t, cal.IsBusinessDay(date(2023, time.December, 16)))  // Saturday
	assert.False(t, cal.IsBusinessDay(date(2023, time.December, 17)))  // Sunday
	assert.False(t, cal.IsBusinessDay(date(2023, time.December, 25)))  // holiday Monday
	assert.True(t, cal.IsBusinessDay(date(2023, time.December, 26)))   // Tuesday
}

func TestCustomWeekend(t *testing.T) {
	// Gulf-market style Friday/Saturday weekend.
	cal := New("AE", nil, []time.Weekday{time.Friday, time.Saturday})

	assert.False(t, cal.IsBusinessDay(date(2023, time.December, 15))) // Friday
	assert.False(t, cal.IsBusinessDay(date(2023, time.December, 16))) // Saturday
	assert.True(t, cal.IsBusinessDay(date(2023, time.December, 17)))  // Sunday
}

func TestNextBusinessDayStrictlyGreater(t *testing.T) {
	cal := New("US", nil, nil)

	// From a Friday the next business day is Monday, even though Friday
	// itself is a business day.
	assert.Equal(t, date(2023, time.December, 18), cal.NextBusinessDay(date(2023, time.December, 15)))
	// From a Saturday it is also Monday.
	assert.Equal(t, date(2023, time.December, 18), cal.NextBusinessDay(date(2023, time.December, 16)))
}

func TestAddBusinessDaysZero(t *testing.T) {
	cal := New("US", nil, nil)

	// n == 0 returns the input unchanged, even on a weekend.
	saturday := date(2023, time.December, 16)
	assert.Equal(t, saturday, cal.AddBusinessDays(saturday, 0))
}

func TestAddBusinessDaysSkipsWeekend(t *testing.T) {
	cal := New("US", nil, nil)

	// Friday + 2 business days = Tuesday.
	assert.Equal(t, date(2023, time.December, 19), cal.AddBusinessDays(date(2023, time.December, 15), 2))
}

func TestAddBusinessDaysHolidayCluster(t *testing.T) {
	cal := New("US", []models.Date{date(2023, time.December, 25)}, nil)

	// Friday 2023-12-22 + 2: skip Sat/Sun and the Monday holiday, count
	// Tue 26 and Wed 27.
	assert.Equal(t, date(2023, time.December, 27), cal.AddBusinessDays(date(2023, time.December, 22), 2))
}

func TestAddBusinessDaysStrictlyIncreasing(t *testing.T) {
	cal := New("US", []models.Date{date(2023, time.December, 25), date(2023, time.December, 26)}, nil)

	from := date(2023, time.December, 20)
	previous := cal.AddBusinessDays(from, 0)
	for n := 1; n <= 15; n++ {
		next := cal.AddBusinessDays(from, n)
		assert.True(t, next.After(previous), "n=%d: %s not after %s", n, next, previous)
		assert.True(t, cal.IsBusinessDay(next), "n=%d: %s not a business day", n, next)
		previous = next
	}
}

func TestAddBusinessDaysYearRollover(t *testing.T) {
	cal := New("UK", []models.Date{
		date(2023, time.December, 25),
		date(2023, time.December, 26),
		date(2024, time.January, 1),
	}, nil)

	// Friday 2023-12-29 + 2: Mon Jan 1 is a holiday, so Tue 2 and Wed 3.
	assert.Equal(t, date(2024, time.January, 3), cal.AddBusinessDays(date(2023, time.December, 29), 2))
}

func TestSnapshotStableOrder(t *testing.T) {
	cal := New("UK", []models.Date{
		date(2023, time.December, 26),
		date(2023, time.December, 25),
	}, []time.Weekday{time.Sunday, time.Saturday})

	snap := cal.Snapshot()
	assert.Equal(t, "UK", snap.JurisdictionKey)
	assert.Equal(t, []models.Date{date(2023, time.December, 25), date(2023, time.December, 26)}, snap.Holidays)
	// Sorted by weekday index: Sunday (0) before Saturday (6).
	assert.Equal(t, []time.Weekday{time.Sunday, time.Saturday}, snap.WeekendDays)
}
