// Package calendar implements per-jurisdiction business calendars and the
// thread-safe registry that serves them to the settlement calculator.
package calendar

import (
	"sort"
	"time"

	"github.com/finclear/settlement-engine/pkg/models"
)

// Calendar is an immutable business-calendar snapshot for one jurisdiction:
// a holiday set plus a weekend day-of-week set. The two sets fully determine
// the business-day predicate. Calendars are replace-only; there is no
// in-place mutation, so snapshots are safe to share across goroutines.
type Calendar struct {
	jurisdiction string
	holidays     map[models.Date]struct{}
	weekend      map[time.Weekday]struct{}
}

// DefaultWeekend is the Saturday/Sunday weekend applied when a calendar is
// built without an explicit weekend set.
var DefaultWeekend = []time.Weekday{time.Saturday, time.Sunday}

// New builds a calendar snapshot. The holiday and weekend slices are copied;
// an empty weekend slice selects DefaultWeekend (pass e.g. {Friday,
// Saturday} for Gulf-market jurisdictions).
func New(jurisdiction string, holidays []models.Date, weekend []time.Weekday) *Calendar {
	if len(weekend) == 0 {
		weekend = DefaultWeekend
	}
	c := &Calendar{
		jurisdiction: jurisdiction,
		holidays:     make(map[models.Date]struct{}, len(holidays)),
		weekend:      make(map[time.Weekday]struct{}, len(weekend)),
	}
	for _, h := range holidays {
		c.holidays[h] = struct{}{}
	}
	for _, w := range weekend {
		c.weekend[w] = struct{}{}
	}
	return c
}

// Fallback builds the weekend-only degraded-mode calendar served for
// unregistered jurisdictions: Saturday/Sunday weekend, no holidays.
func Fallback(jurisdiction string) *Calendar {
	return New(jurisdiction, nil, nil)
}

// Jurisdiction returns the jurisdiction key the calendar was built for.
func (c *Calendar) Jurisdiction() string { return c.jurisdiction }

// IsBusinessDay reports whether date is neither a weekend day nor a
// registered holiday.
func (c *Calendar) IsBusinessDay(date models.Date) bool {
	if _, weekend := c.weekend[date.Weekday()]; weekend {
		return false
	}
	_, holiday := c.holidays[date]
	return !holiday
}

// NextBusinessDay returns the smallest business day strictly greater than
// date.
func (c *Calendar) NextBusinessDay(date models.Date) models.Date {
	current := date.AddDays(1)
	for !c.IsBusinessDay(current) {
		current = current.AddDays(1)
	}
	return current
}

// AddBusinessDays returns the date n business days strictly after from. For
// n == 0 it returns from unchanged, with no business-day requirement on from
// itself. Counting starts strictly after from: even when from is a business
// day it is never one of the n days, reproducing the settlement convention
// that T+2 means two business days strictly following the trade date.
func (c *Calendar) AddBusinessDays(from models.Date, n int) models.Date {
	current := from
	for remaining := n; remaining > 0; remaining-- {
		current = c.NextBusinessDay(current)
	}
	return current
}

// Snapshot returns a serializable view of the calendar, with holidays and
// weekend days in stable order.
func (c *Calendar) Snapshot() models.CalendarSnapshot {
	holidays := make([]models.Date, 0, len(c.holidays))
	for h := range c.holidays {
		holidays = append(holidays, h)
	}
	sort.Slice(holidays, func(i, j int) bool { return holidays[i].Before(holidays[j]) })

	weekend := make([]time.Weekday, 0, len(c.weekend))
	for w := range c.weekend {
		weekend = append(weekend, w)
	}
	sort.Slice(weekend, func(i, j int) bool { return weekend[i] < weekend[j] })

	return models.CalendarSnapshot{
		JurisdictionKey: c.jurisdiction,
		Holidays:        holidays,
		WeekendDays:     weekend,
	}
}
