package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Date is a civil calendar date with no time-of-day or timezone attached.
// It is comparable, so it can be used directly as a map or cache key.
type Date struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// NewDate builds a Date from its components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf extracts the calendar date from t in t's own location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses an ISO-8601 date (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Weekday returns the day of the week for the date.
func (d Date) Weekday() time.Weekday {
	return d.time().Weekday()
}

// AddDays returns the date n calendar days after d. Negative n moves backwards.
func (d Date) AddDays(n int) Date {
	return DateOf(d.time().AddDate(0, 0, n))
}

// Before reports whether d is chronologically before other.
func (d Date) Before(other Date) bool {
	return d.time().Before(other.time())
}

// After reports whether d is chronologically after other.
func (d Date) After(other Date) bool {
	return d.time().After(other.time())
}

// IsZero reports whether d is the zero value.
func (d Date) IsZero() bool {
	return d == Date{}
}

// String formats the date as ISO-8601 (2006-01-02).
func (d Date) String() string {
	return d.time().Format("2006-01-02")
}

// MarshalJSON encodes the date as an ISO-8601 string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes an ISO-8601 date string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// time maps the date to midnight UTC, which is sufficient for weekday and
// ordering arithmetic. The UTC anchor is an implementation detail and never
// leaks out of this package.
func (d Date) time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}
