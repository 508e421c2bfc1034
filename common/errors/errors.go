// Package errors defines the settlement engine's error taxonomy. The only
// caller-visible failure on the calculation path is an invalid timezone
// identifier; every other condition is absorbed into a deterministic result
// plus an audit annotation.
package errors

import "fmt"

// InvalidTimezoneError is returned when a timezone identifier does not
// resolve to a known IANA zone database entry. It is fatal to the request
// and is raised before any computation.
type InvalidTimezoneError struct {
	Zone string
	Err  error
}

func (e *InvalidTimezoneError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid timezone %q: %v", e.Zone, e.Err)
	}
	return fmt.Sprintf("invalid timezone %q", e.Zone)
}

func (e *InvalidTimezoneError) Unwrap() error { return e.Err }

// NewInvalidTimezone wraps a zone-database lookup failure.
func NewInvalidTimezone(zone string, err error) *InvalidTimezoneError {
	return &InvalidTimezoneError{Zone: zone, Err: err}
}
