// Package models defines the shared value types of the settlement engine.
// Everything here is an immutable value: constructed once, safe to share
// across goroutines, never mutated in place.
package models

import "time"

// ResolutionMethod records how a local execution time was mapped to an
// absolute instant, or that the calculation ran on the degraded fallback
// calendar. Exactly one method is recorded per calculation; a calendar
// fallback dominates any DST tag because it is the signal the downstream
// reconciliation workflow keys on.
type ResolutionMethod string

const (
	// ResolutionNormal marks an unambiguous, existent local time.
	ResolutionNormal ResolutionMethod = "NORMAL"
	// ResolutionDSTAdvanced marks a non-existent local time (spring-forward
	// gap) advanced forward by the size of the gap.
	ResolutionDSTAdvanced ResolutionMethod = "DST_ADVANCED"
	// ResolutionDSTAmbiguousEarly marks an ambiguous local time (fall-back
	// overlap) resolved to its first chronological occurrence.
	ResolutionDSTAmbiguousEarly ResolutionMethod = "DST_AMBIGUOUS_EARLY"
	// ResolutionCalendarFallback marks a calculation that ran on the
	// weekend-only fallback calendar because no calendar was registered for
	// the settlement jurisdiction.
	ResolutionCalendarFallback ResolutionMethod = "CALENDAR_FALLBACK"
)

// TimeInstant is the canonical representation of a trade execution time: an
// absolute UTC instant plus the zone identifiers needed to reproduce the
// execution-side and settlement-side local views. The zone identifiers are
// metadata for local-view derivation only; they never re-interpret the
// instant itself.
type TimeInstant struct {
	Instant            time.Time `json:"instant"`
	ExecutionTimezone  string    `json:"execution_timezone"`
	SettlementTimezone string    `json:"settlement_timezone"`
}

// NewTimeInstant builds a TimeInstant, normalizing the instant to UTC.
func NewTimeInstant(instant time.Time, executionTZ, settlementTZ string) TimeInstant {
	return TimeInstant{
		Instant:            instant.UTC(),
		ExecutionTimezone:  executionTZ,
		SettlementTimezone: settlementTZ,
	}
}

// SettlementRequest carries one settlement-date calculation. It is transient
// and never persisted.
type SettlementRequest struct {
	TradeID        string      `json:"trade_id"`
	TimeInstant    TimeInstant `json:"time_instant"`
	SettlementDays int         `json:"settlement_days"`
	// Resolution carries the DST resolution method determined when the
	// TimeInstant was constructed from a local wall-clock time.
	Resolution ResolutionMethod `json:"resolution"`
}

// SettlementResult is the outcome of a settlement-date calculation.
type SettlementResult struct {
	SettlementDate Date             `json:"settlement_date"`
	AuditRecordID  string           `json:"audit_record_id"`
	Resolution     ResolutionMethod `json:"resolution_method"`
}

// AuditRecord is one immutable entry in the regulatory audit trail. Records
// are append-only: once written they are never modified or deleted.
type AuditRecord struct {
	RecordID       string           `json:"record_id"`
	TradeID        string           `json:"trade_id"`
	SourceInstant  time.Time        `json:"source_instant"`
	SourceTimezone string           `json:"source_timezone"`
	ResultDate     Date             `json:"result_date"`
	TargetTimezone string           `json:"target_timezone"`
	Resolution     ResolutionMethod `json:"resolution_method"`
	CalculatedAt   time.Time        `json:"calculated_at"`
}

// CalendarSnapshot is a serializable, read-only view of a registered
// business calendar.
type CalendarSnapshot struct {
	JurisdictionKey string         `json:"jurisdiction_key"`
	Holidays        []Date         `json:"holidays"`
	WeekendDays     []time.Weekday `json:"weekend_days"`
	// Fallback is true when the snapshot describes the weekend-only default
	// served for an unregistered jurisdiction.
	Fallback bool `json:"fallback"`
}
