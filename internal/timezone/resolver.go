// Package timezone maps local wall-clock times to absolute UTC instants and
// back. The two DST edge cases are resolved by an explicit policy returning
// a tagged result: non-existent local times are advanced forward by the size
// of the spring-forward gap, and ambiguous local times deterministically
// resolve to their first chronological occurrence. Neither case is an error.
package timezone

import (
	"sort"
	"time"

	commonerrors "github.com/finclear/settlement-engine/common/errors"
	"github.com/finclear/settlement-engine/pkg/models"
)

// LoadZone resolves a timezone identifier against the IANA zone database.
// An empty or unknown identifier fails with *errors.InvalidTimezoneError;
// the literal "UTC" and "Local" shortcuts of time.LoadLocation are accepted.
func LoadZone(zoneID string) (*time.Location, error) {
	if zoneID == "" {
		return nil, commonerrors.NewInvalidTimezone(zoneID, nil)
	}
	loc, err := time.LoadLocation(zoneID)
	if err != nil {
		return nil, commonerrors.NewInvalidTimezone(zoneID, err)
	}
	return loc, nil
}

// FromLocal interprets the wall-clock fields of local (year through
// nanosecond; its own location is ignored) in the given zone and returns the
// corresponding UTC instant together with the resolution method applied.
//
// The resolution is a pure function of the wall-clock fields and the zone
// data, so repeated calls with identical input always produce the identical
// instant.
func FromLocal(local time.Time, zoneID string) (time.Time, models.ResolutionMethod, error) {
	loc, err := LoadZone(zoneID)
	if err != nil {
		return time.Time{}, "", err
	}

	year, month, day := local.Date()
	hour, min, sec := local.Clock()
	nsec := local.Nanosecond()

	// Read the wall-clock fields as if they were UTC; candidate instants are
	// derived from this anchor by subtracting each plausible zone offset.
	anchor := time.Date(year, month, day, hour, min, sec, nsec, time.UTC)

	var candidates []time.Time
	for _, offset := range candidateOffsets(anchor, loc) {
		cand := anchor.Add(-time.Duration(offset) * time.Second)
		if sameWall(cand.In(loc), anchor) {
			candidates = append(candidates, cand)
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Before(candidates[j]) })

	switch len(candidates) {
	case 1:
		return candidates[0], models.ResolutionNormal, nil
	case 0:
		return resolveGap(anchor, loc), models.ResolutionDSTAdvanced, nil
	default:
		// Fall-back overlap: the chronologically earliest candidate is the
		// first occurrence, i.e. the pre-transition offset.
		return candidates[0], models.ResolutionDSTAmbiguousEarly, nil
	}
}

// ToLocal derives the local view of an absolute instant. The conversion is
// pure and exact: ToLocal(FromLocal(t, z), z) == t for any existent,
// unambiguous local time t.
func ToLocal(instant time.Time, zoneID string) (time.Time, error) {
	loc, err := LoadZone(zoneID)
	if err != nil {
		return time.Time{}, err
	}
	return instant.In(loc), nil
}

// resolveGap handles a wall-clock time skipped by a spring-forward
// transition. Interpreting the wall time at the pre-transition offset lands
// just past the transition, which is exactly the wall time advanced by the
// size of the gap. The pre-transition offset is identifiable without knowing
// the transition instant: it is the assumed offset whose derived instant
// observes a larger actual offset.
func resolveGap(anchor time.Time, loc *time.Location) time.Time {
	var resolved time.Time
	for _, assumed := range candidateOffsets(anchor, loc) {
		cand := anchor.Add(-time.Duration(assumed) * time.Second)
		_, actual := cand.In(loc).Zone()
		if actual > assumed && (resolved.IsZero() || cand.Before(resolved)) {
			resolved = cand
		}
	}
	if resolved.IsZero() {
		// Unreachable for real zone data; normalize via the standard library
		// rather than fail a calculation.
		year, month, day := anchor.Date()
		hour, min, sec := anchor.Clock()
		resolved = time.Date(year, month, day, hour, min, sec, anchor.Nanosecond(), loc).UTC()
	}
	return resolved
}

// candidateOffsets samples the zone's UTC offsets in a window around the
// anchor. Real offsets span -12h..+14h and DST regimes last months, so
// probing one day either side of the anchor captures every offset that can
// apply to the wall time.
func candidateOffsets(anchor time.Time, loc *time.Location) []int {
	probes := []time.Duration{-30 * time.Hour, -6 * time.Hour, 0, 6 * time.Hour, 30 * time.Hour}
	seen := make(map[int]struct{}, len(probes))
	var offsets []int
	for _, p := range probes {
		_, offset := anchor.Add(p).In(loc).Zone()
		if _, ok := seen[offset]; !ok {
			seen[offset] = struct{}{}
			offsets = append(offsets, offset)
		}
	}
	return offsets
}

// sameWall reports whether two times carry identical wall-clock fields,
// regardless of location.
func sameWall(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ah, amin, as := a.Clock()
	bh, bmin, bs := b.Clock()
	return ay == by && am == bm && ad == bd &&
		ah == bh && amin == bmin && as == bs &&
		a.Nanosecond() == b.Nanosecond()
}
