package calendar

import (
	"fmt"
	"sync"

	"github.com/dgraph-io/ristretto/v2"
	"go.uber.org/zap"

	"github.com/finclear/settlement-engine/internal/metrics"
	"github.com/finclear/settlement-engine/pkg/models"
)

// Registry is the shared jurisdiction-to-calendar store. It is
// multi-reader/single-administrative-writer: Register swaps in a new entry
// (calendar snapshot plus a fresh memo cache) atomically, so a concurrent
// reader observes either the entirely old calendar and cache or the entirely
// new one, never a mix. Memo caches are only touched under the read lock,
// which keeps them alive until every in-flight lookup has finished.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry

	fallback  *Calendar
	cacheSize int64
	logger    *zap.Logger
}

// entry binds one calendar snapshot to its own memo cache. The pair is
// immutable once published; replacing a calendar publishes a whole new entry.
type entry struct {
	cal  *Calendar
	memo *ristretto.Cache[string, bool]
}

const defaultCacheSize = 1 << 14

// NewRegistry creates an empty registry. cacheSize bounds the per-
// jurisdiction business-day memo cache; values <= 0 select the default.
func NewRegistry(cacheSize int64, logger *zap.Logger) *Registry {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	return &Registry{
		entries:   make(map[string]*entry),
		fallback:  Fallback(""),
		cacheSize: cacheSize,
		logger:    logger.Named("calendar-registry"),
	}
}

// Register replaces any existing calendar for the jurisdiction atomically.
// The memoized business-day lookups for that key are invalidated as part of
// the same publication: the new entry carries an empty cache, so no stale
// result can be served afterwards.
func (r *Registry) Register(jurisdiction string, cal *Calendar) error {
	if jurisdiction == "" {
		return fmt.Errorf("jurisdiction key cannot be empty")
	}
	if cal == nil {
		return fmt.Errorf("calendar cannot be nil")
	}

	memo, err := ristretto.NewCache(&ristretto.Config[string, bool]{
		NumCounters: r.cacheSize * 10,
		MaxCost:     r.cacheSize,
		BufferItems: 64,
	})
	if err != nil {
		return fmt.Errorf("create memo cache: %w", err)
	}

	r.mu.Lock()
	previous, replaced := r.entries[jurisdiction]
	r.entries[jurisdiction] = &entry{cal: cal, memo: memo}
	if replaced {
		previous.memo.Close()
	}
	r.mu.Unlock()

	if !replaced {
		metrics.RegisteredCalendars.Inc()
	}

	snap := cal.Snapshot()
	r.logger.Info("registered calendar",
		zap.String("jurisdiction", jurisdiction),
		zap.Int("holidays", len(snap.Holidays)),
		zap.Int("weekend_days", len(snap.WeekendDays)),
		zap.Bool("replaced", replaced))
	return nil
}

// Resolve returns the calendar registered for the jurisdiction, or the
// weekend-only fallback calendar when none is registered. The second return
// value reports fallback (degraded) mode; resolution never blocks or fails.
func (r *Registry) Resolve(jurisdiction string) (*Calendar, bool) {
	r.mu.RLock()
	e := r.entries[jurisdiction]
	r.mu.RUnlock()
	if e != nil {
		return e.cal, false
	}
	return r.fallback, true
}

// IsBusinessDay answers the memoized business-day predicate for
// (jurisdiction, date). Fallback lookups are not memoized: the fallback
// predicate is two map probes and keeping it out of the cache means a late
// Register can never race a stale degraded answer.
func (r *Registry) IsBusinessDay(jurisdiction string, date models.Date) (business, fallback bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e := r.entries[jurisdiction]
	if e == nil {
		return r.fallback.IsBusinessDay(date), true
	}
	return e.isBusinessDay(date), false
}

// AddBusinessDays runs business-day arithmetic against a single consistent
// calendar snapshot, using the memoized predicate. The fallback flag reports
// degraded mode.
func (r *Registry) AddBusinessDays(jurisdiction string, from models.Date, n int) (models.Date, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e := r.entries[jurisdiction]
	if e == nil {
		return r.fallback.AddBusinessDays(from, n), true
	}

	current := from
	for remaining := n; remaining > 0; remaining-- {
		current = current.AddDays(1)
		for !e.isBusinessDay(current) {
			current = current.AddDays(1)
		}
	}
	return current, false
}

// Snapshot returns a read-only view of the jurisdiction's calendar. For an
// unregistered jurisdiction it describes the fallback calendar with the
// Fallback flag set.
func (r *Registry) Snapshot(jurisdiction string) models.CalendarSnapshot {
	cal, fallback := r.Resolve(jurisdiction)
	snap := cal.Snapshot()
	snap.JurisdictionKey = jurisdiction
	snap.Fallback = fallback
	return snap
}

// Jurisdictions lists the registered jurisdiction keys.
func (r *Registry) Jurisdictions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	return keys
}

// Close releases the memo caches. The registry must not be used afterwards.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		e.memo.Close()
	}
	r.entries = make(map[string]*entry)
}

// isBusinessDay consults the entry's memo cache before the calendar
// definition. Admission to the cache is best-effort; correctness never
// depends on a Set being observed. Callers hold the registry read lock.
func (e *entry) isBusinessDay(date models.Date) bool {
	key := date.String()
	if cached, ok := e.memo.Get(key); ok {
		metrics.BusinessDayCacheHits.Inc()
		return cached
	}
	metrics.BusinessDayCacheMisses.Inc()
	business := e.cal.IsBusinessDay(date)
	e.memo.Set(key, business, 1)
	return business
}
