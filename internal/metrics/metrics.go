// Package metrics exposes the engine's Prometheus instruments. All metrics
// are registered on the default registry and served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CalculationsTotal counts settlement-date calculations by resolution
	// method.
	CalculationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "settlement",
		Name:      "calculations_total",
		Help:      "Settlement date calculations by resolution method.",
	}, []string{"resolution_method"})

	// CalendarFallbacksTotal counts calculations served by the weekend-only
	// fallback calendar.
	CalendarFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "settlement",
		Name:      "calendar_fallbacks_total",
		Help:      "Calculations that used the fallback calendar for an unregistered jurisdiction.",
	})

	// RegisteredCalendars tracks the number of registered jurisdiction
	// calendars.
	RegisteredCalendars = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "settlement",
		Name:      "registered_calendars",
		Help:      "Currently registered jurisdiction calendars.",
	})

	// BusinessDayCacheHits counts memoized business-day lookups served from
	// cache.
	BusinessDayCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "settlement",
		Subsystem: "calendar",
		Name:      "business_day_cache_hits_total",
		Help:      "Business-day lookups answered from the memo cache.",
	})

	// BusinessDayCacheMisses counts memoized business-day lookups that had
	// to be computed.
	BusinessDayCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "settlement",
		Subsystem: "calendar",
		Name:      "business_day_cache_misses_total",
		Help:      "Business-day lookups computed from the calendar definition.",
	})

	// AuditPersistedTotal counts audit records durably persisted by the
	// async sink.
	AuditPersistedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "settlement",
		Subsystem: "audit",
		Name:      "persisted_total",
		Help:      "Audit records durably persisted.",
	})

	// AuditRetriesTotal counts retried audit persistence attempts.
	AuditRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "settlement",
		Subsystem: "audit",
		Name:      "retries_total",
		Help:      "Retried audit persistence attempts.",
	})

	// AuditAlertsTotal counts audit writes that exhausted retries and were
	// surfaced on the alert channel.
	AuditAlertsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "settlement",
		Subsystem: "audit",
		Name:      "alerts_total",
		Help:      "Audit persistence failures surfaced as operational alerts.",
	})
)
