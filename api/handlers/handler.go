// Package handlers contains the HTTP request handlers for the settlement
// engine's public operations: settlement calculation, calendar
// administration, audit trail queries, and the pure time-conversion utility.
package handlers

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/finclear/settlement-engine/internal/audit"
	"github.com/finclear/settlement-engine/internal/calendar"
	"github.com/finclear/settlement-engine/internal/settlement"
)

// Handler bundles the services the HTTP layer exposes.
type Handler struct {
	calculator *settlement.Calculator
	registry   *calendar.Registry
	trail      *audit.Trail
	logger     *zap.Logger
}

// New creates the handler set.
func New(calculator *settlement.Calculator, registry *calendar.Registry, trail *audit.Trail, logger *zap.Logger) *Handler {
	return &Handler{
		calculator: calculator,
		registry:   registry,
		trail:      trail,
		logger:     logger.Named("api"),
	}
}

// parseWeekday maps a day name to time.Weekday.
func parseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d.String() == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}
