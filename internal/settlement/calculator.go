// Package settlement computes cross-timezone settlement dates. The
// calculator is a pure function of its inputs plus the current calendar
// registry state, with a single side effect: every calculation appends one
// audit record. It is safe to call from any number of goroutines.
package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finclear/settlement-engine/internal/calendar"
	"github.com/finclear/settlement-engine/internal/metrics"
	"github.com/finclear/settlement-engine/internal/timezone"
	"github.com/finclear/settlement-engine/pkg/models"
)

// Calculator orchestrates DST resolution, calendar lookup, and business-day
// arithmetic into a settlement date.
type Calculator struct {
	registry *calendar.Registry
	trail    audit
	logger   *zap.Logger
	now      func() time.Time
}

// audit is the minimal surface the calculator needs from the audit trail.
type audit interface {
	Append(record models.AuditRecord)
}

// NewCalculator wires a calculator to its collaborators.
func NewCalculator(registry *calendar.Registry, trail audit, logger *zap.Logger) *Calculator {
	return &Calculator{
		registry: registry,
		trail:    trail,
		logger:   logger.Named("settlement-calculator"),
		now:      time.Now,
	}
}

// CalculateFromLocal is the full trade-capture entry point: it builds the
// TimeInstant from a local execution time (resolving any DST edge case),
// then computes the settlement date. It fails only for an unresolvable
// timezone identifier or negative settlementDays.
func (c *Calculator) CalculateFromLocal(ctx context.Context, tradeID string, localExecutionTime time.Time, executionTZ, settlementTZ string, settlementDays int) (models.SettlementResult, error) {
	// Both identifiers must resolve before any computation.
	if _, err := timezone.LoadZone(settlementTZ); err != nil {
		return models.SettlementResult{}, err
	}
	instant, resolution, err := timezone.FromLocal(localExecutionTime, executionTZ)
	if err != nil {
		return models.SettlementResult{}, err
	}

	return c.Calculate(ctx, models.SettlementRequest{
		TradeID:        tradeID,
		TimeInstant:    models.NewTimeInstant(instant, executionTZ, settlementTZ),
		SettlementDays: settlementDays,
		Resolution:     resolution,
	})
}

// Calculate computes the settlement date for an already-constructed
// TimeInstant. The trade's local date is always derived in the settlement
// jurisdiction, never the execution jurisdiction: where the trade happened
// is decoupled from where and when it settles.
func (c *Calculator) Calculate(ctx context.Context, req models.SettlementRequest) (models.SettlementResult, error) {
	if req.SettlementDays < 0 {
		return models.SettlementResult{}, fmt.Errorf("settlement days must be non-negative, got %d", req.SettlementDays)
	}

	settlementLocal, err := timezone.ToLocal(req.TimeInstant.Instant, req.TimeInstant.SettlementTimezone)
	if err != nil {
		return models.SettlementResult{}, err
	}
	tradeLocalDate := models.DateOf(settlementLocal)

	settlementDate, fallback := c.registry.AddBusinessDays(
		req.TimeInstant.SettlementTimezone, tradeLocalDate, req.SettlementDays)

	resolution := req.Resolution
	if resolution == "" {
		resolution = models.ResolutionNormal
	}
	if fallback {
		resolution = models.ResolutionCalendarFallback
		metrics.CalendarFallbacksTotal.Inc()
	}
	metrics.CalculationsTotal.WithLabelValues(string(resolution)).Inc()

	record := models.AuditRecord{
		RecordID:       uuid.NewString(),
		TradeID:        req.TradeID,
		SourceInstant:  req.TimeInstant.Instant,
		SourceTimezone: req.TimeInstant.ExecutionTimezone,
		ResultDate:     settlementDate,
		TargetTimezone: req.TimeInstant.SettlementTimezone,
		Resolution:     resolution,
		CalculatedAt:   c.now().UTC(),
	}
	c.trail.Append(record)

	c.logger.Debug("settlement date calculated",
		zap.String("trade_id", req.TradeID),
		zap.String("trade_local_date", tradeLocalDate.String()),
		zap.String("settlement_date", settlementDate.String()),
		zap.Int("settlement_days", req.SettlementDays),
		zap.String("resolution_method", string(resolution)))

	return models.SettlementResult{
		SettlementDate: settlementDate,
		AuditRecordID:  record.RecordID,
		Resolution:     resolution,
	}, nil
}
