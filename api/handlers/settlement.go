package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	commonerrors "github.com/finclear/settlement-engine/common/errors"
	"github.com/finclear/settlement-engine/internal/timezone"
	"github.com/finclear/settlement-engine/pkg/models"
)

// calculateRequest is the trade-capture input for one settlement-date
// calculation. LocalExecutionTime carries no offset: it is the wall-clock
// reading in the execution timezone.
type calculateRequest struct {
	TradeID            string `json:"trade_id" binding:"required"`
	LocalExecutionTime string `json:"local_execution_time" binding:"required"`
	ExecutionTimezone  string `json:"execution_timezone" binding:"required"`
	SettlementTimezone string `json:"settlement_timezone" binding:"required"`
	SettlementDays     *int   `json:"settlement_days" binding:"required"`
}

type calculateResponse struct {
	TradeID          string                  `json:"trade_id"`
	SettlementDate   models.Date             `json:"settlement_date"`
	AuditRecordID    string                  `json:"audit_record_id"`
	ResolutionMethod models.ResolutionMethod `json:"resolution_method"`
}

const localTimeLayout = "2006-01-02T15:04:05"

// CalculateSettlement handles POST /api/v1/settlements.
func (h *Handler) CalculateSettlement(c *gin.Context) {
	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		commonerrors.Respond(c, commonerrors.NewValidationProblem(err.Error(), c.Request.URL.Path))
		return
	}
	if *req.SettlementDays < 0 {
		commonerrors.Respond(c, commonerrors.NewValidationProblem(
			"settlement_days must be non-negative", c.Request.URL.Path))
		return
	}

	wall, err := time.Parse(localTimeLayout, req.LocalExecutionTime)
	if err != nil {
		commonerrors.Respond(c, commonerrors.NewValidationProblem(
			"local_execution_time must be formatted as 2006-01-02T15:04:05", c.Request.URL.Path))
		return
	}

	result, err := h.calculator.CalculateFromLocal(c.Request.Context(),
		req.TradeID, wall, req.ExecutionTimezone, req.SettlementTimezone, *req.SettlementDays)
	if err != nil {
		var invalid *commonerrors.InvalidTimezoneError
		if errors.As(err, &invalid) {
			commonerrors.Respond(c, commonerrors.NewInvalidTimezoneProblem(err.Error(), c.Request.URL.Path))
			return
		}
		commonerrors.Respond(c, commonerrors.NewInternalProblem(err.Error(), c.Request.URL.Path))
		return
	}

	c.JSON(http.StatusOK, calculateResponse{
		TradeID:          req.TradeID,
		SettlementDate:   result.SettlementDate,
		AuditRecordID:    result.AuditRecordID,
		ResolutionMethod: result.Resolution,
	})
}

type tradeSummaryResponse struct {
	TradeID                 string      `json:"trade_id"`
	UTCTimestamp            string      `json:"utc_timestamp"`
	ExecutionLocalTime      string      `json:"execution_local_time"`
	SettlementLocalTime     string      `json:"settlement_local_time"`
	ExecutionTimezone       string      `json:"execution_timezone"`
	SettlementTimezone      string      `json:"settlement_timezone"`
	SettlementDate          models.Date `json:"settlement_date"`
	UTCOffsetExecutionHours float64     `json:"utc_offset_execution"`
	UTCOffsetSettlementHour float64     `json:"utc_offset_settlement"`
}

// TradeSummary handles GET /api/v1/settlements/:trade_id/summary. The view
// is reconstructed from the latest audit record for the trade.
func (h *Handler) TradeSummary(c *gin.Context) {
	tradeID := c.Param("trade_id")
	records := h.trail.ByTradeID(tradeID)
	if len(records) == 0 {
		commonerrors.Respond(c, commonerrors.NewNotFoundProblem(
			"no calculations recorded for trade "+tradeID, c.Request.URL.Path))
		return
	}
	latest := records[len(records)-1]

	execLocal, err := timezone.ToLocal(latest.SourceInstant, latest.SourceTimezone)
	if err != nil {
		commonerrors.Respond(c, commonerrors.NewInternalProblem(err.Error(), c.Request.URL.Path))
		return
	}
	settleLocal, err := timezone.ToLocal(latest.SourceInstant, latest.TargetTimezone)
	if err != nil {
		commonerrors.Respond(c, commonerrors.NewInternalProblem(err.Error(), c.Request.URL.Path))
		return
	}

	_, execOffset := execLocal.Zone()
	_, settleOffset := settleLocal.Zone()

	c.JSON(http.StatusOK, tradeSummaryResponse{
		TradeID:                 tradeID,
		UTCTimestamp:            latest.SourceInstant.Format(time.RFC3339),
		ExecutionLocalTime:      execLocal.Format(time.RFC3339),
		SettlementLocalTime:     settleLocal.Format(time.RFC3339),
		ExecutionTimezone:       latest.SourceTimezone,
		SettlementTimezone:      latest.TargetTimezone,
		SettlementDate:          latest.ResultDate,
		UTCOffsetExecutionHours: float64(execOffset) / 3600,
		UTCOffsetSettlementHour: float64(settleOffset) / 3600,
	})
}
