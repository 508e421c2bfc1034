package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finclear/settlement-engine/pkg/models"
)

type auditTrailResponse struct {
	TradeID string               `json:"trade_id"`
	Records []models.AuditRecord `json:"records"`
}

// GetAuditTrail handles GET /api/v1/audit/:trade_id. Records are returned
// in invocation order for the trade id; an unknown trade id yields an empty
// list, not an error, because an empty trail is a valid reconstruction
// result.
func (h *Handler) GetAuditTrail(c *gin.Context) {
	tradeID := c.Param("trade_id")
	records := h.trail.ByTradeID(tradeID)
	if records == nil {
		records = []models.AuditRecord{}
	}
	c.JSON(http.StatusOK, auditTrailResponse{TradeID: tradeID, Records: records})
}
