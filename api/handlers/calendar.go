package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	commonerrors "github.com/finclear/settlement-engine/common/errors"
	"github.com/finclear/settlement-engine/internal/calendar"
	"github.com/finclear/settlement-engine/pkg/models"
)

// registerCalendarRequest is the calendar-feed administration input.
// Jurisdiction keys are timezone identifiers (e.g. "America/New_York"), so
// they travel in the body rather than the path.
type registerCalendarRequest struct {
	Jurisdiction string   `json:"jurisdiction" binding:"required"`
	Holidays     []string `json:"holidays"`
	WeekendDays  []string `json:"weekend_days"`
}

// RegisterCalendar handles PUT /api/v1/calendars: atomic replace of a
// jurisdiction's calendar.
func (h *Handler) RegisterCalendar(c *gin.Context) {
	var req registerCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		commonerrors.Respond(c, commonerrors.NewValidationProblem(err.Error(), c.Request.URL.Path))
		return
	}

	holidays := make([]models.Date, 0, len(req.Holidays))
	for _, raw := range req.Holidays {
		d, err := models.ParseDate(raw)
		if err != nil {
			commonerrors.Respond(c, commonerrors.NewValidationProblem(err.Error(), c.Request.URL.Path))
			return
		}
		holidays = append(holidays, d)
	}

	weekend := make([]time.Weekday, 0, len(req.WeekendDays))
	for _, raw := range req.WeekendDays {
		w, err := parseWeekday(raw)
		if err != nil {
			commonerrors.Respond(c, commonerrors.NewValidationProblem(err.Error(), c.Request.URL.Path))
			return
		}
		weekend = append(weekend, w)
	}

	cal := calendar.New(req.Jurisdiction, holidays, weekend)
	if err := h.registry.Register(req.Jurisdiction, cal); err != nil {
		commonerrors.Respond(c, commonerrors.NewValidationProblem(err.Error(), c.Request.URL.Path))
		return
	}
	c.Status(http.StatusNoContent)
}

// GetCalendar handles GET /api/v1/calendars?jurisdiction=... and returns the
// snapshot served for the jurisdiction, including the fallback flag for
// unregistered keys.
func (h *Handler) GetCalendar(c *gin.Context) {
	jurisdiction := c.Query("jurisdiction")
	if jurisdiction == "" {
		commonerrors.Respond(c, commonerrors.NewValidationProblem(
			"jurisdiction query parameter is required", c.Request.URL.Path))
		return
	}
	c.JSON(http.StatusOK, h.registry.Snapshot(jurisdiction))
}

// ListCalendars handles GET /api/v1/calendars/keys.
func (h *Handler) ListCalendars(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"jurisdictions": h.registry.Jurisdictions()})
}
