package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	commonerrors "github.com/finclear/settlement-engine/common/errors"
	"github.com/finclear/settlement-engine/internal/timezone"
)

type convertResponse struct {
	Instant        string  `json:"instant"`
	Timezone       string  `json:"timezone"`
	LocalTime      string  `json:"local_time"`
	ZoneName       string  `json:"zone_name"`
	UTCOffsetHours float64 `json:"utc_offset_hours"`
}

// ConvertTime handles GET /api/v1/convert?instant=<RFC3339>&timezone=<zone>.
// It is the pure conversion utility: no audit record is written.
func (h *Handler) ConvertTime(c *gin.Context) {
	rawInstant := c.Query("instant")
	zone := c.Query("timezone")
	if rawInstant == "" || zone == "" {
		commonerrors.Respond(c, commonerrors.NewValidationProblem(
			"instant and timezone query parameters are required", c.Request.URL.Path))
		return
	}

	instant, err := time.Parse(time.RFC3339, rawInstant)
	if err != nil {
		commonerrors.Respond(c, commonerrors.NewValidationProblem(
			"instant must be RFC 3339", c.Request.URL.Path))
		return
	}

	local, err := timezone.ToLocal(instant, zone)
	if err != nil {
		var invalid *commonerrors.InvalidTimezoneError
		if errors.As(err, &invalid) {
			commonerrors.Respond(c, commonerrors.NewInvalidTimezoneProblem(err.Error(), c.Request.URL.Path))
			return
		}
		commonerrors.Respond(c, commonerrors.NewInternalProblem(err.Error(), c.Request.URL.Path))
		return
	}

	name, offset := local.Zone()
	c.JSON(http.StatusOK, convertResponse{
		Instant:        instant.UTC().Format(time.RFC3339),
		Timezone:       zone,
		LocalTime:      local.Format(time.RFC3339),
		ZoneName:       name,
		UTCOffsetHours: float64(offset) / 3600,
	})
}
