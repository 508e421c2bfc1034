package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ProblemDetails implements RFC 7807 problem responses for the HTTP layer.
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func (p *ProblemDetails) Error() string {
	return p.Title + ": " + p.Detail
}

// Problem type URIs for the engine's error taxonomy.
const (
	TypeValidation      = "https://finclear.dev/problems/validation-error"
	TypeInvalidTimezone = "https://finclear.dev/problems/invalid-timezone"
	TypeNotFound        = "https://finclear.dev/problems/not-found"
	TypeInternal        = "https://finclear.dev/problems/internal-error"
)

// NewValidationProblem describes a malformed or unprocessable request.
func NewValidationProblem(detail, instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:     TypeValidation,
		Title:    "Request validation failed",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: instance,
	}
}

// NewInvalidTimezoneProblem describes an unresolvable timezone identifier.
func NewInvalidTimezoneProblem(detail, instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:     TypeInvalidTimezone,
		Title:    "Invalid timezone identifier",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: instance,
	}
}

// NewNotFoundProblem describes a missing resource.
func NewNotFoundProblem(detail, instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:     TypeNotFound,
		Title:    "Resource not found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: instance,
	}
}

// NewInternalProblem describes an unexpected server-side failure.
func NewInternalProblem(detail, instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:     TypeInternal,
		Title:    "Internal server error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: instance,
	}
}

// Respond writes an RFC 7807 compliant response.
func Respond(c *gin.Context, p *ProblemDetails) {
	c.Header("Content-Type", "application/problem+json")
	c.JSON(p.Status, p)
}
