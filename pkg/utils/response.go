// en pkg/utils/response.go
package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	shared "github.com/davicafu/agrofarm/internal/shared/domain"
)

// ErrorResponse define la estructura estándar para las respuestas de error.
type ErrorResponse struct {
	Kind       shared.Kind        `json:"kind"`
	Message    string             `json:"message"`
	Violations []shared.Violation `json:"violations,omitempty"`
}

// SendError envía una respuesta de error con un formato estandarizado.
func SendError(c *gin.Context, statusCode int, body ErrorResponse) {
	c.AbortWithStatusJSON(statusCode, gin.H{
		"error": body,
	})
}

// StatusFor traduce la clasificación de un error a su código HTTP.
func StatusFor(kind shared.Kind) int {
	switch kind {
	case shared.KindValidation:
		return http.StatusBadRequest
	case shared.KindNotFound:
		return http.StatusNotFound
	case shared.KindForbidden:
		return http.StatusForbidden
	case shared.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// SendDomainError responde con el estado que corresponde a err.
// Los Unexpected nunca exponen el detalle interno.
func SendDomainError(c *gin.Context, err error) {
	kind := shared.KindOf(err)
	if kind == "" {
		kind = shared.KindUnexpected
	}

	body := ErrorResponse{Kind: kind, Message: messageFor(kind)}
	var dErr *shared.Error
	if kind != shared.KindUnexpected && errors.As(err, &dErr) {
		body.Violations = dErr.Violations
		if len(dErr.Violations) == 1 {
			body.Message = dErr.Violations[0].Message
		}
	}
	SendError(c, StatusFor(kind), body)
}

func messageFor(kind shared.Kind) string {
	switch kind {
	case shared.KindValidation:
		return "One or more validation errors occurred."
	case shared.KindNotFound:
		return "Resource not found."
	case shared.KindForbidden:
		return "Operation not allowed."
	case shared.KindConflict:
		return "The resource was modified by another request."
	default:
		return "An unexpected error occurred."
	}
}

// --- Helpers específicos para errores comunes ---

func SendBadRequest(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, ErrorResponse{Kind: shared.KindValidation, Message: message})
}

func SendUnauthorized(c *gin.Context, message string) {
	SendError(c, http.StatusUnauthorized, ErrorResponse{Kind: "UNAUTHORIZED", Message: message})
}
