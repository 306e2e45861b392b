// Standard response envelope shared by all endpoints. Every error response
// carries the correlation id, a stable machine-readable code and a
// human-readable message; 5xx responses are logged with request context.

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutrilog/nutrilog/internal/http/middleware"
)

// Error codes returned in the error envelope.
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// RequestID correlates server logs and client errors.
	RequestID string `json:"request_id,omitempty"`
	// Code is a stable, machine-readable string.
	Code string `json:"code"`
	// Message is human-readable and safe to show.
	Message string `json:"message"`
}

// Fail aborts the request with a structured error and logs server-side
// errors with the request-scoped logger.
func Fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	}
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, resp)
}
