package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	switch {
	// Not found
	case errors.Is(err, domain.ErrTransitionNotFound):
		return http.StatusNotFound, "TRANSITION_NOT_FOUND", message
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, "TASK_NOT_FOUND", message
	case errors.Is(err, domain.ErrBoardNotFound):
		return http.StatusNotFound, "BOARD_NOT_FOUND", message
	case errors.Is(err, domain.ErrColumnNotFound):
		return http.StatusNotFound, "COLUMN_NOT_FOUND", message
	case errors.Is(err, domain.ErrClientNotFound):
		return http.StatusNotFound, "CLIENT_NOT_FOUND", message

	// Invalid state
	case errors.Is(err, domain.ErrTransitionNotPending):
		return http.StatusConflict, "TRANSITION_NOT_PENDING", message
	case errors.Is(err, domain.ErrNotAwaitingApproval):
		return http.StatusConflict, "NOT_AWAITING_APPROVAL", message
	case errors.Is(err, domain.ErrNoDestinationColumn):
		return http.StatusConflict, "NO_DESTINATION_COLUMN", message
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict, "INVALID_STATE", message

	// Identity
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "INVALID_TOKEN", message
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "INSUFFICIENT_ACCESS", message

	// Validation
	case errors.Is(err, domain.ErrCommentTooShort):
		return http.StatusUnprocessableEntity, "COMMENT_TOO_SHORT", message
	case errors.Is(err, domain.ErrInvalidAction):
		return http.StatusUnprocessableEntity, "INVALID_ACTION", message
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message

	// Downstream
	case errors.Is(err, domain.ErrDownstreamUnavailable):
		slog.Error("downstream unavailable", "error", err)
		return http.StatusServiceUnavailable, "DOWNSTREAM_UNAVAILABLE", "A dependency is temporarily unavailable"

	// Default: internal server error
	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}
