package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every specific error below wraps exactly one of these roots,
// so callers can branch with errors.Is(err, domain.ErrNotFound) and friends.
var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidState          = errors.New("invalid state")
	ErrValidation            = errors.New("validation error")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrDownstreamUnavailable = errors.New("downstream unavailable")
)

var (
	// Not found
	ErrTransitionNotFound = fmt.Errorf("workflow transition %w", ErrNotFound)
	ErrTaskNotFound       = fmt.Errorf("task %w", ErrNotFound)
	ErrBoardNotFound      = fmt.Errorf("board %w", ErrNotFound)
	ErrColumnNotFound     = fmt.Errorf("column %w", ErrNotFound)
	ErrClientNotFound     = fmt.Errorf("client %w", ErrNotFound)

	// Invalid state
	ErrTransitionNotPending = fmt.Errorf("%w: only pending transitions may be executed", ErrInvalidState)
	ErrNotAwaitingApproval  = fmt.Errorf("%w: task is not awaiting approval", ErrInvalidState)
	ErrNoDestinationColumn  = fmt.Errorf("%w: no destination column on board", ErrInvalidState)
	ErrDuplicateProvenance  = fmt.Errorf("%w: task already materialized for transition", ErrInvalidState)

	// Validation
	ErrCommentTooShort = fmt.Errorf("%w: comment is too short", ErrValidation)
	ErrInvalidAction   = fmt.Errorf("%w: invalid approval action", ErrValidation)
	ErrUnknownStage    = fmt.Errorf("%w: unknown stage", ErrValidation)
	ErrInvalidPriority = fmt.Errorf("%w: invalid task priority", ErrValidation)
	ErrInvalidStatus   = fmt.Errorf("%w: invalid status", ErrValidation)
	ErrInvalidBoard    = fmt.Errorf("%w: invalid board definition", ErrValidation)
	ErrMissingField    = fmt.Errorf("%w: required field missing", ErrValidation)

	// Downstream
	ErrChannelUnavailable = fmt.Errorf("%w: delivery channel not configured", ErrDownstreamUnavailable)

	// Identity
	ErrInvalidToken     = fmt.Errorf("%w: invalid authentication token", ErrUnauthorized)
	ErrPermissionDenied = fmt.Errorf("%w: permission denied", ErrForbidden)
)

// Unavailable wraps a store or dispatch failure in ErrDownstreamUnavailable,
// keeping the original error in the chain.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrDownstreamUnavailable, err)
}
