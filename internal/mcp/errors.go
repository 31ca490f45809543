package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/attest/internal/domain/fault"
)

var (
	// ErrUnknownMethod is returned for a method name Handle does not dispatch.
	ErrUnknownMethod = errors.New("unknown method")
	ErrInvalidParams = fault.New(fault.ErrInvalidParameter, "invalid params")
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`

	err error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.err
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps issuer error kinds to MCP error codes. Errors outside the
// taxonomy map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch fault.KindOf(err) {
	case fault.ErrUnauthorized:
		return &APIError{Code: "UNAUTHORIZED", Message: err.Error(), RecoveryHint: "Check admin, minter or owner standing", err: err}
	case fault.ErrPaused:
		return &APIError{Code: "PAUSED", Message: err.Error(), RecoveryHint: "Wait for an admin to unpause", err: err}
	case fault.ErrStateConflict:
		return &APIError{Code: "STATE_CONFLICT", Message: err.Error(), RecoveryHint: "Re-read state and retry", err: err}
	case fault.ErrInvalidParameter:
		return &APIError{Code: "INVALID_PARAMETER", Message: err.Error(), RecoveryHint: "Check arguments", err: err}
	default:
		return nil
	}
}
