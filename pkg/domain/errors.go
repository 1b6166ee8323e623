package domain

import (
	"context"
	"errors"
	"fmt"
)

// Error kinds raised before any algorithmic work begins.
var (
	ErrNotIntegral      = errors.New("value is not integral")
	ErrOutOfRange       = errors.New("value outside unsigned 64-bit range")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Errors raised by the engine around the core.
var (
	ErrUnresolved       = errors.New("composite remainder could not be split")
	ErrDeadlineExceeded = errors.New("operation deadline exceeded")
)

// ValidationError wraps an input-domain error kind with the offending
// parameter.
type ValidationError struct {
	Param  string
	Value  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Param, e.Err)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got %s)", e.Value)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewParameterError builds an ErrInvalidParameter validation error.
func NewParameterError(param string, value any, reason string) error {
	return &ValidationError{
		Param:  param,
		Value:  fmt.Sprint(value),
		Reason: reason,
		Err:    ErrInvalidParameter,
	}
}

// IsInputError reports whether err is one of the input-domain error kinds.
// Callers map these to their client-error class.
func IsInputError(err error) bool {
	return errors.Is(err, ErrNotIntegral) ||
		errors.Is(err, ErrOutOfRange) ||
		errors.Is(err, ErrInvalidParameter)
}

// ErrorCode returns a stable machine-readable code for err.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotIntegral):
		return "NOT_INTEGRAL"
	case errors.Is(err, ErrOutOfRange):
		return "OUT_OF_RANGE"
	case errors.Is(err, ErrInvalidParameter):
		return "INVALID_PARAMETER"
	case errors.Is(err, ErrUnresolved):
		return "UNRESOLVED"
	case errors.Is(err, ErrDeadlineExceeded):
		return "DEADLINE_EXCEEDED"
	case errors.Is(err, context.Canceled):
		return "CANCELED"
	default:
		return "INTERNAL"
	}
}

// ErrorResponse is the machine-readable error model emitted by front ends.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	CallID  string `json:"call_id,omitempty"`
}
