package engine

import (
	"context"
	"errors"
	"net/http"

	"github.com/polisai/primecore/pkg/domain"
)

// StatusClientClosedRequest is answered when the caller cancelled the call
// before it finished. It is the de facto 499 used by nginx; net/http has no
// constant for it.
const StatusClientClosedRequest = 499

// StatusCode maps an operation error to the HTTP status class a transport
// should answer with. Input-domain errors are client errors, deadline
// errors are gateway timeouts, caller cancellation is 499 and everything
// else is a server error.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case domain.IsInputError(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse builds the machine-readable error body for err.
func ErrorResponse(err error, callID string) domain.ErrorResponse {
	return domain.ErrorResponse{
		Code:    domain.ErrorCode(err),
		Message: err.Error(),
		CallID:  callID,
	}
}
