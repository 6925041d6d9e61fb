package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error is a gateway-specific error with a machine-readable code.
// Details carries the processor's error body verbatim when a call was
// rejected upstream, so callers can diagnose failures without the gateway
// re-interpreting them.
type Error struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`

	// Issue is the processor's machine-readable issue code extracted from
	// the error body, when one was present. Empty otherwise.
	Issue string `json:"issue,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Common error codes
const (
	ErrCodeAuthConfig      = "auth_config"
	ErrCodeUpstreamAuth    = "upstream_auth"
	ErrCodeUpstreamOrder   = "upstream_order"
	ErrCodeUpstreamCapture = "upstream_capture"
	ErrCodeValidation      = "validation"
)

// IssueOrderAlreadyCaptured is the processor issue code for a capture
// attempt against an order that has already been captured. It is the only
// failure the gateway reclassifies as success.
const IssueOrderAlreadyCaptured = "ORDER_ALREADY_CAPTURED"

// NewError creates a new gateway error.
func NewError(code, message string, details json.RawMessage) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewUpstreamError creates an upstream error carrying the processor's
// response body and extracted issue code.
func NewUpstreamError(code, message string, body json.RawMessage, issue string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: body,
		Issue:   issue,
	}
}

// HasCode reports whether err is a gateway Error with the given code.
func HasCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// AlreadyCaptured reports whether err is an upstream capture rejection with
// the already-captured issue code.
func AlreadyCaptured(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Issue == IssueOrderAlreadyCaptured
}
