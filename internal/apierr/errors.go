// Package apierr defines the error taxonomy shared by every core
// component: a small closed set of kinds, each with a fixed HTTP status,
// so handlers never have to guess how to report a failure.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is one of the error kinds from the gateway's error design.
type Kind string

const (
	// InvalidInput covers malformed block ids, out-of-range queries,
	// unknown query parameters, invalid SS58/hex. Never retried.
	InvalidInput Kind = "invalid_input"

	// NotFound covers a block, extrinsic, or spec version that does
	// not exist. Never retried.
	NotFound Kind = "not_found"

	// FeatureUnavailable covers a pallet missing at this block, a
	// missing runtime API, or an unconfigured relay chain. Lets
	// callers probe feature availability without the request crashing.
	FeatureUnavailable Kind = "feature_unavailable"

	// Upstream covers RPC transport errors, timeouts, and remote
	// methods the node doesn't expose. Not retried automatically
	// inside a request; the caller owns retry policy.
	Upstream Kind = "upstream"

	// Decode covers SCALE or metadata decode failures.
	Decode Kind = "decode"

	// Internal covers invariant violations and arithmetic overflow
	// outside the fee math's saturating rationals.
	Internal Kind = "internal"
)

// httpStatus is the fixed HTTP status for each kind.
var httpStatus = map[Kind]int{
	InvalidInput:       http.StatusBadRequest,
	NotFound:           http.StatusNotFound,
	FeatureUnavailable: http.StatusBadRequest,
	Upstream:           http.StatusServiceUnavailable,
	Decode:             http.StatusInternalServerError,
	Internal:           http.StatusInternalServerError,
}

// Error is the single error type every core package returns. Handlers
// switch on Kind, never on string-matching a message.
type Error struct {
	Kind    Kind
	Message string
	Value   string // the offending input, when relevant (e.g. a bad block id)
	cause   error
}

func (e *Error) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s (value=%q)", e.Kind, e.Message, e.Value)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// HTTPStatus returns the fixed HTTP status code for this error's kind.
func (e *Error) HTTPStatus() int {
	if status, ok := httpStatus[e.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// New builds a bare Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error of the given kind around an underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// WithValue attaches the offending input value to an error for context.
func (e *Error) WithValue(value string) *Error {
	e.Value = value
	return e
}

// Invalid is a convenience constructor for the common "bad user input"
// case, attaching the offending value directly.
func Invalid(message, value string) *Error {
	return &Error{Kind: InvalidInput, Message: message, Value: value}
}

// Is makes errors.Is report a match between two *Error values whose
// Kind is equal. Kind itself is not an error, so callers check an
// error's kind with IsKind instead.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}
