package api

import (
	"errors"
	"fmt"
	"strings"
)

// Kind categorizes a failed client operation
type Kind string

const (
	// KindValidation indicates input rejected before any network call
	KindValidation Kind = "validation"

	// KindTransport indicates a non-2xx status or a network failure
	KindTransport Kind = "transport"

	// KindApplication indicates a success:false payload from the server
	KindApplication Kind = "application"
)

// Error is the error form of a failed Result
type Error struct {
	// Kind categorizes the error
	Kind Kind `json:"kind"`

	// Message is what the user is shown
	Message string `json:"message"`

	// Endpoint is the path that was called, if any
	Endpoint string `json:"endpoint,omitempty"`

	// StatusCode for HTTP-related errors
	StatusCode int `json:"status_code,omitempty"`

	// Cause is the underlying error, if any
	Cause error `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	parts := []string{fmt.Sprintf("type=%s", e.Kind)}

	if e.Endpoint != "" {
		parts = append(parts, fmt.Sprintf("endpoint=%s", e.Endpoint))
	}
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}

	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is checks by kind
var (
	ErrValidation  = &Error{Kind: KindValidation}
	ErrTransport   = &Error{Kind: KindTransport}
	ErrApplication = &Error{Kind: KindApplication}
)

// NewValidationError creates a validation error
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewStatusError creates a transport error for a non-2xx response
func NewStatusError(endpoint string, status int) *Error {
	return &Error{
		Kind:       KindTransport,
		Message:    fmt.Sprintf("Server responded with status: %d", status),
		Endpoint:   endpoint,
		StatusCode: status,
	}
}

// NewNetworkError creates a transport error for a request that never got a response
func NewNetworkError(endpoint string, cause error) *Error {
	return &Error{
		Kind:     KindTransport,
		Message:  cause.Error(),
		Endpoint: endpoint,
		Cause:    cause,
	}
}

// NewApplicationError creates an error from a success:false payload
func NewApplicationError(endpoint, message string) *Error {
	if message == "" {
		message = "Unknown error occurred"
	}
	return &Error{Kind: KindApplication, Message: message, Endpoint: endpoint}
}

// KindOf returns the kind of err, or "" when err is not an *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
