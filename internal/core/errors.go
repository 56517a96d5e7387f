package core

import (
	"errors"
	"fmt"
)

// User-facing messages for each failure path
const (
	MsgEmptyInput        = "Please enter email content to analyze."
	MsgRequestFailed     = "API request failed"
	MsgServerUnreachable = "Unable to classify email. Ensure API server is running."
	MsgNoResult          = "No classification result returned"
)

// ErrBusy is returned by Submit while a previous submission is still in flight
var ErrBusy = errors.New("a classification request is already in progress")

// ErrNoResults is returned by Present when the response carries no results
var ErrNoResults = errors.New("classification response contains no results")

// ErrorKind categorizes classification failures
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindApplication       ErrorKind = "application"
	KindTransport         ErrorKind = "transport"
	KindMalformedResponse ErrorKind = "malformed_response"
)

// ClassificationError is a failure with a message that is safe to show to the user
type ClassificationError struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Cause      error
}

// Error implements the error interface
func (e *ClassificationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *ClassificationError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates an error for input rejected before any network call
func NewValidationError(message string) *ClassificationError {
	return &ClassificationError{Kind: KindValidation, Message: message}
}

// NewApplicationError creates an error for a non-2xx response.
// An empty detail falls back to MsgRequestFailed.
func NewApplicationError(statusCode int, detail string, cause error) *ClassificationError {
	if detail == "" {
		detail = MsgRequestFailed
	}
	return &ClassificationError{
		Kind:       KindApplication,
		Message:    detail,
		StatusCode: statusCode,
		Cause:      cause,
	}
}

// NewTransportError creates an error for a call that produced no usable response
func NewTransportError(cause error) *ClassificationError {
	return &ClassificationError{
		Kind:    KindTransport,
		Message: MsgServerUnreachable,
		Cause:   cause,
	}
}

// NewMalformedResponseError creates an error for a 2xx response without results
func NewMalformedResponseError(cause error) *ClassificationError {
	return &ClassificationError{
		Kind:    KindMalformedResponse,
		Message: MsgNoResult,
		Cause:   cause,
	}
}

// AsClassificationError normalizes any error into a ClassificationError.
// Errors of unknown origin are treated as transport failures.
func AsClassificationError(err error) *ClassificationError {
	if err == nil {
		return nil
	}
	var ce *ClassificationError
	if errors.As(err, &ce) {
		return ce
	}
	return NewTransportError(err)
}
