package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorType represents the category of error that occurred during a fetch operation
type ErrorType string

const (
	// ErrorTypeConfig indicates a required setting (the API key) is missing
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeValidation indicates the caller's input was rejected before any request was made
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeNetwork indicates a network-level error (connection refused, DNS, TLS, etc.)
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeTimeout indicates the request timed out
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeClient indicates a client error (HTTP 4xx)
	ErrorTypeClient ErrorType = "client"
	// ErrorTypeServer indicates a server error (HTTP 5xx)
	ErrorTypeServer ErrorType = "server"
	// ErrorTypeDecode indicates the response body was not valid JSON
	ErrorTypeDecode ErrorType = "decode"
	// ErrorTypePersistence indicates the decoded payload could not be written to disk
	ErrorTypePersistence ErrorType = "persistence"
	// ErrorTypeUnexpected indicates a failure outside every category above
	ErrorTypeUnexpected ErrorType = "unexpected"
)

// FetchError represents a structured error from a fetch operation
type FetchError struct {
	Type       ErrorType
	StatusCode int
	Message    string
	// Body holds the raw upstream response text for HTTP errors
	Body  string
	Cause error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s error: %s", e.Type, msg)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// TypeOf returns the ErrorType carried by err, or ErrorTypeUnexpected when err
// is not a *FetchError.
func TypeOf(err error) ErrorType {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Type
	}
	return ErrorTypeUnexpected
}

// NewConfigError creates a configuration error
func NewConfigError(message string) *FetchError {
	return &FetchError{
		Type:    ErrorTypeConfig,
		Message: message,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeValidation,
		Message: message,
		Cause:   cause,
	}
}

// NewNetworkError creates a network error, or a timeout error when cause is a deadline
func NewNetworkError(cause error) *FetchError {
	if isTimeout(cause) {
		return &FetchError{
			Type:    ErrorTypeTimeout,
			Message: "request timed out",
			Cause:   cause,
		}
	}
	return &FetchError{
		Type:    ErrorTypeNetwork,
		Message: "network request failed",
		Cause:   cause,
	}
}

// NewDecodeError creates a decode error
func NewDecodeError(message string) *FetchError {
	return &FetchError{
		Type:    ErrorTypeDecode,
		Message: message,
	}
}

// NewPersistenceError creates a persistence error
func NewPersistenceError(cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypePersistence,
		Message: "failed to write output file",
		Cause:   cause,
	}
}

// NewUnexpectedError creates an error for anything not covered by the other categories
func NewUnexpectedError(detail any) *FetchError {
	return &FetchError{
		Type:    ErrorTypeUnexpected,
		Message: fmt.Sprintf("unexpected failure: %v", detail),
	}
}

// ClassifyHTTPError classifies an HTTP status code and response body into an appropriate FetchError
func ClassifyHTTPError(statusCode int, body string) *FetchError {
	fe := &FetchError{
		StatusCode: statusCode,
		Body:       body,
	}
	switch {
	case statusCode >= 500:
		fe.Type = ErrorTypeServer
		fe.Message = "server returned an error"
	case statusCode >= 400:
		fe.Type = ErrorTypeClient
		fe.Message = fmt.Sprintf("client error: HTTP %d", statusCode)
	default:
		fe.Type = ErrorTypeUnexpected
		fe.Message = fmt.Sprintf("unexpected status code: %d", statusCode)
	}
	return fe
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
