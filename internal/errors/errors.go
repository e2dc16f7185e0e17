// Package errors provides the error types for the answering-service client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrRequestFailed   = errors.New("request failed")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrNoContent       = errors.New("no answer in response")
)

// RequestFailedError is the single failure kind of an ask request. It covers
// transport errors, non-success statuses and unusable response bodies alike.
type RequestFailedError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestFailedError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("request failed [%d] at %s: %s", e.StatusCode, e.Endpoint, msg)
	}
	return fmt.Sprintf("request failed at %s: %s", e.Endpoint, msg)
}

// Unwrap returns the underlying cause
func (e *RequestFailedError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *RequestFailedError) Is(target error) bool {
	if target == ErrRequestFailed {
		return true
	}
	_, ok := target.(*RequestFailedError)
	return ok
}

// NewRequestFailedError creates a RequestFailedError without an HTTP status
func NewRequestFailedError(endpoint, message string, cause error) *RequestFailedError {
	return &RequestFailedError{
		Endpoint: endpoint,
		Message:  message,
		Err:      cause,
	}
}

// NewStatusError creates a RequestFailedError for a non-success HTTP status
func NewStatusError(endpoint string, statusCode int, body string) *RequestFailedError {
	msg := fmt.Sprintf("unexpected status %d", statusCode)
	if body != "" {
		msg = fmt.Sprintf("%s: %s", msg, body)
	}
	return &RequestFailedError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    msg,
	}
}

// IsRequestFailed reports whether err is, or wraps, a RequestFailedError
func IsRequestFailed(err error) bool {
	return errors.Is(err, ErrRequestFailed)
}

// GetHTTPStatus returns the HTTP status carried by err, or 0
func GetHTTPStatus(err error) int {
	var rf *RequestFailedError
	if errors.As(err, &rf) {
		return rf.StatusCode
	}
	return 0
}

// GetEndpoint returns the endpoint carried by err, or ""
func GetEndpoint(err error) string {
	var rf *RequestFailedError
	if errors.As(err, &rf) {
		return rf.Endpoint
	}
	return ""
}
