package apierr

import (
	"errors"
	"fmt"
	"strings"
)

// NetworkError covers timeouts and unreachable hosts. The request never got a
// usable HTTP response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError represents a non-2xx response from the server.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

// NewHTTPError creates a new HTTPError with the given status and message.
func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

// ParseError means the response body did not match the expected shape.
type ParseError struct {
	Resource string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unexpected %s response shape: %v", e.Resource, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FieldError is a single client-side schema violation.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates schema violations for one payload. It is
// resolved locally at the form layer and never reaches the network client.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FieldMessage returns the message for a field, or "" if the field passed.
func (e *ValidationError) FieldMessage(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// UserMessage picks the best message to surface in a notification: the
// server-provided message when there is one, otherwise a generic fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return "Network request failed. Check your connection and try again."
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
