package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
)

// ErrorType categorizes different error types
type ErrorType string

const (
	// Caught before any request is sent
	ErrorTypeValidation ErrorType = "validation"

	// The server answered with an error payload
	ErrorTypeServer       ErrorType = "server"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeNotFound     ErrorType = "not_found"

	// The request went out but nothing came back
	ErrorTypeNetwork ErrorType = "network"
	ErrorTypeTimeout ErrorType = "timeout"

	ErrorTypeUnexpected ErrorType = "unexpected"
)

const (
	// MsgNetwork is shown for every failure without a server response
	MsgNetwork = "Network error. Please check your connection."
	// MsgUnexpected is the fallback for anything that can't be categorized
	MsgUnexpected = "An unexpected error occurred. Please try again."
)

// CLIError represents a structured error with context
type CLIError struct {
	Type       ErrorType
	Message    string
	Cause      error
	Suggestion string
	StatusCode int
	Fields     map[string]string
}

// Error implements the error interface
func (e *CLIError) Error() string {
	return e.Message
}

// WithSuggestion adds a helpful suggestion to the error
func (e *CLIError) WithSuggestion(suggestion string) *CLIError {
	e.Suggestion = suggestion
	return e
}

// HasSuggestion returns true if the error has a suggestion
func (e *CLIError) HasSuggestion() bool {
	return e.Suggestion != ""
}

// Unwrap returns the underlying error
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// NewCLIError creates a new CLI error
func NewCLIError(errorType ErrorType, message string, cause error) *CLIError {
	return &CLIError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// StatusError is implemented by errors that carry an HTTP response from the
// backend (api.APIError).
type StatusError interface {
	error
	HTTPStatus() int
	ServerMessage() string
}

// FieldError is implemented by form validation failures.
type FieldError interface {
	error
	FieldErrors() map[string]string
}

// NetworkError creates a network error
func NetworkError(cause error) *CLIError {
	err := NewCLIError(ErrorTypeNetwork, MsgNetwork, cause)
	err.Suggestion = "Make sure the SkillSwap server is reachable and try again."
	return err
}

// TimeoutError creates a timeout error
func TimeoutError(cause error) *CLIError {
	err := NewCLIError(ErrorTypeTimeout, MsgNetwork, cause)
	err.Suggestion = "The server is taking too long to respond. Try again in a moment."
	return err
}

// ValidationError creates a validation error for a single field
func ValidationError(field, reason string) *CLIError {
	err := NewCLIError(ErrorTypeValidation, reason, nil)
	err.Fields = map[string]string{field: reason}
	return err
}

// ServerError wraps a response error, keeping the server's message verbatim
func ServerError(status int, message string, cause error) *CLIError {
	errType := ErrorTypeServer
	switch status {
	case 401:
		errType = ErrorTypeUnauthorized
	case 404:
		errType = ErrorTypeNotFound
	}
	err := NewCLIError(errType, message, cause)
	err.StatusCode = status
	if errType == ErrorTypeUnauthorized {
		err.Suggestion = "Run 'skillswap auth login' to start a new session."
	}
	return err
}

// UnexpectedError creates the generic fallback error
func UnexpectedError(cause error) *CLIError {
	return NewCLIError(ErrorTypeUnexpected, MsgUnexpected, cause)
}

// Categorize converts any error into a CLIError
func Categorize(err error) *CLIError {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	var fieldErr FieldError
	if errors.As(err, &fieldErr) {
		v := NewCLIError(ErrorTypeValidation, fieldErr.Error(), err)
		v.Fields = fieldErr.FieldErrors()
		return v
	}

	var statusErr StatusError
	if errors.As(err, &statusErr) {
		return ServerError(statusErr.HTTPStatus(), statusErr.ServerMessage(), err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return TimeoutError(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return TimeoutError(err)
		}
		return NetworkError(err)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "EOF"):
		return NetworkError(err)
	case strings.Contains(msg, "timeout"):
		return TimeoutError(err)
	default:
		return UnexpectedError(err)
	}
}

// Is reports whether err categorizes as errType
func Is(err error, errType ErrorType) bool {
	c := Categorize(err)
	return c != nil && c.Type == errType
}

// FormatError returns a user-friendly error message
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	cliErr := Categorize(err)
	var sb strings.Builder

	sb.WriteString("Error")
	if cliErr.Type != ErrorTypeUnexpected {
		sb.WriteString(" (")
		sb.WriteString(string(cliErr.Type))
		sb.WriteString(")")
	}
	sb.WriteString(": ")
	sb.WriteString(cliErr.Message)
	sb.WriteString("\n")

	fields := make([]string, 0, len(cliErr.Fields))
	for field := range cliErr.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		reason := cliErr.Fields[field]
		if reason == cliErr.Message {
			continue
		}
		sb.WriteString(fmt.Sprintf("  - %s: %s\n", field, reason))
	}

	if cliErr.HasSuggestion() {
		sb.WriteString("\nSuggestion: ")
		sb.WriteString(cliErr.Suggestion)
		sb.WriteString("\n")
	}

	return sb.String()
}
