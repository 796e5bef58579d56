package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"
)

// APIError represents an API error response
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("[%d] %s", e.StatusCode, e.Message)
}

// HTTPStatus returns the response status code
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

// ServerMessage returns the message exactly as the server sent it
func (e *APIError) ServerMessage() string {
	return e.Message
}

// ParseError parses an error response from the API
func ParseError(resp *resty.Response) error {
	statusCode := resp.StatusCode()

	var errResp ErrorResponse
	if err := json.Unmarshal(resp.Body(), &errResp); err == nil {
		if errResp.Error != "" {
			return &APIError{StatusCode: statusCode, Message: errResp.Error}
		}
		if errResp.Message != "" {
			return &APIError{StatusCode: statusCode, Message: errResp.Message}
		}
	}

	msg := strings.TrimSpace(string(resp.Body()))
	if msg == "" {
		msg = http.StatusText(statusCode)
	}
	return &APIError{StatusCode: statusCode, Message: msg}
}

// IsUnauthorized checks if error is due to missing/invalid authentication
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsForbidden checks if error is due to insufficient permissions
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsNotFound checks if error is due to resource not found
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsServerError checks if error is due to server error (5xx)
func IsServerError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode >= 500
}

func hasStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// CheckResponse checks if response is successful and returns error if not
func CheckResponse(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}

	if !resp.IsSuccess() {
		return ParseError(resp)
	}

	return nil
}

// decode checks the response and unmarshals its body into target
func decode(resp *resty.Response, err error, target interface{}) error {
	if err := CheckResponse(resp, err); err != nil {
		return err
	}
	if target == nil || len(resp.Body()) == 0 {
		return nil
	}
	return json.Unmarshal(resp.Body(), target)
}
