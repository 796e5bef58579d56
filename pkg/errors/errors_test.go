package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatusError struct {
	status int
	msg    string
}

func (e *fakeStatusError) Error() string         { return fmt.Sprintf("[%d] %s", e.status, e.msg) }
func (e *fakeStatusError) HTTPStatus() int       { return e.status }
func (e *fakeStatusError) ServerMessage() string { return e.msg }

type fakeFieldError struct{ fields map[string]string }

func (e *fakeFieldError) Error() string                  { return "form is invalid" }
func (e *fakeFieldError) FieldErrors() map[string]string { return e.fields }

type fakeNetError struct{ timeout bool }

func (e *fakeNetError) Error() string   { return "dial tcp: failure" }
func (e *fakeNetError) Timeout() bool   { return e.timeout }
func (e *fakeNetError) Temporary() bool { return false }

var _ net.Error = (*fakeNetError)(nil)

func TestNewCLIError(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewCLIError(ErrorTypeValidation, "Test error", cause)

	assert.Equal(t, ErrorTypeValidation, err.Type)
	assert.Equal(t, "Test error", err.Error())
	assert.Same(t, cause, errors.Unwrap(err))
	assert.False(t, err.HasSuggestion())

	err.WithSuggestion("Try something else")
	assert.True(t, err.HasSuggestion())
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType ErrorType
		wantMsg  string
	}{
		{
			name:     "server message is kept verbatim",
			err:      &fakeStatusError{status: 409, msg: "Email already registered"},
			wantType: ErrorTypeServer,
			wantMsg:  "Email already registered",
		},
		{
			name:     "wrapped server error",
			err:      fmt.Errorf("register: %w", &fakeStatusError{status: 400, msg: "Invalid credentials"}),
			wantType: ErrorTypeServer,
			wantMsg:  "Invalid credentials",
		},
		{
			name:     "401 is unauthorized",
			err:      &fakeStatusError{status: 401, msg: "Token expired"},
			wantType: ErrorTypeUnauthorized,
			wantMsg:  "Token expired",
		},
		{
			name:     "404 is not found",
			err:      &fakeStatusError{status: 404, msg: "Skill not found"},
			wantType: ErrorTypeNotFound,
			wantMsg:  "Skill not found",
		},
		{
			name:     "net error without response",
			err:      &fakeNetError{},
			wantType: ErrorTypeNetwork,
			wantMsg:  MsgNetwork,
		},
		{
			name:     "net timeout",
			err:      &fakeNetError{timeout: true},
			wantType: ErrorTypeTimeout,
			wantMsg:  MsgNetwork,
		},
		{
			name:     "deadline exceeded",
			err:      fmt.Errorf("get /skills: %w", context.DeadlineExceeded),
			wantType: ErrorTypeTimeout,
			wantMsg:  MsgNetwork,
		},
		{
			name:     "connection refused by message",
			err:      errors.New("dial tcp 127.0.0.1:8080: connect: connection refused"),
			wantType: ErrorTypeNetwork,
			wantMsg:  MsgNetwork,
		},
		{
			name:     "validation",
			err:      &fakeFieldError{fields: map[string]string{"email": "Please enter a valid email"}},
			wantType: ErrorTypeValidation,
			wantMsg:  "form is invalid",
		},
		{
			name:     "anything else",
			err:      errors.New("something odd"),
			wantType: ErrorTypeUnexpected,
			wantMsg:  MsgUnexpected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Categorize(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantMsg, got.Message)
			assert.True(t, Is(tt.err, tt.wantType))
		})
	}
}

func TestCategorizeNil(t *testing.T) {
	assert.Nil(t, Categorize(nil))
	assert.False(t, Is(nil, ErrorTypeUnexpected))
}

func TestCategorizeKeepsCLIError(t *testing.T) {
	orig := ValidationError("image", "Please upload an image")
	got := Categorize(fmt.Errorf("create post: %w", orig))
	assert.Same(t, orig, got)
}

func TestServerErrorStatus(t *testing.T) {
	err := ServerError(401, "Unauthorized", nil)
	assert.Equal(t, 401, err.StatusCode)
	assert.True(t, err.HasSuggestion())
}

func TestFormatError(t *testing.T) {
	assert.Equal(t, "", FormatError(nil))

	out := FormatError(&fakeFieldError{fields: map[string]string{
		"password": "Password must be more than 4 characters",
		"email":    "Please enter a valid email",
	}})
	assert.Contains(t, out, "Error (validation): form is invalid")
	assert.Contains(t, out, "  - email: Please enter a valid email\n  - password:")

	out = FormatError(errors.New("boom"))
	assert.Contains(t, out, "Error: "+MsgUnexpected)

	out = FormatError(&fakeNetError{})
	assert.Contains(t, out, "Suggestion:")
}
