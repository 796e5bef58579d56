package service

import (
	"context"
	"os"
	"testing"

	clierrors "github.com/pretheevi/skillswap/pkg/errors"
	"github.com/pretheevi/skillswap/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginSavesSession(t *testing.T) {
	f := newFixture(t, false)

	err := NewAuthService(f.app).Login(context.Background(), "a@b.com", "12345")
	require.NoError(t, err)

	sess := f.app.Session.Current()
	require.NotNil(t, sess)
	assert.Equal(t, "token-1", sess.Token)
	assert.Equal(t, "Alice", sess.User.Name)
	assert.Contains(t, f.out.String(), "Logged in as Alice")

	_, err = os.Stat(f.app.Session.Path())
	assert.NoError(t, err)
}

func TestLoginPromptsForMissingValues(t *testing.T) {
	f := newFixture(t, false)
	f.input(t, "a@b.com\n12345\n")

	require.NoError(t, NewAuthService(f.app).Login(context.Background(), "", ""))
	assert.Equal(t, int64(1), f.app.Session.UserID())
}

func TestLoginValidatesBeforeSending(t *testing.T) {
	f := newFixture(t, false)

	err := NewAuthService(f.app).Login(context.Background(), "not-an-email", "1234")
	cliErr := categorize(t, err)
	assert.Equal(t, clierrors.ErrorTypeValidation, cliErr.Type)
	assert.Equal(t, "Email is invalid", cliErr.Fields[validation.FieldEmail])
	assert.Equal(t, "Password must be longer than 4 characters", cliErr.Fields[validation.FieldPassword])
	assert.Zero(t, f.srv.TotalHits())
}

func TestLoginBlurFlagsEmptyField(t *testing.T) {
	f := newFixture(t, false)
	f.input(t, "\n")

	err := NewAuthService(f.app).Login(context.Background(), "", "12345")
	assert.Equal(t, "Email is required", categorize(t, err).Fields[validation.FieldEmail])
	assert.Contains(t, f.errOut.String(), "Warning: Email is required")
	assert.Zero(t, f.srv.TotalHits())
}

func TestLoginShowsServerMessage(t *testing.T) {
	f := newFixture(t, false)

	err := NewAuthService(f.app).Login(context.Background(), "a@b.com", "wrong-password")
	cliErr := categorize(t, err)
	assert.Equal(t, "Invalid email or password", cliErr.Message)
	assert.Nil(t, f.app.Session.Current())
}

func TestRegister(t *testing.T) {
	f := newFixture(t, false)
	svc := NewAuthService(f.app)
	ctx := context.Background()

	err := svc.Register(ctx, RegisterInput{Name: "Carol", Email: "c@d.com", Password: "secret", ConfirmPassword: "secret"})
	require.NoError(t, err)
	assert.Contains(t, f.out.String(), "Please log in")
	assert.Nil(t, f.app.Session.Current(), "registering does not log in")

	require.NoError(t, svc.Login(ctx, "c@d.com", "secret"))
	assert.Equal(t, "Carol", f.app.Session.Current().User.Name)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	f := newFixture(t, false)

	err := NewAuthService(f.app).Register(context.Background(),
		RegisterInput{Name: "Carol", Email: "c@d.com", Password: "secret", ConfirmPassword: "secreT"})
	assert.Equal(t, "confirm password not matching", categorize(t, err).Fields[validation.FieldConfirmPassword])
	assert.Zero(t, f.srv.TotalHits())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t, false)

	err := NewAuthService(f.app).Register(context.Background(),
		RegisterInput{Name: "Alice Two", Email: "a@b.com", Password: "secret", ConfirmPassword: "secret"})
	assert.Equal(t, "Email already registered", categorize(t, err).Message)
}

func TestLogout(t *testing.T) {
	f := newFixture(t, true)

	require.NoError(t, NewAuthService(f.app).Logout())
	assert.Nil(t, f.app.Session.Current())
	_, err := os.Stat(f.app.Session.Path())
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, f.out.String(), "Logged out")

	require.NoError(t, NewAuthService(f.app).Logout())
	assert.Contains(t, f.errOut.String(), "Not logged in")
}
