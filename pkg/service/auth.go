package service

import (
	"context"

	"github.com/pretheevi/skillswap/pkg/api"
	"github.com/pretheevi/skillswap/pkg/formatter"
	"github.com/pretheevi/skillswap/pkg/logger"
	"github.com/pretheevi/skillswap/pkg/prompter"
	"github.com/pretheevi/skillswap/pkg/session"
	"github.com/pretheevi/skillswap/pkg/validation"
)

// AuthService handles login, registration and logout
type AuthService struct {
	app *App
}

// NewAuthService creates a new auth service
func NewAuthService(app *App) *AuthService {
	return &AuthService{app: app}
}

// promptField asks for a value unless one was given, stores it in the form
// and prints the field's error as soon as the prompt is left
func promptField(form *validation.Form, field, label, given string, secret bool) error {
	value := given
	if value == "" {
		var err error
		if secret {
			value, err = prompter.PromptPassword(label)
		} else {
			value, err = prompter.PromptString(label)
		}
		if err != nil {
			return err
		}
	}

	form.Set(field, value)
	if msg := form.Blur(field); msg != "" {
		formatter.PrintWarning("%s", msg)
	}
	return nil
}

// Login authenticates and stores the session. Missing values are prompted
// for.
func (s *AuthService) Login(ctx context.Context, email, password string) error {
	if cur, _ := s.app.Session.Load(); cur.IsValid() {
		formatter.PrintWarning("Already logged in as %s", cur.User.Name)
		confirm, err := prompter.PromptConfirm("Continue with new login?")
		if err != nil {
			return err
		}
		if !confirm {
			return nil
		}
	}

	form := validation.LoginForm()
	if err := promptField(form, validation.FieldEmail, "Email: ", email, false); err != nil {
		return err
	}
	if err := promptField(form, validation.FieldPassword, "Password: ", password, true); err != nil {
		return err
	}
	if !form.Submit() {
		return form.Err()
	}

	logger.Debug("Logging in", "email", form.Value(validation.FieldEmail))
	resp, err := s.app.API.Login(ctx, api.LoginRequest{
		Email:    form.Value(validation.FieldEmail),
		Password: form.Value(validation.FieldPassword),
	})
	if err != nil {
		return err
	}

	if err := s.app.Session.Save(&session.Session{Token: resp.Token, User: resp.User}); err != nil {
		formatter.PrintError("Failed to save session: %v", err)
		return err
	}

	formatter.PrintSuccess("✓ Login successful!")
	formatter.PrintInfo("Logged in as %s", formatter.Bold.Sprint(resp.User.Name))
	return nil
}

// RegisterInput holds values given on the command line; empty ones are
// prompted for
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register creates an account. It does not log in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
	form := validation.RegisterForm()
	steps := []struct {
		field, label, given string
		secret              bool
	}{
		{validation.FieldName, "Name: ", in.Name, false},
		{validation.FieldEmail, "Email: ", in.Email, false},
		{validation.FieldPassword, "Password: ", in.Password, true},
		{validation.FieldConfirmPassword, "Confirm password: ", in.ConfirmPassword, true},
	}
	for _, st := range steps {
		if err := promptField(form, st.field, st.label, st.given, st.secret); err != nil {
			return err
		}
	}
	if !form.Submit() {
		return form.Err()
	}

	err := s.app.API.Register(ctx, api.RegisterRequest{
		Name:            form.Value(validation.FieldName),
		Email:           form.Value(validation.FieldEmail),
		Password:        form.Value(validation.FieldPassword),
		ConfirmPassword: form.Value(validation.FieldConfirmPassword),
	})
	if err != nil {
		return err
	}

	formatter.PrintSuccess("✓ Account created!")
	formatter.PrintInfo("Please log in with 'skillswap auth login'")
	return nil
}

// Logout removes the stored session
func (s *AuthService) Logout() error {
	cur, err := s.app.Session.Load()
	if err != nil {
		logger.Warn("Failed to read session", "error", err)
	}
	if !cur.IsValid() && err == nil {
		formatter.PrintWarning("Not logged in")
		return nil
	}

	if err := s.app.Session.Clear(); err != nil {
		return err
	}
	formatter.PrintSuccess("✓ Logged out")
	return nil
}
