package auth

import (
	"errors"

	"github.com/pretheevi/skillswap/pkg/api"
	clierrors "github.com/pretheevi/skillswap/pkg/errors"
	"github.com/pretheevi/skillswap/pkg/logger"
	"github.com/pretheevi/skillswap/pkg/session"
)

// MsgSessionExpired is shown when the server rejects the stored token
const MsgSessionExpired = "Your session has expired. Please log in again."

// ErrNotLoggedIn is returned by commands that need a session when none is stored
var ErrNotLoggedIn = clierrors.NewCLIError(clierrors.ErrorTypeUnauthorized, "Not logged in", nil).
	WithSuggestion("Run 'skillswap auth login' first.")

// Gate guards commands that need an authenticated user. The backend has no
// refresh endpoint, so a rejected token ends the session.
type Gate struct {
	store *session.Store
}

// NewGate creates a gate over the session store
func NewGate(store *session.Store) *Gate {
	return &Gate{store: store}
}

// RequireSession returns the current session, loading it from disk if
// needed
func (g *Gate) RequireSession() (*session.Session, error) {
	sess := g.store.Current()
	if sess == nil {
		var err error
		sess, err = g.store.Load()
		if err != nil {
			logger.Warn("Failed to read session", "path", g.store.Path(), "error", err)
			return nil, ErrNotLoggedIn
		}
	}
	if !sess.IsValid() {
		return nil, ErrNotLoggedIn
	}
	return sess, nil
}

// IsSessionError checks if an error means the token was rejected
func IsSessionError(err error) bool {
	if err == nil {
		return false
	}
	if api.IsUnauthorized(err) {
		return true
	}

	errMsg := err.Error()
	return errMsg == "401" ||
		errMsg == "unauthorized" ||
		errMsg == "session expired" ||
		errMsg == "token expired"
}

// HandleSessionError clears the stored session on a rejected token and
// returns an unauthorized error telling the user to log in. Other errors
// pass through unchanged.
func (g *Gate) HandleSessionError(err error) error {
	if !IsSessionError(err) {
		return err
	}

	logger.Debug("Session rejected by server, clearing it")
	if clearErr := g.store.Clear(); clearErr != nil {
		logger.Error("Failed to clear session", "error", clearErr)
	}

	var apiErr *api.APIError
	cause := err
	if errors.As(err, &apiErr) {
		cause = apiErr
	}
	return clierrors.ServerError(401, MsgSessionExpired, cause)
}
