// Package service implements the interactive flows behind each command:
// prompting, validating, calling the view models and printing the result.
package service

import (
	"errors"
	"fmt"

	"github.com/pretheevi/skillswap/pkg/api"
	"github.com/pretheevi/skillswap/pkg/auth"
	"github.com/pretheevi/skillswap/pkg/avatar"
	"github.com/pretheevi/skillswap/pkg/client"
	clierrors "github.com/pretheevi/skillswap/pkg/errors"
	"github.com/pretheevi/skillswap/pkg/session"
	"github.com/pretheevi/skillswap/pkg/view"
)

// App is shared by every service of one command invocation. Views created
// through it register with the same Invalidator, so a mutation in one view
// refreshes the others.
type App struct {
	Session     *session.Store
	API         *api.Client
	Gate        *auth.Gate
	Invalidator *view.Invalidator
}

// NewApp wires an App from the loaded configuration
func NewApp(store *session.Store) *App {
	return NewAppWithOptions(store, client.OptionsFromConfig())
}

// NewAppWithOptions wires an App against an explicit backend
func NewAppWithOptions(store *session.Store, opts client.Options) *App {
	return &App{
		Session:     store,
		API:         api.New(client.New(opts, store)),
		Gate:        auth.NewGate(store),
		Invalidator: view.NewInvalidator(),
	}
}

func (a *App) newFeed() *view.Feed {
	return view.NewFeed(a.API, a.Session, view.FeedOptions{Invalidator: a.Invalidator})
}

func (a *App) newFollowGraph() *view.FollowGraph {
	return view.NewFollowGraph(a.API, a.Session, view.FollowOptions{Invalidator: a.Invalidator})
}

func (a *App) newThread(skillID int64) *view.CommentThread {
	return view.NewCommentThread(a.API, avatar.NewCache(a.API, ""), skillID, view.ThreadOptions{Invalidator: a.Invalidator})
}

// fail turns a failed operation into the error shown to the user. A
// rejected token ends the session.
func (a *App) fail(action string, err error) error {
	switch {
	case errors.Is(err, view.ErrNotAuthor):
		err = clierrors.NewCLIError(clierrors.ErrorTypeValidation, "Only the author can change this post", err)
	case errors.Is(err, view.ErrPending):
		err = clierrors.NewCLIError(clierrors.ErrorTypeValidation, "A follow change for this user is still in progress", err)
	default:
		err = a.Gate.HandleSessionError(err)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
