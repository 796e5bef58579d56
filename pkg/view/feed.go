package view

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pretheevi/skillswap/pkg/api"
	"github.com/pretheevi/skillswap/pkg/logger"
	"github.com/pretheevi/skillswap/pkg/session"
)

var (
	// ErrNotAuthor is returned when someone other than the author tries to
	// change a post. No request is sent.
	ErrNotAuthor = errors.New("only the author can modify this post")
	// ErrClosed is returned by operations on a closed view
	ErrClosed = errors.New("view is closed")
)

type scopeKind int

const (
	scopeGlobal scopeKind = iota
	scopeMine
	scopeUser
)

// Scope selects which posts a feed lists
type Scope struct {
	kind   scopeKind
	userID int64
}

var (
	ScopeGlobal = Scope{kind: scopeGlobal}
	ScopeMine   = Scope{kind: scopeMine}
)

// ScopeUser lists one user's posts
func ScopeUser(userID int64) Scope {
	return Scope{kind: scopeUser, userID: userID}
}

func (s Scope) String() string {
	switch s.kind {
	case scopeMine:
		return "mine"
	case scopeUser:
		return fmt.Sprintf("user:%d", s.userID)
	default:
		return "global"
	}
}

// FeedOptions configure a Feed
type FeedOptions struct {
	Invalidator *Invalidator
	TruncateAt  int
}

// Feed is the list of posts behind the home, profile and profile-view screens
type Feed struct {
	api     *api.Client
	session *session.Store
	inv     *Invalidator

	Expander *Expander

	mu       sync.RWMutex
	scope    Scope
	skills   []api.Skill
	category api.Category
	loaded   bool

	closed     atomic.Bool
	unregister func()
}

// NewFeed creates a feed and registers it for skill invalidations
func NewFeed(c *api.Client, sess *session.Store, opts FeedOptions) *Feed {
	inv := opts.Invalidator
	if inv == nil {
		inv = NewInvalidator()
	}
	f := &Feed{
		api:      c,
		session:  sess,
		inv:      inv,
		Expander: NewExpander(opts.TruncateAt),
	}
	f.unregister = inv.Register(EntitySkills, f.Reload)
	return f
}

func (f *Feed) fetch(ctx context.Context, scope Scope) ([]api.Skill, error) {
	switch scope.kind {
	case scopeMine:
		return f.api.ListMySkills(ctx)
	case scopeUser:
		return f.api.ListSkillsByUser(ctx, scope.userID)
	default:
		return f.api.ListSkills(ctx)
	}
}

// LoadFeed replaces the list with the scope's posts. On failure the
// previous list stays and the error is returned. Results arriving after
// Close are dropped.
func (f *Feed) LoadFeed(ctx context.Context, scope Scope) error {
	if f.closed.Load() {
		return ErrClosed
	}

	skills, err := f.fetch(ctx, scope)
	if f.closed.Load() {
		logger.Debug("Dropping feed result for closed view", "scope", scope.String())
		return ErrClosed
	}
	if err != nil {
		logger.Warn("Failed to load feed", "scope", scope.String(), "error", err)
		return err
	}

	f.mu.Lock()
	f.scope = scope
	f.skills = skills
	f.loaded = true
	f.mu.Unlock()

	logger.Debug("Feed loaded", "scope", scope.String(), "count", len(skills))
	return nil
}

// Reload refetches the current scope
func (f *Feed) Reload(ctx context.Context) error {
	f.mu.RLock()
	scope := f.scope
	f.mu.RUnlock()
	return f.LoadFeed(ctx, scope)
}

// Scope returns the scope of the last successful load
func (f *Feed) Scope() Scope {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.scope
}

// Loaded reports whether any load has succeeded
func (f *Feed) Loaded() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.loaded
}

// Skills returns every loaded post
func (f *Feed) Skills() []api.Skill {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]api.Skill(nil), f.skills...)
}

// SetCategoryFilter restricts Visible to one category; "" shows all
func (f *Feed) SetCategoryFilter(c api.Category) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.category = c
}

// Category returns the active filter
func (f *Feed) Category() api.Category {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.category
}

// Visible returns the loaded posts matching the category filter
func (f *Feed) Visible() []api.Skill {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.category == "" {
		return append([]api.Skill(nil), f.skills...)
	}
	out := make([]api.Skill, 0, len(f.skills))
	for _, s := range f.skills {
		if s.Category == f.category {
			out = append(out, s)
		}
	}
	return out
}

// Get returns a loaded post by id
func (f *Feed) Get(id int64) (api.Skill, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, s := range f.skills {
		if s.ID == id {
			return s, true
		}
	}
	return api.Skill{}, false
}

// CanDelete reports whether the session user wrote the post
func (f *Feed) CanDelete(post api.Skill) bool {
	viewer := f.session.UserID()
	return viewer != 0 && viewer == post.UserID
}

// lookup finds a post in the list, falling back to the server
func (f *Feed) lookup(ctx context.Context, id int64) (api.Skill, error) {
	if s, ok := f.Get(id); ok {
		return s, nil
	}
	s, err := f.api.GetSkill(ctx, id)
	if err != nil {
		return api.Skill{}, err
	}
	return *s, nil
}

// DeletePost deletes a post the session user wrote, then invalidates the
// skill list. The list is never edited locally.
func (f *Feed) DeletePost(ctx context.Context, id int64) error {
	post, err := f.lookup(ctx, id)
	if err != nil {
		return err
	}
	if !f.CanDelete(post) {
		return ErrNotAuthor
	}

	if err := f.api.DeleteSkill(ctx, id); err != nil {
		return err
	}
	f.refresh(ctx)
	return nil
}

// CreatePost publishes a new post and invalidates the skill list
func (f *Feed) CreatePost(ctx context.Context, p api.SkillPayload) error {
	if err := f.api.CreateSkill(ctx, p); err != nil {
		return err
	}
	f.refresh(ctx)
	return nil
}

// UpdatePost edits a post the session user wrote
func (f *Feed) UpdatePost(ctx context.Context, id int64, p api.SkillPayload) error {
	post, err := f.lookup(ctx, id)
	if err != nil {
		return err
	}
	if !f.CanDelete(post) {
		return ErrNotAuthor
	}

	if err := f.api.UpdateSkill(ctx, id, p); err != nil {
		return err
	}
	f.refresh(ctx)
	return nil
}

// refresh invalidates skills after a successful mutation. Reload failures
// keep the previous list and are only logged.
func (f *Feed) refresh(ctx context.Context) {
	if err := f.inv.Invalidate(ctx, EntitySkills); err != nil {
		logger.Warn("Feed refresh failed", "error", err)
	}
}

// Close unregisters the feed; later loads are dropped
func (f *Feed) Close() {
	if f.closed.Swap(true) {
		return
	}
	f.unregister()
}
