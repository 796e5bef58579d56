package view

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/pretheevi/skillswap/pkg/api"
	"github.com/pretheevi/skillswap/pkg/logger"
	"github.com/pretheevi/skillswap/pkg/session"
)

// ErrPending is returned when a follow change for the same user is already
// in flight. No request is sent.
var ErrPending = errors.New("a follow change for this user is already in progress")

// FollowState of the session user toward another user
type FollowState int

const (
	NotFollowing FollowState = iota
	FollowPending
	Following
	UnfollowPending
)

func (s FollowState) String() string {
	switch s {
	case FollowPending:
		return "follow pending"
	case Following:
		return "following"
	case UnfollowPending:
		return "unfollow pending"
	default:
		return "not following"
	}
}

// FollowOptions configure a FollowGraph
type FollowOptions struct {
	Invalidator *Invalidator
}

// FollowGraph is the profile screen: one viewed profile, its follower and
// following lists, and the session user's follow edges toward it.
//
// Follower counts shown to the user are the server's count plus a transient
// hint for a change that succeeded but whose refetch has not landed yet.
// The hint is dropped as soon as a fresh profile arrives.
type FollowGraph struct {
	api     *api.Client
	session *session.Store
	inv     *Invalidator

	mu        sync.Mutex
	profile   *api.User
	hint      int
	pending   map[int64]FollowState
	following map[int64]bool

	listOwner     int64
	followers     []api.User
	followingList []api.User

	closed      atomic.Bool
	unregisters []func()
}

// NewFollowGraph creates a graph and registers it for follow and profile
// invalidations
func NewFollowGraph(c *api.Client, sess *session.Store, opts FollowOptions) *FollowGraph {
	inv := opts.Invalidator
	if inv == nil {
		inv = NewInvalidator()
	}
	g := &FollowGraph{
		api:       c,
		session:   sess,
		inv:       inv,
		pending:   make(map[int64]FollowState),
		following: make(map[int64]bool),
	}
	g.unregisters = []func(){
		inv.Register(EntityFollows, g.reload),
		inv.Register(EntityProfile, g.reload),
	}
	return g
}

func (g *FollowGraph) isSelf(userID int64) bool {
	return userID == 0 || userID == g.session.UserID()
}

// LoadProfile fetches a profile; 0 or the session user's id loads the
// session user's own profile and refreshes the stored session copy
func (g *FollowGraph) LoadProfile(ctx context.Context, userID int64) error {
	if g.closed.Load() {
		return ErrClosed
	}

	var (
		user *api.User
		err  error
	)
	self := g.isSelf(userID)
	if self {
		user, err = g.api.GetProfile(ctx)
	} else {
		user, err = g.api.GetProfileByID(ctx, userID)
	}
	if err != nil {
		logger.Warn("Failed to load profile", "user_id", userID, "error", err)
		return err
	}
	if g.closed.Load() {
		return ErrClosed
	}

	if self {
		g.storeSessionUser(*user)
	}

	g.mu.Lock()
	g.profile = user
	g.hint = 0
	if !self {
		g.following[user.ID] = user.IsFollowing
	}
	g.mu.Unlock()
	return nil
}

func (g *FollowGraph) storeSessionUser(user api.User) {
	if !g.session.IsAuthenticated() {
		return
	}
	if err := g.session.UpdateUser(user); err != nil {
		logger.Warn("Failed to update session user", "error", err)
	}
}

// Profile returns the last fetched profile, or nil
func (g *FollowGraph) Profile() *api.User {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.profile == nil {
		return nil
	}
	u := *g.profile
	return &u
}

// DisplayFollowerCount is the server count plus any pending hint
func (g *FollowGraph) DisplayFollowerCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.profile == nil {
		return 0
	}
	return g.profile.FollowerCount + g.hint
}

// Hint returns the optimistic follower delta not yet confirmed by a refetch
func (g *FollowGraph) Hint() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hint
}

// State returns the session user's follow state toward userID
func (g *FollowGraph) State(userID int64) FollowState {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.pending[userID]; ok {
		return s
	}
	if g.following[userID] {
		return Following
	}
	return NotFollowing
}

// Follow creates the edge session user -> userID
func (g *FollowGraph) Follow(ctx context.Context, userID int64) error {
	return g.change(ctx, userID, true)
}

// Unfollow removes the edge session user -> userID
func (g *FollowGraph) Unfollow(ctx context.Context, userID int64) error {
	return g.change(ctx, userID, false)
}

func (g *FollowGraph) change(ctx context.Context, userID int64, follow bool) error {
	if g.closed.Load() {
		return ErrClosed
	}

	g.mu.Lock()
	if _, busy := g.pending[userID]; busy {
		g.mu.Unlock()
		return ErrPending
	}
	if follow {
		g.pending[userID] = FollowPending
	} else {
		g.pending[userID] = UnfollowPending
	}
	g.mu.Unlock()

	var err error
	if follow {
		err = g.api.Follow(ctx, userID)
	} else {
		err = g.api.Unfollow(ctx, userID)
	}

	g.mu.Lock()
	delete(g.pending, userID)
	if err != nil {
		g.mu.Unlock()
		return err
	}

	g.following[userID] = follow
	if g.profile != nil && g.profile.ID == userID {
		g.profile.IsFollowing = follow
		if follow {
			g.hint = 1
		} else {
			g.hint = -1
		}
	}
	if !follow && g.isSelf(g.listOwner) {
		g.followingList = removeUser(g.followingList, userID)
	}
	g.mu.Unlock()

	if err := g.inv.Invalidate(ctx, EntityFollows); err != nil {
		logger.Warn("Profile refresh after follow change failed", "user_id", userID, "error", err)
	}
	return nil
}

// reload refetches the viewed profile and keeps the session user's counts
// current
func (g *FollowGraph) reload(ctx context.Context) error {
	g.mu.Lock()
	var viewed int64 = -1
	if g.profile != nil {
		viewed = g.profile.ID
	}
	g.mu.Unlock()

	var errs []error
	if viewed >= 0 {
		if err := g.LoadProfile(ctx, viewed); err != nil {
			errs = append(errs, err)
		}
	}
	if viewed < 0 || !g.isSelf(viewed) {
		if err := g.refreshSessionUser(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (g *FollowGraph) refreshSessionUser(ctx context.Context) error {
	if !g.session.IsAuthenticated() {
		return nil
	}
	me, err := g.api.GetProfile(ctx)
	if err != nil {
		return err
	}
	g.storeSessionUser(*me)
	return nil
}

// LoadFollowers lists userID's followers; 0 means the session user
func (g *FollowGraph) LoadFollowers(ctx context.Context, userID int64) error {
	var (
		users []api.User
		err   error
	)
	if g.isSelf(userID) {
		users, err = g.api.ListFollowers(ctx)
	} else {
		users, err = g.api.ListFollowersByID(ctx, userID)
	}
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.setListOwner(userID)
	g.followers = users
	for _, u := range users {
		g.following[u.ID] = u.IsFollowing
	}
	return nil
}

// LoadFollowing lists who userID follows; 0 means the session user
func (g *FollowGraph) LoadFollowing(ctx context.Context, userID int64) error {
	var (
		users []api.User
		err   error
	)
	self := g.isSelf(userID)
	if self {
		users, err = g.api.ListFollowing(ctx)
	} else {
		users, err = g.api.ListFollowingByID(ctx, userID)
	}
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.setListOwner(userID)
	g.followingList = users
	for _, u := range users {
		g.following[u.ID] = self || u.IsFollowing
	}
	return nil
}

// setListOwner drops lists that belong to another profile. Caller holds g.mu.
func (g *FollowGraph) setListOwner(userID int64) {
	if g.isSelf(userID) {
		userID = 0
	}
	if g.listOwner != userID {
		g.followers = nil
		g.followingList = nil
		g.listOwner = userID
	}
}

// Followers returns the loaded follower list
func (g *FollowGraph) Followers() []api.User {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]api.User(nil), g.followers...)
}

// FollowingList returns the loaded following list
func (g *FollowGraph) FollowingList() []api.User {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]api.User(nil), g.followingList...)
}

// UpdateProfile saves the session user's profile and invalidates it
func (g *FollowGraph) UpdateProfile(ctx context.Context, p api.ProfilePayload) error {
	if err := g.api.UpdateProfile(ctx, p); err != nil {
		return err
	}
	if err := g.inv.Invalidate(ctx, EntityProfile); err != nil {
		logger.Warn("Profile refresh failed", "error", err)
	}
	return nil
}

// Close unregisters the graph; later loads are dropped
func (g *FollowGraph) Close() {
	if g.closed.Swap(true) {
		return
	}
	for _, unregister := range g.unregisters {
		unregister()
	}
}

func removeUser(users []api.User, id int64) []api.User {
	out := users[:0:0]
	for _, u := range users {
		if u.ID != id {
			out = append(out, u)
		}
	}
	return out
}
