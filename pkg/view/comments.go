package view

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/pretheevi/skillswap/pkg/api"
	"github.com/pretheevi/skillswap/pkg/avatar"
	"github.com/pretheevi/skillswap/pkg/config"
	"github.com/pretheevi/skillswap/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const defaultAvatarConcurrency = 8

// ResolvedComment is a comment with its author's avatar ready to display
type ResolvedComment struct {
	api.Comment
	Avatar string
}

// ThreadOptions configure a CommentThread
type ThreadOptions struct {
	Invalidator *Invalidator
	// Concurrency bounds parallel avatar resolutions; 0 reads avatar.concurrency
	Concurrency int
	TruncateAt  int
}

// CommentThread is the comment list of one post
type CommentThread struct {
	api     *api.Client
	avatars *avatar.Cache
	inv     *Invalidator
	skillID int64
	limit   int

	Expander *Expander

	mu       sync.RWMutex
	comments []ResolvedComment
	draft    string

	closed     atomic.Bool
	unregister func()
}

// NewCommentThread creates a thread for skillID and registers it for
// comment invalidations
func NewCommentThread(c *api.Client, avatars *avatar.Cache, skillID int64, opts ThreadOptions) *CommentThread {
	inv := opts.Invalidator
	if inv == nil {
		inv = NewInvalidator()
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = config.GetInt("avatar.concurrency")
	}
	if limit <= 0 {
		limit = defaultAvatarConcurrency
	}

	t := &CommentThread{
		api:      c,
		avatars:  avatars,
		inv:      inv,
		skillID:  skillID,
		limit:    limit,
		Expander: NewExpander(opts.TruncateAt),
	}
	t.unregister = inv.Register(EntityComments, t.LoadComments)
	return t
}

// SkillID returns the post the thread belongs to
func (t *CommentThread) SkillID() int64 {
	return t.skillID
}

// LoadComments fetches the thread and resolves every author avatar before
// publishing the new list. Avatar failures fall back to the default avatar.
// A failed fetch keeps the previous list.
func (t *CommentThread) LoadComments(ctx context.Context) error {
	if t.closed.Load() {
		return ErrClosed
	}

	comments, err := t.api.ListComments(ctx, t.skillID)
	if err != nil {
		logger.Warn("Failed to load comments", "skill_id", t.skillID, "error", err)
		return err
	}

	resolved := make([]ResolvedComment, len(comments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.limit)
	for i, c := range comments {
		resolved[i] = ResolvedComment{Comment: c}
		g.Go(func() error {
			resolved[i].Avatar = t.avatars.ResolveOrDefault(gctx, c.UserAvatar)
			return nil
		})
	}
	_ = g.Wait()

	if t.closed.Load() {
		logger.Debug("Dropping comments for closed thread", "skill_id", t.skillID)
		return ErrClosed
	}

	t.mu.Lock()
	t.comments = resolved
	t.mu.Unlock()

	logger.Debug("Comments loaded", "skill_id", t.skillID, "count", len(resolved))
	return nil
}

// Comments returns the published list
func (t *CommentThread) Comments() []ResolvedComment {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]ResolvedComment(nil), t.comments...)
}

// CommentCount returns the number of published comments
func (t *CommentThread) CommentCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.comments)
}

// SetDraft stores unsent comment text
func (t *CommentThread) SetDraft(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.draft = text
}

// Draft returns the unsent comment text
func (t *CommentThread) Draft() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.draft
}

// PostComment sends text as a new comment. Blank text does nothing. On
// success the draft is cleared and comments and skills are invalidated; on
// failure the draft is kept for a retry.
func (t *CommentThread) PostComment(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if t.closed.Load() {
		return ErrClosed
	}

	t.SetDraft(text)
	if err := t.api.CreateComment(ctx, t.skillID, text); err != nil {
		return err
	}
	t.SetDraft("")

	if err := t.inv.Invalidate(ctx, EntityComments); err != nil {
		logger.Warn("Comment refresh failed", "skill_id", t.skillID, "error", err)
	}
	if err := t.inv.Invalidate(ctx, EntitySkills); err != nil {
		logger.Warn("Feed refresh failed", "error", err)
	}
	return nil
}

// AuthorAvatar resolves the post author's avatar through the thread's cache
func (t *CommentThread) AuthorAvatar(ctx context.Context, path string) string {
	return t.avatars.ResolveOrDefault(ctx, path)
}

// Close unregisters the thread and releases every cached avatar
func (t *CommentThread) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	t.unregister()
	return t.avatars.Release()
}
