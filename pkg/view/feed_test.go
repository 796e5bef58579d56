package view

import (
	"context"
	"net/http"
	"testing"

	"github.com/pretheevi/skillswap/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedFeed(e *env) (mine, theirs int64) {
	mine = e.srv.AddSkill(api.Skill{UserID: alice.ID, Title: "Go", Category: api.CategoryWeb})
	theirs = e.srv.AddSkill(api.Skill{UserID: bobby.ID, Title: "Figma", Category: api.CategoryDesign})
	return mine, theirs
}

func TestLoadFeedScopes(t *testing.T) {
	e := newEnv(t)
	seedFeed(e)
	f := NewFeed(e.api, e.sess, FeedOptions{Invalidator: e.inv})
	defer f.Close()
	ctx := context.Background()

	require.NoError(t, f.LoadFeed(ctx, ScopeGlobal))
	assert.Len(t, f.Skills(), 2)
	assert.True(t, f.Loaded())

	require.NoError(t, f.LoadFeed(ctx, ScopeMine))
	require.Len(t, f.Skills(), 1)
	assert.Equal(t, "Go", f.Skills()[0].Title)
	assert.Equal(t, "mine", f.Scope().String())

	require.NoError(t, f.LoadFeed(ctx, ScopeUser(bobby.ID)))
	require.Len(t, f.Skills(), 1)
	assert.Equal(t, "Figma", f.Skills()[0].Title)
	assert.Equal(t, "user:2", f.Scope().String())
}

func TestLoadFeedFailureKeepsPreviousList(t *testing.T) {
	e := newEnv(t)
	seedFeed(e)
	f := NewFeed(e.api, e.sess, FeedOptions{Invalidator: e.inv})
	defer f.Close()
	ctx := context.Background()

	require.NoError(t, f.LoadFeed(ctx, ScopeGlobal))
	before := f.Skills()

	e.srv.Fail("GET /api/skills", http.StatusInternalServerError, "database unavailable")
	err := f.LoadFeed(ctx, ScopeGlobal)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database unavailable")
	assert.Equal(t, before, f.Skills())
}

func TestCategoryFilterIsLocal(t *testing.T) {
	e := newEnv(t)
	seedFeed(e)
	f := NewFeed(e.api, e.sess, FeedOptions{Invalidator: e.inv})
	defer f.Close()

	require.NoError(t, f.LoadFeed(context.Background(), ScopeGlobal))
	hits := e.srv.TotalHits()

	f.SetCategoryFilter(api.CategoryDesign)
	visible := f.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "Figma", visible[0].Title)
	assert.Equal(t, api.CategoryDesign, f.Category())

	f.SetCategoryFilter("")
	assert.Len(t, f.Visible(), 2)
	assert.Equal(t, hits, e.srv.TotalHits())
}

func TestDeletePostByNonAuthorSendsNothing(t *testing.T) {
	e := newEnv(t)
	_, theirs := seedFeed(e)
	f := NewFeed(e.api, e.sess, FeedOptions{Invalidator: e.inv})
	defer f.Close()
	ctx := context.Background()

	require.NoError(t, f.LoadFeed(ctx, ScopeGlobal))
	post, ok := f.Get(theirs)
	require.True(t, ok)
	assert.False(t, f.CanDelete(post))

	err := f.DeletePost(ctx, theirs)
	assert.ErrorIs(t, err, ErrNotAuthor)
	assert.Equal(t, 0, e.srv.Hits("DELETE /api/skills/"+itoa(theirs)))
	assert.Equal(t, 2, e.srv.SkillCount())
}

func TestDeletePostReloadsFeed(t *testing.T) {
	e := newEnv(t)
	mine, _ := seedFeed(e)
	f := NewFeed(e.api, e.sess, FeedOptions{Invalidator: e.inv})
	defer f.Close()
	ctx := context.Background()

	require.NoError(t, f.LoadFeed(ctx, ScopeGlobal))
	require.NoError(t, f.DeletePost(ctx, mine))

	assert.Equal(t, 1, e.srv.Hits("DELETE /api/skills/"+itoa(mine)))
	assert.Equal(t, 2, e.srv.Hits("GET /api/skills"))
	_, ok := f.Get(mine)
	assert.False(t, ok)
	assert.Len(t, f.Skills(), 1)
}

func TestDeletePostNotLoadedLooksUpAuthor(t *testing.T) {
	e := newEnv(t)
	_, theirs := seedFeed(e)
	f := NewFeed(e.api, e.sess, FeedOptions{Invalidator: e.inv})
	defer f.Close()

	err := f.DeletePost(context.Background(), theirs)
	assert.ErrorIs(t, err, ErrNotAuthor)
	assert.Equal(t, 1, e.srv.Hits("GET /api/skills/"+itoa(theirs)))
	assert.Equal(t, 0, e.srv.Hits("DELETE /api/skills/"+itoa(theirs)))
}

func TestCreateAndUpdatePost(t *testing.T) {
	e := newEnv(t)
	_, theirs := seedFeed(e)
	f := NewFeed(e.api, e.sess, FeedOptions{Invalidator: e.inv})
	defer f.Close()
	ctx := context.Background()
	require.NoError(t, f.LoadFeed(ctx, ScopeMine))

	err := f.CreatePost(ctx, api.SkillPayload{
		Title: "Rust", Category: api.CategoryWeb, Level: api.LevelBeginner, Description: "borrowck",
		Media: &api.Upload{Name: "rust.png", ContentType: "image/png", Data: []byte("x")},
	})
	require.NoError(t, err)
	assert.Len(t, f.Skills(), 2)

	err = f.UpdatePost(ctx, theirs, api.SkillPayload{Title: "mine now"})
	assert.ErrorIs(t, err, ErrNotAuthor)
	assert.Equal(t, 0, e.srv.Hits("PUT /api/skills/"+itoa(theirs)))
}

func TestClosedFeedDropsLateResult(t *testing.T) {
	e := newEnv(t)
	seedFeed(e)
	f := NewFeed(e.api, e.sess, FeedOptions{Invalidator: e.inv})

	release := e.srv.Block("GET /api/skills")
	done := make(chan error, 1)
	go func() { done <- f.LoadFeed(context.Background(), ScopeGlobal) }()

	require.Eventually(t, func() bool { return e.srv.Hits("GET /api/skills") == 1 }, waitFor, tick)
	f.Close()
	release()

	assert.ErrorIs(t, <-done, ErrClosed)
	assert.Empty(t, f.Skills())
	assert.Equal(t, 0, e.inv.Count(EntitySkills))
	assert.ErrorIs(t, f.LoadFeed(context.Background(), ScopeGlobal), ErrClosed)
}
