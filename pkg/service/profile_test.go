package service

import (
	"context"
	"strings"
	"testing"

	"github.com/pretheevi/skillswap/pkg/api"
	clierrors "github.com/pretheevi/skillswap/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowOwnProfile(t *testing.T) {
	f := newFixture(t, true)
	f.srv.AddSkill(api.Skill{UserID: 1, Title: "Mine"})
	f.srv.AddSkill(api.Skill{UserID: 2, Title: "Theirs"})
	f.srv.SetFollow(2, 1, true)

	require.NoError(t, NewProfileService(f.app).Show(context.Background()))
	s := f.out.String()
	assert.Contains(t, s, "Name: Alice\n")
	assert.Contains(t, s, "Followers: 1\n")
	assert.NotContains(t, s, "Status:")
	assert.Contains(t, s, "Mine")
	assert.NotContains(t, s, "Theirs")
	assert.Equal(t, 1, f.app.Session.Current().User.FollowerCount, "own profile refreshes the session copy")
}

func TestViewOtherProfile(t *testing.T) {
	f := newFixture(t, true)
	f.srv.AddSkill(api.Skill{UserID: 2, Title: "Theirs"})
	f.srv.SetFollow(1, 2, true)

	require.NoError(t, NewProfileService(f.app).View(context.Background(), 2))
	s := f.out.String()
	assert.Contains(t, s, "Name: Bobby\n")
	assert.Contains(t, s, "Status: following\n")
	assert.Contains(t, s, "Theirs")
	assert.Equal(t, 1, f.srv.Hits("GET /api/my-skillsById/2"))
}

func TestViewMissingProfile(t *testing.T) {
	f := newFixture(t, true)

	err := NewProfileService(f.app).View(context.Background(), 42)
	assert.Equal(t, clierrors.ErrorTypeNotFound, categorize(t, err).Type)
}

func TestEditProfileTruncatesBio(t *testing.T) {
	f := newFixture(t, true)

	err := NewProfileService(f.app).Edit(context.Background(), ProfileInput{
		Name: "Alicia",
		Bio:  strings.Repeat("x", 150),
	})
	require.NoError(t, err)

	assert.Equal(t, "Alicia", f.srv.LastProfileForm["name"])
	assert.Len(t, f.srv.LastProfileForm["bio"], 100)
	assert.Contains(t, f.errOut.String(), "Maximum bio length reached")
	assert.Equal(t, "Alicia", f.app.Session.Current().User.Name)
}

func TestEditProfileKeepsDefaults(t *testing.T) {
	f := newFixture(t, true)
	f.input(t, "\nloves Go\n")

	require.NoError(t, NewProfileService(f.app).Edit(context.Background(), ProfileInput{}))
	assert.Equal(t, "Alice", f.srv.LastProfileForm["name"])
	assert.Equal(t, "loves Go", f.srv.LastProfileForm["bio"])
}

func TestEditProfileAvatar(t *testing.T) {
	f := newFixture(t, true)

	err := NewProfileService(f.app).Edit(context.Background(), ProfileInput{
		Name: "Alice", Bio: "hi", Avatar: writePNG(t, 16, 16),
	})
	require.NoError(t, err)
	assert.Equal(t, "pic.png", f.srv.LastProfileForm["avatar"])
}

func TestEditProfileRejectsBadAvatar(t *testing.T) {
	f := newFixture(t, true)

	err := NewProfileService(f.app).Edit(context.Background(), ProfileInput{
		Name: "Alice", Bio: "hi", Avatar: writeFile(t, "a.gif", []byte("GIF89a")),
	})
	assert.Equal(t, clierrors.ErrorTypeValidation, categorize(t, err).Type)
	assert.Zero(t, f.srv.Hits("POST /api/profile"))
}

func TestFollowAndUnfollow(t *testing.T) {
	f := newFixture(t, true)
	svc := NewProfileService(f.app)
	ctx := context.Background()

	require.NoError(t, svc.Follow(ctx, 2))
	assert.True(t, f.srv.IsFollowing(1, 2))
	assert.Contains(t, f.out.String(), "Following Bobby")
	assert.Contains(t, f.out.String(), "Bobby now has 1 follower\n")
	assert.Equal(t, 1, f.app.Session.Current().User.FollowingCount)

	f.out.Reset()
	require.NoError(t, svc.Unfollow(ctx, 2))
	assert.False(t, f.srv.IsFollowing(1, 2))
	assert.Contains(t, f.out.String(), "Bobby now has 0 followers\n")
	assert.Equal(t, 0, f.app.Session.Current().User.FollowingCount)
}

func TestFollowSelf(t *testing.T) {
	f := newFixture(t, true)

	err := NewProfileService(f.app).Follow(context.Background(), 1)
	assert.Equal(t, clierrors.ErrorTypeValidation, categorize(t, err).Type)
	assert.Zero(t, f.srv.TotalHits())
}

func TestFollowerLists(t *testing.T) {
	f := newFixture(t, true)
	svc := NewProfileService(f.app)
	ctx := context.Background()

	require.NoError(t, svc.Followers(ctx, 0))
	assert.Equal(t, "No followers yet.\n", f.out.String())

	f.srv.SetFollow(2, 1, true)
	f.out.Reset()
	require.NoError(t, svc.Followers(ctx, 0))
	assert.Equal(t, "Bobby (#2)\n", f.out.String())

	f.out.Reset()
	require.NoError(t, svc.Following(ctx, 2))
	assert.Equal(t, "Alice (#1)\n", f.out.String())
	assert.Equal(t, 1, f.srv.Hits("GET /api/profile/following/byId/2"))
}

func TestExplore(t *testing.T) {
	f := newFixture(t, true)
	svc := NewSearchService(f.app)
	ctx := context.Background()

	require.NoError(t, svc.Explore(ctx, "bob"))
	assert.Equal(t, "Bobby (#2)\n", f.out.String())

	f.out.Reset()
	require.NoError(t, svc.Explore(ctx, "zed"))
	assert.Equal(t, "No users found.\n", f.out.String())

	f.out.Reset()
	f.input(t, "\n")
	require.NoError(t, svc.Explore(ctx, ""))
	assert.Equal(t, 2, f.srv.Hits("GET /api/users/search"))
}
