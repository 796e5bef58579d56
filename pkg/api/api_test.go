package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/pretheevi/skillswap/internal/testutil"
	"github.com/pretheevi/skillswap/pkg/api"
	"github.com/pretheevi/skillswap/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPI(t *testing.T, srv *testutil.Server, token *string) *api.Client {
	t.Helper()
	c := client.New(client.Options{
		BaseURL:      srv.APIURL(),
		MediaBaseURL: srv.URL,
		Timeout:      5 * time.Second,
	}, client.TokenFunc(func() string { return *token }))
	return api.New(c)
}

func TestLoginReturnsTokenAndUser(t *testing.T) {
	srv := testutil.NewServer(t)
	want := srv.AddUser(api.User{ID: 1, Name: "Alice", Email: "a@b.com"}, "12345")
	token := ""
	c := newAPI(t, srv, &token)

	resp, err := c.Login(context.Background(), api.LoginRequest{Email: "a@b.com", Password: "12345"})
	require.NoError(t, err)
	assert.Equal(t, want, resp.Token)
	assert.Equal(t, int64(1), resp.User.ID)
	assert.Equal(t, "Alice", resp.User.Name)
}

func TestLoginFailureCarriesServerMessage(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.AddUser(api.User{ID: 1, Name: "Alice", Email: "a@b.com"}, "12345")
	token := ""
	c := newAPI(t, srv, &token)

	_, err := c.Login(context.Background(), api.LoginRequest{Email: "a@b.com", Password: "nope1"})
	require.Error(t, err)

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid email or password", apiErr.ServerMessage())
	assert.True(t, api.IsUnauthorized(err))
}

func TestRegisterUsesMessageKey(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.AddUser(api.User{ID: 1, Name: "Alice", Email: "a@b.com"}, "12345")
	token := ""
	c := newAPI(t, srv, &token)
	ctx := context.Background()

	err := c.Register(ctx, api.RegisterRequest{Name: "Bobby", Email: "bob@b.com", Password: "12345", ConfirmPassword: "12345"})
	require.NoError(t, err)

	err = c.Register(ctx, api.RegisterRequest{Name: "Alice", Email: "a@b.com", Password: "12345", ConfirmPassword: "12345"})
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Email already registered", apiErr.Message)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := testutil.NewServer(t)
	token := ""
	c := newAPI(t, srv, &token)

	_, err := c.ListSkills(context.Background())
	assert.True(t, api.IsUnauthorized(err))
}

func TestSkillLists(t *testing.T) {
	srv := testutil.NewServer(t)
	token := srv.AddUser(api.User{ID: 1, Name: "Alice", Email: "a@b.com"}, "12345")
	srv.AddUser(api.User{ID: 2, Name: "Bobby", Email: "b@b.com"}, "12345")
	srv.AddSkill(api.Skill{UserID: 1, Title: "Go", Category: api.CategoryWeb})
	srv.AddSkill(api.Skill{UserID: 2, Title: "Figma", Category: api.CategoryDesign})
	c := newAPI(t, srv, &token)
	ctx := context.Background()

	all, err := c.ListSkills(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "Figma", all[0].Title)
	assert.Equal(t, "Bobby", all[0].UserName)

	mine, err := c.ListMySkills(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Go", mine[0].Title)

	theirs, err := c.ListSkillsByUser(ctx, 2)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, api.CategoryDesign, theirs[0].Category)
}

func TestGetSkillNormalizesDetail(t *testing.T) {
	srv := testutil.NewServer(t)
	token := srv.AddUser(api.User{ID: 1, Name: "Alice", Email: "a@b.com"}, "12345")
	id := srv.AddSkill(api.Skill{
		UserID: 1, Title: "Go", Description: "channels", Category: api.CategoryWeb,
		Level: api.LevelExpert, Rating: 4, Media: []api.Media{{ID: 9, URL: "/uploads/go.png"}},
	})
	c := newAPI(t, srv, &token)

	skill, err := c.GetSkill(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, skill.ID)
	assert.Equal(t, "Go", skill.Title)
	assert.Equal(t, "channels", skill.Description)
	assert.Equal(t, api.LevelExpert, skill.Level)
	assert.Equal(t, 4, skill.Rating)
	assert.Equal(t, "/uploads/go.png", skill.MediaURL())

	_, err = c.GetSkill(context.Background(), 999)
	assert.True(t, api.IsNotFound(err))
}

func TestCreateSkillSendsMultipart(t *testing.T) {
	srv := testutil.NewServer(t)
	token := srv.AddUser(api.User{ID: 1, Name: "Alice", Email: "a@b.com"}, "12345")
	c := newAPI(t, srv, &token)

	err := c.CreateSkill(context.Background(), api.SkillPayload{
		Title:       "Go",
		Category:    api.CategoryWeb,
		Level:       api.LevelBeginner,
		Description: "goroutines",
		Media:       &api.Upload{Name: "go.png", ContentType: "image/png", Data: []byte("png-bytes")},
	})
	require.NoError(t, err)

	form := srv.LastSkillForm
	assert.Equal(t, "Go", form.Fields["title"])
	assert.Equal(t, "web", form.Fields["category"])
	assert.Equal(t, "beginner", form.Fields["level"])
	assert.Equal(t, "goroutines", form.Fields["description"])
	assert.True(t, form.HasMedia)
	assert.Equal(t, "go.png", form.MediaName)
	assert.Equal(t, "image/png", form.MediaType)
	assert.Equal(t, len("png-bytes"), form.MediaBytes)
	assert.Equal(t, 1, srv.SkillCount())
}

func TestUpdateSkillMediaModes(t *testing.T) {
	srv := testutil.NewServer(t)
	token := srv.AddUser(api.User{ID: 1, Name: "Alice", Email: "a@b.com"}, "12345")
	id := srv.AddSkill(api.Skill{UserID: 1, Title: "Go", Media: []api.Media{{URL: "/uploads/go.png"}}})
	c := newAPI(t, srv, &token)
	ctx := context.Background()

	// untouched image: no media part at all
	err := c.UpdateSkill(ctx, id, api.SkillPayload{Title: "Go 2", Category: api.CategoryWeb, Level: api.LevelExpert})
	require.NoError(t, err)
	assert.False(t, srv.LastSkillForm.HasMediaKey)
	skill, err := c.GetSkill(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Go 2", skill.Title)
	assert.Equal(t, "/uploads/go.png", skill.MediaURL())

	// removed image: empty media and explicit flag
	err = c.UpdateSkill(ctx, id, api.SkillPayload{Title: "Go 2", Category: api.CategoryWeb, Level: api.LevelExpert, RemoveMedia: true})
	require.NoError(t, err)
	assert.True(t, srv.LastSkillForm.HasMediaKey)
	assert.False(t, srv.LastSkillForm.HasMedia)
	assert.Equal(t, "true", srv.LastSkillForm.Fields["remove_media"])
	skill, err = c.GetSkill(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, skill.MediaURL())
}

func TestDeleteSkillForbiddenForNonAuthor(t *testing.T) {
	srv := testutil.NewServer(t)
	token := srv.AddUser(api.User{ID: 1, Name: "Alice", Email: "a@b.com"}, "12345")
	srv.AddUser(api.User{ID: 2, Name: "Bobby", Email: "b@b.com"}, "12345")
	theirs := srv.AddSkill(api.Skill{UserID: 2, Title: "Figma"})
	mine := srv.AddSkill(api.Skill{UserID: 1, Title: "Go"})
	c := newAPI(t, srv, &token)
	ctx := context.Background()

	err := c.DeleteSkill(ctx, theirs)
	assert.True(t, api.IsForbidden(err))

	require.NoError(t, c.DeleteSkill(ctx, mine))
	assert.Equal(t, 1, srv.SkillCount())
}

func TestComments(t *testing.T) {
	srv := testutil.NewServer(t)
	token := srv.AddUser(api.User{ID: 1, Name: "Alice", Email: "a@b.com", Avatar: "/uploads/a.png"}, "12345")
	id := srv.AddSkill(api.Skill{UserID: 1, Title: "Go"})
	c := newAPI(t, srv, &token)
	ctx := context.Background()

	require.NoError(t, c.CreateComment(ctx, id, "nice"))
	comments, err := c.ListComments(ctx, id)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "nice", comments[0].Text)
	assert.Equal(t, "Alice", comments[0].UserName)
	assert.Equal(t, "/uploads/a.png", comments[0].UserAvatar)
}

func TestProfileAndFollowGraph(t *testing.T) {
	srv := testutil.NewServer(t)
	token := srv.AddUser(api.User{ID: 1, Name: "Alice", Email: "a@b.com"}, "12345")
	srv.AddUser(api.User{ID: 2, Name: "Bobby", Email: "b@b.com"}, "12345")
	srv.SetFollow(2, 1, true)
	c := newAPI(t, srv, &token)
	ctx := context.Background()

	require.NoError(t, c.Follow(ctx, 2))
	assert.True(t, srv.IsFollowing(1, 2))

	bob, err := c.GetProfileByID(ctx, 2)
	require.NoError(t, err)
	assert.True(t, bob.IsFollowing)
	assert.Equal(t, 1, bob.FollowerCount)

	me, err := c.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, me.FollowerCount)
	assert.Equal(t, 1, me.FollowingCount)

	followers, err := c.ListFollowers(ctx)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, int64(2), followers[0].ID)

	following, err := c.ListFollowingByID(ctx, 2)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, int64(1), following[0].ID)

	require.NoError(t, c.Unfollow(ctx, 2))
	assert.False(t, srv.IsFollowing(1, 2))
	assert.Equal(t, 1, srv.Hits("DELETE /api/users/2/follow"))
}

func TestUpdateProfileWithAvatar(t *testing.T) {
	srv := testutil.NewServer(t)
	token := srv.AddUser(api.User{ID: 1, Name: "Alice", Email: "a@b.com"}, "12345")
	c := newAPI(t, srv, &token)
	ctx := context.Background()

	err := c.UpdateProfile(ctx, api.ProfilePayload{
		Name:   "Alicia",
		Bio:    "hello",
		Avatar: &api.Upload{Name: "me.png", ContentType: "image/png", Data: []byte("x")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", srv.LastProfileForm["name"])
	assert.Equal(t, "hello", srv.LastProfileForm["bio"])
	assert.Equal(t, "me.png", srv.LastProfileForm["avatar"])

	me, err := c.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/me.png", me.Avatar)
}

func TestSearchUsersEncodesQuery(t *testing.T) {
	srv := testutil.NewServer(t)
	token := srv.AddUser(api.User{ID: 1, Name: "Alice", Email: "a@b.com"}, "12345")
	srv.AddUser(api.User{ID: 2, Name: "Mary Jane", Email: "m@b.com"}, "12345")
	srv.AddUser(api.User{ID: 3, Name: "Bobby", Email: "b@b.com"}, "12345")
	c := newAPI(t, srv, &token)

	users, err := c.SearchUsers(context.Background(), "y j")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Mary Jane", users[0].Name)
}

func TestServerErrorPassesThrough(t *testing.T) {
	srv := testutil.NewServer(t)
	token := srv.AddUser(api.User{ID: 1, Name: "Alice", Email: "a@b.com"}, "12345")
	srv.Fail("GET /api/skills", http.StatusInternalServerError, "database unavailable")
	c := newAPI(t, srv, &token)

	_, err := c.ListSkills(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsServerError(err))
	assert.Contains(t, err.Error(), "database unavailable")
}

func TestFetchMedia(t *testing.T) {
	srv := testutil.NewServer(t)
	token := ""
	path := srv.AddMedia("a.png", []byte("\x89PNG\r\n\x1a\nrest"))
	c := newAPI(t, srv, &token)

	data, contentType, err := c.FetchMedia(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\nrest"), data)
}
