package service

import (
	"context"

	"github.com/pretheevi/skillswap/pkg/api"
	"github.com/pretheevi/skillswap/pkg/config"
	clierrors "github.com/pretheevi/skillswap/pkg/errors"
	"github.com/pretheevi/skillswap/pkg/formatter"
	"github.com/pretheevi/skillswap/pkg/output"
	"github.com/pretheevi/skillswap/pkg/prompter"
	"github.com/pretheevi/skillswap/pkg/validation"
	"github.com/pretheevi/skillswap/pkg/view"
)

const (
	defaultMaxName = 50
	defaultMaxBio  = 100
)

// ProfileService shows and edits profiles and manages follows
type ProfileService struct {
	app *App
}

// NewProfileService creates a new profile service
func NewProfileService(app *App) *ProfileService {
	return &ProfileService{app: app}
}

// Show prints the session user's profile and posts
func (s *ProfileService) Show(ctx context.Context) error {
	return s.View(ctx, 0)
}

// View prints a profile with its posts. 0 is the session user.
func (s *ProfileService) View(ctx context.Context, userID int64) error {
	sess, err := s.app.Gate.RequireSession()
	if err != nil {
		return err
	}
	self := userID == 0 || userID == sess.User.ID

	graph := s.app.newFollowGraph()
	defer graph.Close()
	feed := s.app.newFeed()
	defer feed.Close()

	if err := graph.LoadProfile(ctx, userID); err != nil {
		return s.app.fail("load profile", err)
	}
	profile := graph.Profile()

	scope := view.ScopeMine
	if !self {
		scope = view.ScopeUser(profile.ID)
	}
	if err := feed.LoadFeed(ctx, scope); err != nil {
		return s.app.fail("load posts", err)
	}

	state := ""
	if !self {
		state = graph.State(profile.ID).String()
	}
	if err := formatter.PrintProfile(*profile, graph.DisplayFollowerCount(), state); err != nil {
		return err
	}
	if output.GetOutputFormat() != output.FormatJSON {
		formatter.Bold.Fprintln(output.Out, "\nPosts")
	}
	return formatter.PrintSkills(feed.Skills(), view.CardOptions{
		ViewerID: sess.User.ID,
		Expander: feed.Expander,
		MediaURL: s.app.API.HTTP().MediaURL,
	})
}

// ProfileInput holds values given on the command line; empty ones are
// prompted for with the current value as default
type ProfileInput struct {
	Name   string
	Bio    string
	Avatar string
}

// Edit updates the session user's name, bio and avatar. Input longer than
// the configured limits is cut to the limit.
func (s *ProfileService) Edit(ctx context.Context, in ProfileInput) error {
	if _, err := s.app.Gate.RequireSession(); err != nil {
		return err
	}

	graph := s.app.newFollowGraph()
	defer graph.Close()

	if err := graph.LoadProfile(ctx, 0); err != nil {
		return s.app.fail("load profile", err)
	}
	cur := graph.Profile()

	form := validation.ProfileForm(limit("profile.max_name", defaultMaxName), limit("profile.max_bio", defaultMaxBio))
	for _, f := range []struct{ field, label, given, current string }{
		{validation.FieldName, "Name ", in.Name, cur.Name},
		{validation.FieldBio, "Bio ", in.Bio, cur.Bio},
	} {
		value := f.given
		if value == "" {
			var err error
			if value, err = prompter.PromptDefault(f.label, f.current); err != nil {
				return err
			}
		}
		if _, notice := form.LiveTruncate(f.field, value); notice != "" {
			formatter.PrintWarning("%s", notice)
		}
	}

	var avatar *api.Upload
	if in.Avatar != "" {
		img, err := openImage(in.Avatar)
		if err != nil {
			return err
		}
		avatar = img.Upload()
	}

	if !form.Submit() {
		return form.Err()
	}

	err := graph.UpdateProfile(ctx, api.ProfilePayload{
		Name:   form.Value(validation.FieldName),
		Bio:    form.Value(validation.FieldBio),
		Avatar: avatar,
	})
	if err != nil {
		return s.app.fail("update profile", err)
	}

	formatter.PrintSuccess("✓ Profile updated!")
	if p := graph.Profile(); p != nil {
		return formatter.PrintProfile(*p, graph.DisplayFollowerCount(), "")
	}
	return nil
}

// Followers lists who follows userID; 0 is the session user
func (s *ProfileService) Followers(ctx context.Context, userID int64) error {
	if _, err := s.app.Gate.RequireSession(); err != nil {
		return err
	}

	graph := s.app.newFollowGraph()
	defer graph.Close()

	if err := graph.LoadFollowers(ctx, userID); err != nil {
		return s.app.fail("load followers", err)
	}
	return formatter.PrintUsers(graph.Followers(), "No followers yet.")
}

// Following lists who userID follows; 0 is the session user
func (s *ProfileService) Following(ctx context.Context, userID int64) error {
	if _, err := s.app.Gate.RequireSession(); err != nil {
		return err
	}

	graph := s.app.newFollowGraph()
	defer graph.Close()

	if err := graph.LoadFollowing(ctx, userID); err != nil {
		return s.app.fail("load following", err)
	}
	return formatter.PrintUsers(graph.FollowingList(), "Not following anyone yet.")
}

// Follow makes the session user follow userID
func (s *ProfileService) Follow(ctx context.Context, userID int64) error {
	return s.changeFollow(ctx, userID, true)
}

// Unfollow makes the session user stop following userID
func (s *ProfileService) Unfollow(ctx context.Context, userID int64) error {
	return s.changeFollow(ctx, userID, false)
}

func (s *ProfileService) changeFollow(ctx context.Context, userID int64, follow bool) error {
	sess, err := s.app.Gate.RequireSession()
	if err != nil {
		return err
	}
	if userID == sess.User.ID {
		return clierrors.ValidationError("user", "You cannot follow yourself")
	}

	graph := s.app.newFollowGraph()
	defer graph.Close()

	if err := graph.LoadProfile(ctx, userID); err != nil {
		return s.app.fail("load profile", err)
	}
	name := graph.Profile().Name

	action := "follow"
	if follow {
		err = graph.Follow(ctx, userID)
	} else {
		action = "unfollow"
		err = graph.Unfollow(ctx, userID)
	}
	if err != nil {
		return s.app.fail(action+" "+name, err)
	}

	if follow {
		formatter.PrintSuccess("✓ Following %s", name)
	} else {
		formatter.PrintSuccess("✓ Unfollowed %s", name)
	}
	formatter.PrintInfo("%s now has %d %s", name, graph.DisplayFollowerCount(), pluralize(graph.DisplayFollowerCount(), "follower"))
	return nil
}

func limit(key string, fallback int) int {
	if n := config.GetInt(key); n > 0 {
		return n
	}
	return fallback
}
