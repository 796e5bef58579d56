package service

import (
	"context"
	"fmt"

	"github.com/pretheevi/skillswap/pkg/api"
	clierrors "github.com/pretheevi/skillswap/pkg/errors"
	"github.com/pretheevi/skillswap/pkg/formatter"
	"github.com/pretheevi/skillswap/pkg/logger"
	"github.com/pretheevi/skillswap/pkg/view"
)

// FeedService renders the home feed
type FeedService struct {
	app *App
}

// NewFeedService creates a new feed service
func NewFeedService(app *App) *FeedService {
	return &FeedService{app: app}
}

// HomeOptions filter and expand the home feed
type HomeOptions struct {
	Category string
	Expand   []int64
}

// Home prints every post, optionally narrowed to one category. Posts in
// Expand show their full description.
func (s *FeedService) Home(ctx context.Context, opts HomeOptions) error {
	sess, err := s.app.Gate.RequireSession()
	if err != nil {
		return err
	}

	var category api.Category
	if opts.Category != "" {
		c, ok := api.ParseCategory(opts.Category)
		if !ok {
			return clierrors.ValidationError("category", fmt.Sprintf("Unknown category %q", opts.Category))
		}
		category = c
	}

	feed := s.app.newFeed()
	defer feed.Close()

	logger.Debug("Loading home feed", "category", category)
	if err := feed.LoadFeed(ctx, view.ScopeGlobal); err != nil {
		return s.app.fail("load feed", err)
	}
	feed.SetCategoryFilter(category)
	for _, id := range opts.Expand {
		feed.Expander.Expand(id)
	}

	return s.printFeed(feed, sess.User.ID)
}

func (s *FeedService) printFeed(feed *view.Feed, viewer int64) error {
	return formatter.PrintSkills(feed.Visible(), view.CardOptions{
		ViewerID: viewer,
		Expander: feed.Expander,
		MediaURL: s.app.API.HTTP().MediaURL,
	})
}
