package service

import (
	"context"
	"strings"

	"github.com/pretheevi/skillswap/pkg/api"
	"github.com/pretheevi/skillswap/pkg/formatter"
	"github.com/pretheevi/skillswap/pkg/logger"
	"github.com/pretheevi/skillswap/pkg/output"
	"github.com/pretheevi/skillswap/pkg/prompter"
	"github.com/pretheevi/skillswap/pkg/view"
)

// CommentService shows and adds comments on a post
type CommentService struct {
	app *App
}

// NewCommentService creates a new comment service
func NewCommentService(app *App) *CommentService {
	return &CommentService{app: app}
}

// View prints a post and its comments. Comment ids in expand show their
// full text.
func (s *CommentService) View(ctx context.Context, skillID int64, expand []int64) error {
	sess, err := s.app.Gate.RequireSession()
	if err != nil {
		return err
	}

	post, err := s.app.API.GetSkill(ctx, skillID)
	if err != nil {
		return s.app.fail("load post", err)
	}

	thread := s.app.newThread(skillID)
	defer s.closeThread(thread)

	if err := thread.LoadComments(ctx); err != nil {
		return s.app.fail("load comments", err)
	}
	for _, id := range expand {
		thread.Expander.Expand(id)
	}

	if output.GetOutputFormat() == output.FormatText {
		post.CommentCount = thread.CommentCount()
		formatter.Faint.Fprintf(output.Out, "Author avatar: %s\n", thread.AuthorAvatar(ctx, post.UserAvatar))
		if err := formatter.PrintSkills(
			[]api.Skill{*post},
			view.CardOptions{ViewerID: sess.User.ID, MediaURL: s.app.API.HTTP().MediaURL},
		); err != nil {
			return err
		}
		formatter.Bold.Fprintln(output.Out, "\nComments")
	}
	return formatter.PrintComments(thread.Comments(), thread.Expander)
}

// Add posts a comment. Empty text is prompted for; blank text posts nothing.
func (s *CommentService) Add(ctx context.Context, skillID int64, text string) error {
	if _, err := s.app.Gate.RequireSession(); err != nil {
		return err
	}

	if strings.TrimSpace(text) == "" {
		var err error
		if text, err = prompter.PromptString("Comment: "); err != nil {
			return err
		}
	}
	if strings.TrimSpace(text) == "" {
		formatter.PrintWarning("Nothing to post")
		return nil
	}

	thread := s.app.newThread(skillID)
	defer s.closeThread(thread)

	if err := thread.PostComment(ctx, text); err != nil {
		return s.app.fail("post comment", err)
	}

	formatter.PrintSuccess("✓ Comment posted! (%d %s)", thread.CommentCount(), pluralize(thread.CommentCount(), "comment"))
	return nil
}

func (s *CommentService) closeThread(t *view.CommentThread) {
	if err := t.Close(); err != nil {
		logger.Warn("Failed to release avatars", "skill_id", t.SkillID(), "error", err)
	}
}

func pluralize(count int, word string) string {
	if count == 1 {
		return word
	}
	return word + "s"
}
