package service

import (
	"context"
	"strings"

	"github.com/pretheevi/skillswap/pkg/api"
	"github.com/pretheevi/skillswap/pkg/formatter"
	"github.com/pretheevi/skillswap/pkg/logger"
	"github.com/pretheevi/skillswap/pkg/media"
	"github.com/pretheevi/skillswap/pkg/prompter"
	"github.com/pretheevi/skillswap/pkg/validation"
	"github.com/pretheevi/skillswap/pkg/view"
)

// removeImageAnswer at the image prompt drops the current image
const removeImageAnswer = "-"

// PostService creates, edits and deletes posts
type PostService struct {
	app *App
}

// NewPostService creates a new post service
func NewPostService(app *App) *PostService {
	return &PostService{app: app}
}

// PostInput holds values given on the command line; empty ones are
// prompted for
type PostInput struct {
	Title       string
	Category    string
	Level       string
	Description string
	Image       string
	RemoveImage bool
}

// Create publishes a new post. An image is required.
func (s *PostService) Create(ctx context.Context, in PostInput) error {
	if _, err := s.app.Gate.RequireSession(); err != nil {
		return err
	}

	form := validation.PostForm()
	if err := fillPostForm(form, in, nil); err != nil {
		return err
	}

	draft := media.NewDraft()
	path := in.Image
	if path == "" {
		var err error
		if path, err = prompter.PromptString("Image path: "); err != nil {
			return err
		}
	}
	if path != "" {
		img, err := openImage(path)
		if err != nil {
			return err
		}
		draft.Select(img)
	}

	if !form.Submit() {
		return form.Err()
	}
	payload, err := draft.Payload(postFields(form))
	if err != nil {
		return err
	}

	feed := s.app.newFeed()
	defer feed.Close()

	if err := feed.CreatePost(ctx, payload); err != nil {
		return s.app.fail("create post", err)
	}
	formatter.PrintSuccess("✓ Post created!")
	return nil
}

// Edit changes a post the session user wrote. Current values are offered as
// defaults; the image is kept unless replaced or removed.
func (s *PostService) Edit(ctx context.Context, id int64, in PostInput) error {
	sess, err := s.app.Gate.RequireSession()
	if err != nil {
		return err
	}

	post, err := s.app.API.GetSkill(ctx, id)
	if err != nil {
		return s.app.fail("load post", err)
	}
	if post.UserID != sess.User.ID {
		return s.app.fail("edit post", view.ErrNotAuthor)
	}

	form := validation.PostForm()
	if err := fillPostForm(form, in, post); err != nil {
		return err
	}

	draft := media.EditDraft(post.MediaURL())
	path := in.Image
	if path == "" && !in.RemoveImage {
		label := "Image path (enter to keep current): "
		if draft.Existing != "" {
			label = "Image path (enter to keep current, '-' to remove): "
		}
		if path, err = prompter.PromptString(label); err != nil {
			return err
		}
	}
	switch {
	case path == removeImageAnswer || (path == "" && in.RemoveImage):
		draft.Remove()
	case path != "":
		img, err := openImage(path)
		if err != nil {
			return err
		}
		draft.Select(img)
	}

	if !form.Submit() {
		return form.Err()
	}
	payload, err := draft.Payload(postFields(form))
	if err != nil {
		return err
	}

	feed := s.app.newFeed()
	defer feed.Close()

	logger.Debug("Updating post", "id", id, "new_image", draft.Selected != nil, "remove_image", draft.Removed)
	if err := feed.UpdatePost(ctx, id, payload); err != nil {
		return s.app.fail("update post", err)
	}
	formatter.PrintSuccess("✓ Post updated!")
	return nil
}

// Delete removes a post the session user wrote
func (s *PostService) Delete(ctx context.Context, id int64, force bool) error {
	if _, err := s.app.Gate.RequireSession(); err != nil {
		return err
	}

	if !force {
		confirm, err := prompter.PromptConfirm("Delete this post?")
		if err != nil {
			return err
		}
		if !confirm {
			formatter.PrintInfo("Cancelled")
			return nil
		}
	}

	feed := s.app.newFeed()
	defer feed.Close()

	if err := feed.DeletePost(ctx, id); err != nil {
		return s.app.fail("delete post", err)
	}
	formatter.PrintSuccess("✓ Post deleted")
	return nil
}

// openImage validates a file and prints what will be uploaded
func openImage(path string) (*media.Image, error) {
	img, err := media.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := media.Preview(img)
	if err != nil {
		logger.Warn("Failed to preview image", "file", img.Name, "error", err)
		formatter.PrintInfo("Image: %s", img.Name)
		return img, nil
	}
	logger.Debug("Image preview rendered", "file", img.Name, "thumbnail_bytes", len(info.Thumbnail))
	formatter.PrintInfo("Image: %s (%dx%d %s)", img.Name, info.Width, info.Height, info.Format)
	return img, nil
}

// fillPostForm stores given values and prompts for the rest. With an
// existing post its values are the defaults.
func fillPostForm(form *validation.Form, in PostInput, existing *api.Skill) error {
	var cur api.Skill
	if existing != nil {
		cur = *existing
	}

	title, err := textValue("Title", in.Title, cur.Title, existing != nil)
	if err != nil {
		return err
	}
	form.Set(validation.FieldTitle, title)

	category, err := choiceValue("Category", in.Category, string(cur.Category), categoryOptions(), existing != nil)
	if err != nil {
		return err
	}
	form.Set(validation.FieldCategory, category)

	level, err := choiceValue("Level", in.Level, string(cur.Level), levelOptions(), existing != nil)
	if err != nil {
		return err
	}
	form.Set(validation.FieldLevel, level)

	description := in.Description
	if description == "" {
		if existing != nil {
			description, err = prompter.PromptDefault("Description ", cur.Description)
		} else {
			description, err = prompter.PromptMultilineString("Description", 10)
		}
		if err != nil {
			return err
		}
	}
	form.Set(validation.FieldDescription, description)
	return nil
}

func textValue(label, given, current string, editing bool) (string, error) {
	if given != "" {
		return given, nil
	}
	if editing {
		return prompter.PromptDefault(label+" ", current)
	}
	return prompter.PromptString(label + ": ")
}

func choiceValue(label, given, current string, options []string, editing bool) (string, error) {
	if given != "" {
		return strings.ToLower(strings.TrimSpace(given)), nil
	}
	if editing {
		v, err := prompter.PromptDefault(label+" ", current)
		return strings.ToLower(v), err
	}
	i, err := prompter.PromptSelect(label, options)
	if err != nil {
		return "", err
	}
	return options[i], nil
}

func categoryOptions() []string {
	out := make([]string, len(api.Categories))
	for i, c := range api.Categories {
		out[i] = string(c)
	}
	return out
}

func levelOptions() []string {
	out := make([]string, len(api.Levels))
	for i, l := range api.Levels {
		out[i] = string(l)
	}
	return out
}

func postFields(form *validation.Form) media.Fields {
	return media.Fields{
		Title:       form.Value(validation.FieldTitle),
		Category:    api.Category(form.Value(validation.FieldCategory)),
		Level:       api.Level(form.Value(validation.FieldLevel)),
		Description: form.Value(validation.FieldDescription),
	}
}
