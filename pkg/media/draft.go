package media

import (
	"github.com/pretheevi/skillswap/pkg/api"
	clierrors "github.com/pretheevi/skillswap/pkg/errors"
)

// Mode of the post form
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// MsgImageRequired is returned when a new post has no image
const MsgImageRequired = "Please upload an image"

// Fields are the text parts of a post
type Fields struct {
	Title       string
	Category    api.Category
	Level       api.Level
	Description string
}

// Draft tracks the image of a post being created or edited. In edit mode
// Existing is the post's current media URL.
type Draft struct {
	Mode     Mode
	Existing string
	Selected *Image
	Removed  bool
}

// NewDraft starts a create-mode draft
func NewDraft() *Draft {
	return &Draft{Mode: ModeCreate}
}

// EditDraft starts an edit-mode draft for a post with the given media URL
func EditDraft(existing string) *Draft {
	return &Draft{Mode: ModeEdit, Existing: existing}
}

// Select replaces the image with a new file
func (d *Draft) Select(img *Image) {
	d.Selected = img
	d.Removed = false
}

// Remove drops both a selected file and the existing image
func (d *Draft) Remove() {
	d.Selected = nil
	d.Removed = d.Existing != ""
}

// Current describes what the post will show: a file name, the existing URL,
// or "" when there is no image
func (d *Draft) Current() string {
	switch {
	case d.Selected != nil:
		return d.Selected.Name
	case d.Removed:
		return ""
	default:
		return d.Existing
	}
}

// Payload builds the request for the draft's mode
func (d *Draft) Payload(f Fields) (api.SkillPayload, error) {
	p := api.SkillPayload{
		Title:       f.Title,
		Category:    f.Category,
		Level:       f.Level,
		Description: f.Description,
	}

	if d.Selected != nil {
		p.Media = d.Selected.Upload()
		return p, nil
	}

	if d.Mode == ModeCreate {
		return p, clierrors.ValidationError("media", MsgImageRequired)
	}

	p.RemoveMedia = d.Removed
	return p, nil
}
