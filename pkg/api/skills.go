package api

import (
	"context"
	"fmt"
	"strconv"

	json "github.com/json-iterator/go"
	"github.com/pretheevi/skillswap/pkg/logger"
)

// SkillPayload is the multipart body of POST /skills and PUT /skills/:id.
// Media nil and RemoveMedia false leaves the existing image untouched.
type SkillPayload struct {
	Title       string
	Category    Category
	Level       Level
	Description string
	Media       *Upload
	RemoveMedia bool
}

// FormFields returns the text parts of the payload
func (p SkillPayload) FormFields() map[string]string {
	fields := map[string]string{
		"title":       p.Title,
		"category":    string(p.Category),
		"level":       string(p.Level),
		"description": p.Description,
	}
	if p.Media == nil && p.RemoveMedia {
		fields["media"] = ""
		fields["remove_media"] = "true"
	}
	return fields
}

// skillDetail is the shape of GET /skills/:id
type skillDetail struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Category     Category        `json:"category"`
	Level        Level           `json:"level"`
	Rating       int             `json:"rating"`
	Media        json.RawMessage `json:"media"`
	CommentCount int             `json:"comment_count"`
	UserID       int64           `json:"user_id"`
	UserName     string          `json:"user_name"`
	UserAvatar   string          `json:"user_avatar"`
	CreatedAt    string          `json:"created_at"`
}

func (d *skillDetail) normalize() Skill {
	s := Skill{
		ID:           d.ID,
		Title:        d.Title,
		Description:  d.Description,
		Category:     d.Category,
		Level:        d.Level,
		Rating:       d.Rating,
		CommentCount: d.CommentCount,
		UserID:       d.UserID,
		UserName:     d.UserName,
		UserAvatar:   d.UserAvatar,
		CreatedAt:    d.CreatedAt,
	}
	s.Media = decodeMedia(d.Media)
	return s
}

// decodeMedia accepts a single media object or a list of them
func decodeMedia(raw json.RawMessage) []Media {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var list []Media
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var one Media
	if err := json.Unmarshal(raw, &one); err == nil && one.URL != "" {
		return []Media{one}
	}
	return nil
}

func (c *Client) listSkills(ctx context.Context, path string) ([]Skill, error) {
	var skills []Skill
	resp, err := c.r(ctx).Get(path)
	if err := decode(resp, err, &skills); err != nil {
		return nil, err
	}
	return skills, nil
}

// ListSkills returns every post in the global feed
func (c *Client) ListSkills(ctx context.Context) ([]Skill, error) {
	logger.Debug("Listing skills")
	return c.listSkills(ctx, "/skills")
}

// ListMySkills returns the session user's posts
func (c *Client) ListMySkills(ctx context.Context) ([]Skill, error) {
	logger.Debug("Listing my skills")
	return c.listSkills(ctx, "/my-skills")
}

// ListSkillsByUser returns another user's posts
func (c *Client) ListSkillsByUser(ctx context.Context, userID int64) ([]Skill, error) {
	logger.Debug("Listing skills by user", "user_id", userID)
	return c.listSkills(ctx, "/my-skillsById/"+strconv.FormatInt(userID, 10))
}

// GetSkill retrieves a post by ID
func (c *Client) GetSkill(ctx context.Context, id int64) (*Skill, error) {
	logger.Debug("Fetching skill", "skill_id", id)

	var detail skillDetail
	resp, err := c.r(ctx).Get(fmt.Sprintf("/skills/%d", id))
	if err := decode(resp, err, &detail); err != nil {
		return nil, err
	}

	skill := detail.normalize()
	return &skill, nil
}

// CreateSkill creates a post from a multipart payload
func (c *Client) CreateSkill(ctx context.Context, p SkillPayload) error {
	logger.Debug("Creating skill", "title", p.Title, "has_media", p.Media != nil)

	req := c.r(ctx).SetMultipartFormData(p.FormFields())
	if p.Media != nil {
		p.Media.attach(req, "media")
	}

	resp, err := req.Post("/skills")
	return CheckResponse(resp, err)
}

// UpdateSkill edits a post. Only the author may call it.
func (c *Client) UpdateSkill(ctx context.Context, id int64, p SkillPayload) error {
	logger.Debug("Updating skill", "skill_id", id, "has_media", p.Media != nil, "remove_media", p.RemoveMedia)

	req := c.r(ctx).SetMultipartFormData(p.FormFields())
	if p.Media != nil {
		p.Media.attach(req, "media")
	}

	resp, err := req.Put(fmt.Sprintf("/skills/%d", id))
	return CheckResponse(resp, err)
}

// DeleteSkill deletes a post permanently
func (c *Client) DeleteSkill(ctx context.Context, id int64) error {
	logger.Debug("Deleting skill", "skill_id", id)

	resp, err := c.r(ctx).Delete(fmt.Sprintf("/skills/%d", id))
	return CheckResponse(resp, err)
}
