package api

import (
	"context"
	"fmt"

	"github.com/pretheevi/skillswap/pkg/logger"
)

// ListComments retrieves the comments on a skill, oldest first as the
// server orders them
func (c *Client) ListComments(ctx context.Context, skillID int64) ([]Comment, error) {
	logger.Debug("Getting comments", "skill_id", skillID)

	var comments []Comment
	resp, err := c.r(ctx).Get(fmt.Sprintf("/comments/%d", skillID))
	if err := decode(resp, err, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment posts a new comment on a skill
func (c *Client) CreateComment(ctx context.Context, skillID int64, text string) error {
	logger.Debug("Creating comment", "skill_id", skillID)

	resp, err := c.http.Post(ctx, "/comment", CreateCommentRequest{
		Text:    text,
		SkillID: skillID,
	})
	return CheckResponse(resp, err)
}
