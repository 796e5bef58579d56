package api

import (
	"context"
	"fmt"

	"github.com/pretheevi/skillswap/pkg/logger"
)

// ProfilePayload is the multipart body of POST /profile
type ProfilePayload struct {
	Name   string
	Bio    string
	Avatar *Upload
}

// GetProfile gets the session user's profile
func (c *Client) GetProfile(ctx context.Context) (*User, error) {
	logger.Debug("Fetching own profile")

	var user User
	resp, err := c.r(ctx).Get("/profile")
	if err := decode(resp, err, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetProfileByID gets another user's profile; IsFollowing is relative to
// the session user
func (c *Client) GetProfileByID(ctx context.Context, userID int64) (*User, error) {
	logger.Debug("Fetching user profile", "user_id", userID)

	var user User
	resp, err := c.r(ctx).Get(fmt.Sprintf("/profileById/%d", userID))
	if err := decode(resp, err, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates the session user's name, bio and optionally avatar
func (c *Client) UpdateProfile(ctx context.Context, p ProfilePayload) error {
	logger.Debug("Updating profile", "has_avatar", p.Avatar != nil)

	req := c.r(ctx).SetMultipartFormData(map[string]string{
		"name": p.Name,
		"bio":  p.Bio,
	})
	if p.Avatar != nil {
		p.Avatar.attach(req, "avatar")
	}

	resp, err := req.Post("/profile")
	return CheckResponse(resp, err)
}

func (c *Client) listUsers(ctx context.Context, path string) ([]User, error) {
	var users []User
	resp, err := c.r(ctx).Get(path)
	if err := decode(resp, err, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListFollowers lists the session user's followers
func (c *Client) ListFollowers(ctx context.Context) ([]User, error) {
	logger.Debug("Fetching followers")
	return c.listUsers(ctx, "/profile/followers")
}

// ListFollowing lists the users the session user follows
func (c *Client) ListFollowing(ctx context.Context) ([]User, error) {
	logger.Debug("Fetching following")
	return c.listUsers(ctx, "/profile/following")
}

// ListFollowersByID lists a given user's followers
func (c *Client) ListFollowersByID(ctx context.Context, userID int64) ([]User, error) {
	logger.Debug("Fetching followers", "user_id", userID)
	return c.listUsers(ctx, fmt.Sprintf("/profile/followers/byId/%d", userID))
}

// ListFollowingByID lists the users a given user follows
func (c *Client) ListFollowingByID(ctx context.Context, userID int64) ([]User, error) {
	logger.Debug("Fetching following", "user_id", userID)
	return c.listUsers(ctx, fmt.Sprintf("/profile/following/byId/%d", userID))
}

// Follow creates the edge session user -> userID
func (c *Client) Follow(ctx context.Context, userID int64) error {
	logger.Debug("Following user", "user_id", userID)

	resp, err := c.r(ctx).Post(fmt.Sprintf("/users/%d/follow", userID))
	return CheckResponse(resp, err)
}

// Unfollow deletes the edge session user -> userID
func (c *Client) Unfollow(ctx context.Context, userID int64) error {
	logger.Debug("Unfollowing user", "user_id", userID)

	resp, err := c.r(ctx).Delete(fmt.Sprintf("/users/%d/follow", userID))
	return CheckResponse(resp, err)
}

// SearchUsers finds users by name
func (c *Client) SearchUsers(ctx context.Context, query string) ([]User, error) {
	logger.Debug("Searching users", "query", query)

	var users []User
	resp, err := c.r(ctx).
		SetQueryParam("q", query).
		Get("/users/search")
	if err := decode(resp, err, &users); err != nil {
		return nil, err
	}
	return users, nil
}
