package api

import (
	"context"

	"github.com/pretheevi/skillswap/pkg/logger"
)

// Login authenticates user with email and password
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	logger.Debug("Attempting login", "email", req.Email)

	var loginResp LoginResponse
	resp, err := c.http.Post(ctx, "/login", req)
	if err := decode(resp, err, &loginResp); err != nil {
		return nil, err
	}

	logger.Debug("Login successful", "user_id", loginResp.User.ID)
	return &loginResp, nil
}

// Register creates an account. The backend answers 201 with no session;
// the user logs in afterwards.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	logger.Debug("Registering user", "email", req.Email)

	resp, err := c.http.Post(ctx, "/register", req)
	return CheckResponse(resp, err)
}
