// Package api is the typed contract of the SkillSwap backend as the client
// consumes it. Every call takes a context and returns *APIError for non-2xx
// responses, carrying the server's message verbatim.
package api

import (
	"bytes"
	"context"

	"github.com/go-resty/resty/v2"
	"github.com/pretheevi/skillswap/pkg/client"
)

// Client exposes the backend endpoints
type Client struct {
	http *client.Client
}

// New wraps an HTTP client adapter
func New(c *client.Client) *Client {
	return &Client{http: c}
}

// HTTP returns the underlying adapter
func (c *Client) HTTP() *client.Client {
	return c.http
}

// FetchMedia downloads an image by absolute URL or media-relative path
func (c *Client) FetchMedia(ctx context.Context, path string) ([]byte, string, error) {
	return c.http.Fetch(ctx, path)
}

// Upload is a file part of a multipart request
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

func (u *Upload) attach(req *resty.Request, field string) {
	req.SetMultipartField(field, u.Name, u.ContentType, bytes.NewReader(u.Data))
}

func (c *Client) r(ctx context.Context) *resty.Request {
	return c.http.R(ctx)
}
