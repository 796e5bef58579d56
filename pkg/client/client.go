package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	json "github.com/json-iterator/go"
	"github.com/pretheevi/skillswap/pkg/config"
	"github.com/pretheevi/skillswap/pkg/logger"
)

// Version is reported in the User-Agent header
const Version = "0.1.0"

// TokenSource supplies the bearer token for each outgoing request.
// session.Store implements it.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource
type TokenFunc func() string

// Token implements TokenSource
func (f TokenFunc) Token() string { return f() }

// Options configures a Client
type Options struct {
	BaseURL      string
	MediaBaseURL string
	Timeout      time.Duration
}

// OptionsFromConfig reads client options from the loaded configuration
func OptionsFromConfig() Options {
	return Options{
		BaseURL:      config.GetString("api.base_url"),
		MediaBaseURL: config.GetString("api.media_base_url"),
		Timeout:      time.Duration(config.GetInt("api.timeout")) * time.Second,
	}
}

// Client wraps outbound requests to the SkillSwap backend
type Client struct {
	http         *resty.Client
	mediaBaseURL string
	tokens       TokenSource
}

// New creates a client. The token is read from tokens before every request,
// so logging in or out takes effect without rebuilding the client.
func New(opts Options, tokens TokenSource) *Client {
	httpClient := resty.New()
	httpClient.SetBaseURL(strings.TrimRight(opts.BaseURL, "/"))
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}
	httpClient.SetHeader("User-Agent", "SkillSwap-CLI/"+Version)
	httpClient.SetJSONMarshaler(json.Marshal)
	httpClient.SetJSONUnmarshaler(json.Unmarshal)

	c := &Client{
		http:         httpClient,
		mediaBaseURL: strings.TrimRight(opts.MediaBaseURL, "/"),
		tokens:       tokens,
	}

	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		requestID := uuid.NewString()
		req.SetHeader("X-Request-ID", requestID)

		if token := c.token(); token != "" {
			req.SetHeader("Authorization", "Bearer "+token)
		}

		logger.Debug("HTTP Request", "method", req.Method, "url", req.URL, "request_id", requestID)
		return nil
	})

	httpClient.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug("HTTP Response",
			"status", resp.StatusCode(),
			"url", resp.Request.URL,
			"request_id", resp.Request.Header.Get("X-Request-ID"),
			"elapsed", resp.Time())
		return nil
	})

	return c
}

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

// R returns a request bound to ctx
func (c *Client) R(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx)
}

// Get issues a GET against the base URL
func (c *Client) Get(ctx context.Context, path string) (*resty.Response, error) {
	return c.R(ctx).Get(path)
}

// Post issues a JSON POST against the base URL
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*resty.Response, error) {
	req := c.R(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	return req.Post(path)
}

// Put issues a JSON PUT against the base URL
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*resty.Response, error) {
	req := c.R(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	return req.Put(path)
}

// Delete issues a DELETE against the base URL
func (c *Client) Delete(ctx context.Context, path string) (*resty.Response, error) {
	return c.R(ctx).Delete(path)
}

// IsAbsoluteURL reports whether path already carries a scheme
func IsAbsoluteURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// MediaURL turns a relative media path into a URL on the media host
func (c *Client) MediaURL(path string) string {
	if IsAbsoluteURL(path) || path == "" {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.mediaBaseURL + path
}

// Fetch downloads a media resource as raw bytes
func (c *Client) Fetch(ctx context.Context, path string) ([]byte, string, error) {
	resp, err := c.R(ctx).Get(c.MediaURL(path))
	if err != nil {
		return nil, "", err
	}
	if !resp.IsSuccess() {
		return nil, "", fmt.Errorf("fetch %s: %s", path, resp.Status())
	}
	return resp.Body(), resp.Header().Get("Content-Type"), nil
}

// HTTP exposes the underlying resty client
func (c *Client) HTTP() *resty.Client {
	return c.http
}
