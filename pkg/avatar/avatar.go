// Package avatar resolves profile picture paths into locally usable URLs.
//
// Relative paths are fetched once, written into a private temp directory and
// handed out as file:// URLs. The files live until Release, which a view
// calls when it closes.
package avatar

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pretheevi/skillswap/pkg/client"
	"github.com/pretheevi/skillswap/pkg/logger"
	"golang.org/x/sync/singleflight"
)

// DefaultAvatar is shown when a user has no avatar or it fails to load
const DefaultAvatar = "default-avatar"

// ErrReleased is returned by a fetch that finished after Release
var ErrReleased = errors.New("avatar cache released")

// Fetcher downloads a media path. api.Client implements it.
type Fetcher interface {
	FetchMedia(ctx context.Context, path string) ([]byte, string, error)
}

// Cache maps raw avatar paths to file:// URLs for the lifetime of a view
type Cache struct {
	fetcher Fetcher
	baseDir string

	mu      sync.Mutex
	dir     string
	gen     uint64
	entries map[string]string

	group   singleflight.Group
	fetches atomic.Int64
}

// NewCache creates a cache whose files go under baseDir ("" = os.TempDir)
func NewCache(fetcher Fetcher, baseDir string) *Cache {
	return &Cache{
		fetcher: fetcher,
		baseDir: baseDir,
		entries: make(map[string]string),
	}
}

// Resolve returns a displayable URL for path. An empty path resolves to ""
// and absolute URLs are returned unchanged; neither triggers a fetch.
func (c *Cache) Resolve(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if client.IsAbsoluteURL(path) {
		return path, nil
	}

	c.mu.Lock()
	if u, ok := c.entries[path]; ok {
		c.mu.Unlock()
		return u, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(path, func() (interface{}, error) {
		c.mu.Lock()
		if u, ok := c.entries[path]; ok {
			c.mu.Unlock()
			return u, nil
		}
		gen := c.gen
		c.mu.Unlock()

		c.fetches.Add(1)
		data, contentType, err := c.fetcher.FetchMedia(ctx, path)
		if err != nil {
			return "", fmt.Errorf("fetch avatar %s: %w", path, err)
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen != gen {
			return "", ErrReleased
		}
		dir, err := c.scopeDir()
		if err != nil {
			return "", err
		}
		file := filepath.Join(dir, uuid.NewString()+extensionFor(path, contentType))
		if err := os.WriteFile(file, data, 0600); err != nil {
			return "", fmt.Errorf("write avatar: %w", err)
		}

		u := (&url.URL{Scheme: "file", Path: filepath.ToSlash(file)}).String()
		c.entries[path] = u
		logger.Debug("Avatar cached", "path", path, "file", file)
		return u, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// ResolveOrDefault resolves path and falls back to DefaultAvatar on an empty
// path or any failure. Failures are logged, never returned.
func (c *Cache) ResolveOrDefault(ctx context.Context, path string) string {
	u, err := c.Resolve(ctx, path)
	if err != nil {
		logger.Warn("Avatar unavailable", "path", path, "error", err)
		return DefaultAvatar
	}
	if u == "" {
		return DefaultAvatar
	}
	return u
}

// scopeDir creates the temp directory on first use. Caller holds c.mu.
func (c *Cache) scopeDir() (string, error) {
	if c.dir != "" {
		return c.dir, nil
	}
	dir, err := os.MkdirTemp(c.baseDir, "skillswap-avatars-")
	if err != nil {
		return "", fmt.Errorf("create avatar cache: %w", err)
	}
	c.dir = dir
	return dir, nil
}

// Release deletes every cached file. The cache stays usable and starts a
// fresh scope on the next miss.
func (c *Cache) Release() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.entries = make(map[string]string)
	if c.dir == "" {
		return nil
	}
	dir := c.dir
	c.dir = ""
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("release avatar cache: %w", err)
	}
	return nil
}

// Len returns the number of cached entries
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Dir returns the current scope directory, "" when nothing is cached
func (c *Cache) Dir() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dir
}

// Fetches returns how many network fetches the cache has made
func (c *Cache) Fetches() int64 {
	return c.fetches.Load()
}

// Scope runs fn and releases the cache afterwards, even if fn panics
func Scope(c *Cache, fn func(*Cache) error) (err error) {
	defer func() {
		if rerr := c.Release(); rerr != nil && err == nil {
			err = rerr
		}
	}()
	return fn(c)
}

func extensionFor(path, contentType string) string {
	if ext := filepath.Ext(path); ext != "" && len(ext) <= 5 {
		return strings.ToLower(ext)
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[0]
	}
	return ".img"
}
