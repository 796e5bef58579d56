// Package session keeps the authenticated user's token and last-fetched
// profile on disk and in memory.
//
// The Store is the only state shared between commands. Readers always get a
// copy of the current snapshot, and Save/Clear swap the snapshot and the file
// as a unit, so a reader never observes a half-written session.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/json-iterator/go"
	"github.com/pretheevi/skillswap/pkg/api"
	"github.com/pretheevi/skillswap/pkg/logger"
)

// Session is the persisted login state
type Session struct {
	Token   string    `json:"token"`
	User    api.User  `json:"user"`
	SavedAt time.Time `json:"saved_at"`
}

// IsValid reports whether the session carries a token
func (s *Session) IsValid() bool {
	return s != nil && s.Token != ""
}

// Store persists a Session as JSON at a fixed path
type Store struct {
	path string

	mu      sync.RWMutex
	current *Session
}

// NewStore creates a store backed by path. Nothing is read until Load.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// Load reads the session from disk. A missing file means "no session" and
// returns nil, nil.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.swap(nil)
			return nil, nil
		}
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", s.path, err)
	}

	s.swap(&sess)
	return sess.copy(), nil
}

// Save writes the session to disk and makes it current
func (s *Store) Save(sess *Session) error {
	if sess == nil {
		return errors.New("session is nil")
	}
	next := sess.copy()
	if next.SavedAt.IsZero() {
		next.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFileAtomic(s.path, data, 0600); err != nil {
		return err
	}
	s.current = next

	logger.Debug("Session saved", "user_id", next.User.ID)
	return nil
}

// UpdateUser replaces the stored user profile, keeping the token
func (s *Store) UpdateUser(user api.User) error {
	cur := s.Current()
	if cur == nil {
		return errors.New("no active session")
	}
	cur.User = user
	cur.SavedAt = time.Now()
	return s.Save(cur)
}

// Clear removes the session from disk and memory
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	logger.Debug("Session cleared")
	return nil
}

// Current returns a copy of the in-memory session, or nil
func (s *Store) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.copy()
}

// Token implements client.TokenSource
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// UserID returns the session user's id, or 0 without a session
func (s *Store) UserID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return 0
	}
	return s.current.User.ID
}

// IsAuthenticated reports whether a token is loaded
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *Store) swap(sess *Session) {
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
}

func (s *Session) copy() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// writeFileAtomic writes to a temp file in the same directory and renames
// it over path.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
