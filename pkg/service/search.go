package service

import (
	"context"
	"strings"

	"github.com/pretheevi/skillswap/pkg/formatter"
	"github.com/pretheevi/skillswap/pkg/logger"
	"github.com/pretheevi/skillswap/pkg/prompter"
)

// SearchService finds other users
type SearchService struct {
	app *App
}

// NewSearchService creates a new search service
func NewSearchService(app *App) *SearchService {
	return &SearchService{app: app}
}

// Explore searches users by name
func (s *SearchService) Explore(ctx context.Context, query string) error {
	if _, err := s.app.Gate.RequireSession(); err != nil {
		return err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		var err error
		if query, err = prompter.PromptString("Search users: "); err != nil {
			return err
		}
	}
	if query == "" {
		formatter.PrintInfo("Type a name to search")
		return nil
	}

	logger.Debug("Searching users", "query", query)
	users, err := s.app.API.SearchUsers(ctx, query)
	if err != nil {
		return s.app.fail("search users", err)
	}
	return formatter.PrintUsers(users, "No users found.")
}
