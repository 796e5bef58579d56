package api

import "strings"

// Auth Request/Response Types
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// User is a profile as returned by /profile, /profileById and the follow lists.
// IsFollowing is relative to the session user.
type User struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Avatar         string `json:"avatar"`
	Bio            string `json:"bio"`
	FollowerCount  int    `json:"follower_count"`
	FollowingCount int    `json:"following_count"`
	IsFollowing    bool   `json:"is_following"`
	Joined         string `json:"joined,omitempty"`
}

// Category of a skill
type Category string

const (
	CategoryWeb       Category = "web"
	CategoryDesign    Category = "design"
	CategoryData      Category = "data"
	CategoryMobile    Category = "mobile"
	CategoryMarketing Category = "marketing"
	CategoryLanguage  Category = "language"
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryWeb, CategoryDesign, CategoryData, CategoryMobile, CategoryMarketing, CategoryLanguage,
}

// ParseCategory accepts a category name case-insensitively
func ParseCategory(s string) (Category, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Level of a skill
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelExpert       Level = "expert"
)

// Levels lists every level in display order
var Levels = []Level{LevelBeginner, LevelIntermediate, LevelExpert}

// ParseLevel accepts a level name case-insensitively
func ParseLevel(s string) (Level, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range Levels {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

// Media is an image attached to a skill
type Media struct {
	ID  int64  `json:"media_id,omitempty"`
	URL string `json:"media_url"`
}

// Skill is a post in the feed. The flat feed schema is canonical; the
// detail payload of GET /skills/:id is normalized into it.
type Skill struct {
	ID           int64    `json:"skill_id"`
	Title        string   `json:"skill_title"`
	Description  string   `json:"skill_description"`
	Category     Category `json:"skill_category"`
	Level        Level    `json:"skill_level"`
	Rating       int      `json:"rating"`
	Media        []Media  `json:"media"`
	CommentCount int      `json:"comment_count"`
	UserID       int64    `json:"user_id"`
	UserName     string   `json:"user_name"`
	UserEmail    string   `json:"user_email,omitempty"`
	UserAvatar   string   `json:"user_avatar"`
	CreatedAt    string   `json:"created_at,omitempty"`
}

// MediaURL returns the first attached image, or "" when there is none
func (s *Skill) MediaURL() string {
	for _, m := range s.Media {
		if m.URL != "" {
			return m.URL
		}
	}
	return ""
}

// Comment on a skill. Comments are append-only from the client.
type Comment struct {
	ID         int64  `json:"id"`
	SkillID    int64  `json:"skill_id"`
	Text       string `json:"text"`
	UserName   string `json:"user_name"`
	UserAvatar string `json:"user_avatar"`
	CreatedAt  string `json:"created_at"`
}

// CreateCommentRequest is the body of POST /comment
type CreateCommentRequest struct {
	Text    string `json:"text"`
	SkillID int64  `json:"skill_id"`
}

// ErrorResponse is the error payload. The backend uses either key.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
