package view

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pretheevi/skillswap/pkg/api"
	"github.com/pretheevi/skillswap/pkg/config"
)

const (
	defaultTruncateAt = 80

	LabelMore     = "...More"
	LabelLess     = "...Less"
	NoImage       = "[no image]"
	NoRatings     = "No ratings yet"
	ratingGlyph   = "★"
	maxRatingStar = 5
)

// Expander tracks which long texts are expanded, by item id
type Expander struct {
	threshold int

	mu       sync.Mutex
	expanded map[int64]bool
}

// NewExpander creates an expander cutting at threshold runes. A threshold
// of 0 reads view.truncate_at.
func NewExpander(threshold int) *Expander {
	if threshold <= 0 {
		threshold = config.GetInt("view.truncate_at")
	}
	if threshold <= 0 {
		threshold = defaultTruncateAt
	}
	return &Expander{threshold: threshold, expanded: make(map[int64]bool)}
}

// IsLong reports whether s exceeds the threshold
func (e *Expander) IsLong(s string) bool {
	return utf8.RuneCountInString(s) > e.threshold
}

// Toggle flips an item between collapsed and expanded
func (e *Expander) Toggle(id int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.expanded[id] = !e.expanded[id]
}

// Expand marks an item expanded
func (e *Expander) Expand(id int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.expanded[id] = true
}

// IsExpanded reports whether an item is expanded
func (e *Expander) IsExpanded(id int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.expanded[id]
}

// Text returns the first threshold runes of a long collapsed text and the
// full text otherwise
func (e *Expander) Text(id int64, s string) string {
	if !e.IsLong(s) || e.IsExpanded(id) {
		return s
	}
	return string([]rune(s)[:e.threshold])
}

// Label returns the toggle label for s, "" when s is short
func (e *Expander) Label(id int64, s string) string {
	if !e.IsLong(s) {
		return ""
	}
	if e.IsExpanded(id) {
		return LabelLess
	}
	return LabelMore
}

// RatingLabel renders 1..5 stars, clamping larger values, and a fixed
// label for unrated posts
func RatingLabel(r int) string {
	if r <= 0 {
		return NoRatings
	}
	if r > maxRatingStar {
		r = maxRatingStar
	}
	return strings.Repeat(ratingGlyph, r)
}

// CardOptions control how a post card is rendered
type CardOptions struct {
	ViewerID int64
	Expander *Expander
	// MediaURL turns a relative media path into a full URL
	MediaURL func(string) string
}

// RenderCard renders a post as plain text
func RenderCard(s api.Skill, opts CardOptions) string {
	var b strings.Builder

	author := s.UserName
	if author == "" {
		author = fmt.Sprintf("user %d", s.UserID)
	}
	fmt.Fprintf(&b, "%s", author)
	if opts.ViewerID != 0 && opts.ViewerID == s.UserID {
		fmt.Fprintf(&b, "  [delete: skillswap post delete %d]", s.ID)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "#%d %s\n", s.ID, s.Title)
	if s.Category != "" || s.Level != "" {
		fmt.Fprintf(&b, "%s · %s\n", s.Category, s.Level)
	}

	if u := s.MediaURL(); u != "" {
		if opts.MediaURL != nil {
			u = opts.MediaURL(u)
		}
		fmt.Fprintf(&b, "Image: %s\n", u)
	} else {
		b.WriteString(NoImage + "\n")
	}

	fmt.Fprintf(&b, "Rating: %s\n", RatingLabel(s.Rating))

	exp := opts.Expander
	if exp == nil {
		exp = NewExpander(0)
	}
	b.WriteString(exp.Text(s.ID, s.Description))
	if label := exp.Label(s.ID, s.Description); label != "" {
		b.WriteString(" " + label)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Comments: %d\n", s.CommentCount)
	return b.String()
}
