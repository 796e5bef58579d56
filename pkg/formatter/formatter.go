// Package formatter renders SkillSwap objects through pkg/output
package formatter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/pretheevi/skillswap/pkg/api"
	"github.com/pretheevi/skillswap/pkg/output"
	"github.com/pretheevi/skillswap/pkg/view"
)

var (
	Bold    = color.New(color.Bold)
	Success = color.New(color.FgGreen)
	Error   = color.New(color.FgRed)
	Info    = color.New(color.FgCyan)
	Warning = color.New(color.FgYellow)
	Faint   = color.New(color.Faint)
)

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	output.PrintSuccess(format, args...)
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	output.PrintError(format, args...)
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	output.PrintInfo(format, args...)
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	output.PrintWarning(format, args...)
}

// PrintSkills renders a feed as cards, a table, or JSON
func PrintSkills(skills []api.Skill, opts view.CardOptions) error {
	headers := []string{"ID", "Title", "Category", "Level", "Rating", "Author", "Comments"}
	rows := make([][]string, 0, len(skills))
	for _, s := range skills {
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			s.Title,
			string(s.Category),
			string(s.Level),
			view.RatingLabel(s.Rating),
			s.UserName,
			strconv.Itoa(s.CommentCount),
		})
	}

	return output.PrintList(skills, headers, rows, func(w io.Writer) {
		if len(skills) == 0 {
			Faint.Fprintln(w, "No posts yet.")
			return
		}
		for i, s := range skills {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprint(w, view.RenderCard(s, opts))
		}
	})
}

// PrintComments renders a comment thread
func PrintComments(comments []view.ResolvedComment, exp *view.Expander) error {
	headers := []string{"ID", "Author", "Comment", "Created"}
	rows := make([][]string, 0, len(comments))
	for _, c := range comments {
		rows = append(rows, []string{strconv.FormatInt(c.ID, 10), c.UserName, exp.Text(c.ID, c.Text), c.CreatedAt})
	}

	return output.PrintList(comments, headers, rows, func(w io.Writer) {
		if len(comments) == 0 {
			Faint.Fprintln(w, "No comments yet. Be the first!")
			return
		}
		for _, c := range comments {
			Bold.Fprint(w, c.UserName)
			Faint.Fprintf(w, "  %s  %s\n", c.CreatedAt, c.Avatar)
			fmt.Fprint(w, "  "+exp.Text(c.ID, c.Text))
			if label := exp.Label(c.ID, c.Text); label != "" {
				fmt.Fprint(w, " "+label)
			}
			fmt.Fprintln(w)
		}
	})
}

// PrintProfile renders a user profile. followers is the count to display,
// which may include an unconfirmed follow.
func PrintProfile(u api.User, followers int, state string) error {
	keys := []string{"ID", "Name", "Email", "Bio", "Avatar", "Followers", "Following"}
	values := map[string]string{
		"ID":        strconv.FormatInt(u.ID, 10),
		"Name":      u.Name,
		"Email":     u.Email,
		"Bio":       u.Bio,
		"Avatar":    u.Avatar,
		"Followers": strconv.Itoa(followers),
		"Following": strconv.Itoa(u.FollowingCount),
	}
	if u.Joined != "" {
		keys = append(keys, "Joined")
		values["Joined"] = u.Joined
	}
	if state != "" {
		keys = append(keys, "Status")
		values["Status"] = state
	}
	return output.PrintRecord(u, keys, values)
}

// PrintUsers renders a list of users
func PrintUsers(users []api.User, empty string) error {
	headers := []string{"ID", "Name", "Followers", "You follow"}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			strconv.FormatInt(u.ID, 10),
			u.Name,
			strconv.Itoa(u.FollowerCount),
			strconv.FormatBool(u.IsFollowing),
		})
	}

	return output.PrintList(users, headers, rows, func(w io.Writer) {
		if len(users) == 0 {
			Faint.Fprintln(w, empty)
			return
		}
		for _, u := range users {
			Bold.Fprintf(w, "%s", u.Name)
			Faint.Fprintf(w, " (#%d)", u.ID)
			if u.IsFollowing {
				Info.Fprint(w, "  following")
			}
			fmt.Fprintln(w)
		}
	})
}
