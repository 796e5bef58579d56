package validation

import (
	"fmt"
	"unicode/utf8"

	"github.com/pretheevi/skillswap/pkg/api"
)

// Field names shared with the api request types
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldBio             = "bio"
	FieldTitle           = "title"
	FieldCategory        = "category"
	FieldLevel           = "level"
	FieldDescription     = "description"
)

const (
	MaxTitleLen       = 100
	MaxDescriptionLen = 500
)

// LoginForm validates email and password
func LoginForm() *Form {
	return New(
		Field(FieldEmail,
			Required("Email is required"),
			Email("Email is invalid")),
		Field(FieldPassword,
			Required("Password is required"),
			MinLenExclusive(4, "Password must be longer than 4 characters")),
	)
}

// RegisterForm validates a new account
func RegisterForm() *Form {
	return New(
		Field(FieldName,
			Required("Name is required"),
			MinLenExclusive(3, "Name must be longer than 3 characters")),
		Field(FieldEmail,
			Required("Email is required"),
			Email("Email is invalid")),
		Field(FieldPassword,
			Required("Password is required"),
			MinLenExclusive(4, "Password must be longer than 4 characters")),
		Field(FieldConfirmPassword,
			EqualsField(FieldPassword, "confirm password not matching")),
	)
}

// PostForm validates the create/edit post form. The image is checked by the
// media draft, not here.
func PostForm() *Form {
	return New(
		Field(FieldTitle,
			Required("Please enter a title"),
			MaxLen(MaxTitleLen, fmt.Sprintf("Title must be less than %d characters", MaxTitleLen))),
		Field(FieldCategory,
			Required("Please select a category"),
			OneOf(categoryNames(), "Please select a valid category")),
		Field(FieldLevel,
			OneOf(levelNames(), "Please select a valid level")),
		Field(FieldDescription,
			Required("Please add a description"),
			MaxLen(MaxDescriptionLen, fmt.Sprintf("Description must be less than %d characters", MaxDescriptionLen))),
	)
}

func categoryNames() []string {
	out := make([]string, len(api.Categories))
	for i, c := range api.Categories {
		out[i] = string(c)
	}
	return out
}

func levelNames() []string {
	out := make([]string, len(api.Levels))
	for i, l := range api.Levels {
		out[i] = string(l)
	}
	return out
}

// ProfileEditor is the profile form plus live length limits
type ProfileEditor struct {
	*Form
	limits map[string]int
}

// ProfileForm validates name and bio against the configured limits
func ProfileForm(maxName, maxBio int) *ProfileEditor {
	return &ProfileEditor{
		Form: New(
			Field(FieldName,
				Required("Please enter your name"),
				MaxLen(maxName, fmt.Sprintf("Name must be less than %d characters", maxName))),
			Field(FieldBio,
				MaxLen(maxBio, fmt.Sprintf("Bio must be less than %d characters", maxBio))),
		),
		limits: map[string]int{FieldName: maxName, FieldBio: maxBio},
	}
}

// LiveTruncate cuts value to the field's limit, stores it, and returns a
// notice once the limit is reached
func (p *ProfileEditor) LiveTruncate(field, value string) (string, string) {
	limit, ok := p.limits[field]
	if !ok {
		p.Set(field, value)
		return value, ""
	}

	n := utf8.RuneCountInString(value)
	if n > limit {
		value = string([]rune(value)[:limit])
		n = limit
	}
	p.Set(field, value)

	if n < limit {
		return value, ""
	}
	if field == FieldBio {
		return value, "Maximum bio length reached"
	}
	return value, "Maximum name length reached"
}

// Limit returns the configured max length for a field, 0 if unlimited
func (p *ProfileEditor) Limit(field string) int {
	return p.limits[field]
}
