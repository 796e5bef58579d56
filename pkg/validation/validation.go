// Package validation implements the field-level form rules shared by the
// login, registration, post and profile forms.
//
// Errors are raised in two places only: Blur flags a required field left
// empty, and Submit runs every rule. Changing a value clears that field's
// error right away even if the new value is still invalid.
package validation

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// Rule checks one field value. values holds the whole form for rules that
// compare fields.
type Rule struct {
	Message  string
	required bool
	check    func(value string, values map[string]string) bool
}

// Required fails on empty or whitespace-only input
func Required(msg string) Rule {
	return Rule{
		Message:  msg,
		required: true,
		check:    func(v string, _ map[string]string) bool { return strings.TrimSpace(v) != "" },
	}
}

// Email fails unless the value is non-empty and contains '@'
func Email(msg string) Rule {
	return Rule{
		Message: msg,
		check:   func(v string, _ map[string]string) bool { return v != "" && strings.Contains(v, "@") },
	}
}

// MinLenExclusive fails unless the value is longer than n characters
func MinLenExclusive(n int, msg string) Rule {
	return Rule{
		Message: msg,
		check:   func(v string, _ map[string]string) bool { return utf8.RuneCountInString(v) > n },
	}
}

// MaxLen fails when the value is longer than n characters
func MaxLen(n int, msg string) Rule {
	return Rule{
		Message: msg,
		check:   func(v string, _ map[string]string) bool { return utf8.RuneCountInString(v) <= n },
	}
}

// EqualsField fails unless the value equals the other field's value
func EqualsField(other, msg string) Rule {
	return Rule{
		Message: msg,
		check:   func(v string, values map[string]string) bool { return v == values[other] },
	}
}

// OneOf fails unless the value is one of allowed. Empty passes; pair it with
// Required when the field is mandatory.
func OneOf(allowed []string, msg string) Rule {
	return Rule{
		Message: msg,
		check: func(v string, _ map[string]string) bool {
			if v == "" {
				return true
			}
			for _, a := range allowed {
				if v == a {
					return true
				}
			}
			return false
		},
	}
}

// FieldSpec declares a field and its rules in evaluation order
type FieldSpec struct {
	Name  string
	Rules []Rule
}

// Field is shorthand for a FieldSpec
func Field(name string, rules ...Rule) FieldSpec {
	return FieldSpec{Name: name, Rules: rules}
}

// Errors maps field names to the first failing rule's message
type Errors map[string]string

func (e Errors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	names := e.fieldNames()
	if len(names) == 1 {
		return e[names[0]]
	}
	return fmt.Sprintf("%s (and %d more)", e[names[0]], len(names)-1)
}

// FieldErrors returns the per-field messages
func (e Errors) FieldErrors() map[string]string {
	out := make(map[string]string, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

func (e Errors) fieldNames() []string {
	names := make([]string, 0, len(e))
	for k := range e {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Form holds values and error flags for a declared set of fields
type Form struct {
	mu     sync.Mutex
	specs  []FieldSpec
	values map[string]string
	errors Errors
}

// New creates an empty form
func New(fields ...FieldSpec) *Form {
	return &Form{
		specs:  fields,
		values: make(map[string]string, len(fields)),
		errors: Errors{},
	}
}

func (f *Form) spec(name string) (FieldSpec, bool) {
	for _, s := range f.specs {
		if s.Name == name {
			return s, true
		}
	}
	return FieldSpec{}, false
}

// Set stores a value and clears the field's error
func (f *Form) Set(field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[field] = value
	delete(f.errors, field)
}

// Value returns a field's current value
func (f *Form) Value(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[field]
}

// Values returns a copy of every value
func (f *Form) Values() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Blur flags the field if it is required and empty. Other rules wait for
// Submit. Returns the field's message, or "" when it passes.
func (f *Form) Blur(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.spec(field)
	if !ok {
		return ""
	}
	for _, r := range s.Rules {
		if r.required && !r.check(f.values[field], f.values) {
			f.errors[field] = r.Message
			return r.Message
		}
	}
	return ""
}

// Submit runs every rule of every field and reports whether the form is valid
func (f *Form) Submit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.errors = Errors{}
	for _, s := range f.specs {
		for _, r := range s.Rules {
			if !r.check(f.values[s.Name], f.values) {
				f.errors[s.Name] = r.Message
				break
			}
		}
	}
	return len(f.errors) == 0
}

// Errors returns a copy of the current error flags
func (f *Form) Errors() Errors {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(Errors, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Err returns the current errors as an error, or nil when there are none
func (f *Form) Err() error {
	errs := f.Errors()
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// FieldError returns the message flagged on a field
func (f *Form) FieldError(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors[field]
}

// Fields returns the declared field names in order
func (f *Form) Fields() []string {
	names := make([]string, len(f.specs))
	for i, s := range f.specs {
		names[i] = s.Name
	}
	return names
}
