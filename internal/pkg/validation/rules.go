package validation

import (
	"regexp"
	"unicode/utf8"
)

// Validation rule patterns
var (
	EmailPattern    = `^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`
	UsernamePattern = `^[A-Za-z0-9_.]{3,30}$`

	PasswordMinLength = 6

	NameMinLength = 2
	NameMaxLength = 100

	// NoteMaxLength caps the text of a 24h note, in characters
	NoteMaxLength = 60

	// MessageMaxLength caps direct messages and replies
	MessageMaxLength = 2000

	YearMin = 1
	YearMax = 6
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email    *regexp.Regexp
	Username *regexp.Regexp
}{
	Email:    regexp.MustCompile(EmailPattern),
	Username: regexp.MustCompile(UsernamePattern),
}

// StringValidation checks a single string value
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new required string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length in characters
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length in characters
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return !v.Required
	}

	n := utf8.RuneCountInString(v.Value)
	if v.MinLen > 0 && n < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && n > v.MaxLen {
		return false
	}
	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}
	return true
}

// ValidEmail reports whether email looks like an address
func ValidEmail(email string) bool {
	return NewStringValidation(email).WithPattern(CompiledPatterns.Email).Validate()
}

// ValidUsername reports whether username uses the allowed alphabet and length
func ValidUsername(username string) bool {
	return NewStringValidation(username).WithPattern(CompiledPatterns.Username).Validate()
}

// ValidName reports whether a display name has an acceptable length
func ValidName(name string) bool {
	return NewStringValidation(name).WithMinLength(NameMinLength).WithMaxLength(NameMaxLength).Validate()
}

// ValidNote reports whether note text fits the note limit
func ValidNote(text string) bool {
	return NewStringValidation(text).WithMaxLength(NoteMaxLength).Validate()
}

// ValidMessage reports whether a message or reply is non-empty and short enough
func ValidMessage(text string) bool {
	return NewStringValidation(text).WithMaxLength(MessageMaxLength).Validate()
}

// ValidYear reports whether year is a plausible year of study
func ValidYear(year int) bool {
	return year >= YearMin && year <= YearMax
}
