package validation

import (
	"regexp"
	"strings"
	"time"
)

// Validation rule patterns and bounds
var (
	// Email validation pattern - deliberately RFC-light
	EmailPattern = `^[^\s@]+@[^\s@]+\.[^\s@]+$`

	// Password min length
	PasswordMinLength = 8

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 50

	// Group field bounds
	GroupNameMinLength        = 3
	GroupNameMaxLength        = 50
	GroupDescriptionMinLength = 10
	GroupDescriptionMaxLength = 500

	// Meetup field bounds
	MeetupNameMinLength        = 3
	MeetupNameMaxLength        = 100
	MeetupDescriptionMinLength = 10
	MeetupDescriptionMaxLength = 1000
	MeetupLengthMaxMinutes     = 480

	// Message text bounds
	MessageTextMinLength = 1
	MessageTextMaxLength = 1000

	// Feedback bounds
	FeedbackMessageMaxLength = 2000

	// Graduation year window around the current year
	GraduationYearWindow = 10
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Email *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
}

// Email reports whether the value is a plausible email address
func Email(value string) bool {
	return NewStringValidation(value).
		WithPattern(CompiledPatterns.Email).
		Validate()
}

// Password reports whether the value meets the password length rule.
// The source carried a divergent >=6 rule in a second validator module; the
// >=8 sign-up rule is canonical here.
func Password(value string) bool {
	return NewStringValidation(value).
		WithMinLength(PasswordMinLength).
		Validate()
}

// Name reports whether a first or last name is acceptable (trimmed)
func Name(value string) bool {
	return NewStringValidation(strings.TrimSpace(value)).
		WithMinLength(NameMinLength).
		WithMaxLength(NameMaxLength).
		Validate()
}

// GroupName reports whether a group name is acceptable (trimmed)
func GroupName(value string) bool {
	return NewStringValidation(strings.TrimSpace(value)).
		WithMinLength(GroupNameMinLength).
		WithMaxLength(GroupNameMaxLength).
		Validate()
}

// GroupDescription reports whether a group description is acceptable (trimmed)
func GroupDescription(value string) bool {
	return NewStringValidation(strings.TrimSpace(value)).
		WithMinLength(GroupDescriptionMinLength).
		WithMaxLength(GroupDescriptionMaxLength).
		Validate()
}

// MeetupName reports whether a meetup name is acceptable (trimmed)
func MeetupName(value string) bool {
	return NewStringValidation(strings.TrimSpace(value)).
		WithMinLength(MeetupNameMinLength).
		WithMaxLength(MeetupNameMaxLength).
		Validate()
}

// MeetupDescription reports whether a meetup description is acceptable (trimmed)
func MeetupDescription(value string) bool {
	return NewStringValidation(strings.TrimSpace(value)).
		WithMinLength(MeetupDescriptionMinLength).
		WithMaxLength(MeetupDescriptionMaxLength).
		Validate()
}

// MeetupLength reports whether a meetup duration in minutes is acceptable.
func MeetupLength(minutes int) bool {
	return NewNumericValidation(minutes).
		WithMin(1).
		WithMax(MeetupLengthMaxMinutes).
		Validate()
}

// MessageText reports whether a chat message body is acceptable
func MessageText(value string) bool {
	return NewStringValidation(value).
		WithMinLength(MessageTextMinLength).
		WithMaxLength(MessageTextMaxLength).
		Validate()
}

// FeedbackMessage reports whether a feedback body is acceptable
func FeedbackMessage(value string) bool {
	return NewStringValidation(value).
		WithMaxLength(FeedbackMessageMaxLength).
		Validate()
}

// GraduationYear reports whether the year falls inside the accepted window
// around the current year.
func GraduationYear(year int) bool {
	current := time.Now().Year()
	return NewNumericValidation(year).
		WithMin(current - GraduationYearWindow).
		WithMax(current + GraduationYearWindow).
		Validate()
}

// String validation
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
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
	// Check if required
	if v.Required && v.Value == "" {
		return false
	}

	// Skip other validations for empty optional values
	if !v.Required && v.Value == "" {
		return true
	}

	// Check min length
	if v.MinLen > 0 && len(v.Value) < v.MinLen {
		return false
	}

	// Check max length
	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return false
	}

	// Check pattern
	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}

	return true
}

// Numeric validation
type NumericValidation struct {
	Value    int
	Min      int
	Max      int
	Required bool
}

// NewNumericValidation creates a new numeric validation
func NewNumericValidation(value int) *NumericValidation {
	return &NumericValidation{
		Value:    value,
		Required: true,
	}
}

// WithMin sets minimum value
func (v *NumericValidation) WithMin(min int) *NumericValidation {
	v.Min = min
	return v
}

// WithMax sets maximum value
func (v *NumericValidation) WithMax(max int) *NumericValidation {
	v.Max = max
	return v
}

// WithRequired sets if field is required
func (v *NumericValidation) WithRequired(required bool) *NumericValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *NumericValidation) Validate() bool {
	// Check min value
	if v.Min != 0 && v.Value < v.Min {
		return false
	}

	// Check max value
	if v.Max != 0 && v.Value > v.Max {
		return false
	}

	return true
}
