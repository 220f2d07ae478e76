// Package errors provides structured error types for meetup.
// Errors carry a code, key/value context, an optional cause, and remediation
// suggestions for the user.
package errors

import (
	"fmt"
	"sort"
	"strings"
)

// Category classifies errors for consistent handling and display.
type Category string

const (
	CategoryConfig     Category = "config"     // Configuration loading/parsing errors
	CategoryAgent      Category = "agent"      // Agent lookup errors
	CategoryCommand    Category = "command"    // Shell command errors
	CategoryValidation Category = "validation" // Input validation errors
	CategoryIO         Category = "io"         // File/IO errors
	CategoryInternal   Category = "internal"   // Internal/unexpected errors
)

// MeetupError is a structured error with context and suggestions.
type MeetupError struct {
	// Code is a unique identifier for this error type (e.g., "CONDITION_INVALID")
	Code string

	// Category classifies this error for consistent handling
	Category Category

	// Message describes what went wrong
	Message string

	// Context provides additional key-value details about the error
	Context map[string]string

	// Cause is the underlying error, if any
	Cause error

	// Suggestions are actionable remediation steps for the user
	Suggestions []string
}

func (e *MeetupError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *MeetupError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a MeetupError with the same Code.
func (e *MeetupError) Is(target error) bool {
	if t, ok := target.(*MeetupError); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new MeetupError with the given code, category, and message.
func New(code string, category Category, message string) *MeetupError {
	return &MeetupError{
		Code:     code,
		Category: category,
		Message:  message,
		Context:  make(map[string]string),
	}
}

// Newf creates a new MeetupError with a formatted message.
func Newf(code string, category Category, format string, args ...any) *MeetupError {
	return New(code, category, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with a MeetupError.
func Wrap(err error, code string, category Category, message string) *MeetupError {
	return New(code, category, message).WithCause(err)
}

// WithContext adds a context key-value pair and returns the error for chaining.
func (e *MeetupError) WithContext(key, value string) *MeetupError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// WithCause wraps an underlying error and returns the error for chaining.
func (e *MeetupError) WithCause(cause error) *MeetupError {
	e.Cause = cause
	return e
}

// WithSuggestion adds a remediation suggestion and returns the error for chaining.
func (e *MeetupError) WithSuggestion(suggestion string) *MeetupError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// HasContext returns true if the error has context information.
func (e *MeetupError) HasContext() bool {
	return len(e.Context) > 0
}

// HasSuggestions returns true if the error has suggestions.
func (e *MeetupError) HasSuggestions() bool {
	return len(e.Suggestions) > 0
}

// ContextString returns the context entries as sorted key="value" pairs.
func (e *MeetupError) ContextString() string {
	if len(e.Context) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, e.Context[k]))
	}
	return strings.Join(parts, ", ")
}

// AsMeetupError finds the first MeetupError in err's chain.
func AsMeetupError(err error) (*MeetupError, bool) {
	for err != nil {
		if me, ok := err.(*MeetupError); ok {
			return me, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}

// IsCode checks if an error is a MeetupError with the given code.
func IsCode(err error, code string) bool {
	if me, ok := AsMeetupError(err); ok {
		return me.Code == code
	}
	return false
}

// IsCategory checks if an error is a MeetupError with the given category.
func IsCategory(err error, category Category) bool {
	if me, ok := AsMeetupError(err); ok {
		return me.Category == category
	}
	return false
}

// -----------------------------------------------------------------------------
// Helper Constructors
// -----------------------------------------------------------------------------

// Config creates a new configuration error.
func Config(code, message string) *MeetupError {
	return New(code, CategoryConfig, message)
}

// ConfigWrap wraps an error as a configuration error.
func ConfigWrap(cause error, code, message string) *MeetupError {
	return Wrap(cause, code, CategoryConfig, message)
}

// Validationf creates a new validation error with formatted message.
func Validationf(code, format string, args ...any) *MeetupError {
	return Newf(code, CategoryValidation, format, args...)
}

// Commandf creates a new shell command error with formatted message.
func Commandf(code, format string, args ...any) *MeetupError {
	return Newf(code, CategoryCommand, format, args...)
}

// Agentf creates a new agent error with formatted message.
func Agentf(code, format string, args ...any) *MeetupError {
	return Newf(code, CategoryAgent, format, args...)
}

// IOWrap wraps an error as an IO error.
func IOWrap(cause error, code, message string) *MeetupError {
	return Wrap(cause, code, CategoryIO, message)
}
