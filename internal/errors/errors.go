package errors

import (
	"errors"
	"fmt"
)

// ValidationError represents an input validation failure
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// UserError represents an error caused by user input.
// Suggestion can provide a concrete fix for the user.
type UserError struct {
	Message    string
	Suggestion string
	Err        error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a UserError with a message and optional suggestion.
func NewUserError(message, suggestion string) *UserError {
	return &UserError{Message: message, Suggestion: suggestion}
}

// WrapUserError wraps an underlying error with a user-facing message and suggestion.
func WrapUserError(err error, message, suggestion string) *UserError {
	return &UserError{Message: message, Suggestion: suggestion, Err: err}
}

// ConfigError represents a missing or unusable queue alias file, or an alias
// the file does not define. It always ends the run before any job is touched.
type ConfigError struct {
	Path       string
	Message    string
	Suggestion string
	Err        error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// QueuesFileNotFoundError reports that no queue alias file could be found.
func QueuesFileNotFoundError(searched []string) error {
	suggestion := "Create queues.cfg with a [queues] section, e.g.\n  [queues]\n  serial=serial.q,serial_lowmem.q\n  parallel=parallel.q"
	if len(searched) > 0 {
		suggestion += "\nSearched:" + formatSuggestionList(searched)
	}
	return &ConfigError{
		Message:    "Cannot find 'queues.cfg'.",
		Suggestion: suggestion,
	}
}

// UnknownAliasError reports a queue alias missing from the [queues] section.
func UnknownAliasError(path, alias string, known []string) error {
	suggestion := fmt.Sprintf("Add %s=<queue,...> to the [queues] section of %s", alias, path)
	if len(known) > 0 {
		suggestion = fmt.Sprintf("Known aliases:%s\nOr add %s=<queue,...> to the [queues] section of %s", formatSuggestionList(known), alias, path)
	}
	return &ConfigError{
		Path:       path,
		Message:    fmt.Sprintf("Unknown queue alias '%s'", alias),
		Suggestion: suggestion,
	}
}

// formatSuggestionList formats a list of suggestions as a bulleted list.
func formatSuggestionList(items []string) string {
	var result string
	for _, item := range items {
		result += fmt.Sprintf("\n  • %s", item)
	}
	return result
}

// Type checkers
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsUserError(err error) bool {
	var e *UserError
	return errors.As(err, &e)
}

func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

// UserSuggestion returns a suggestion string if err is a UserError or ConfigError.
func UserSuggestion(err error) string {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Suggestion
	}
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Suggestion
	}
	return ""
}
