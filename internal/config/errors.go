package config

import (
	"fmt"
	"strings"
)

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string

	// Message describes the parse error.
	Message string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a single validation failure.
type ValidationError struct {
	// Path is the configuration path to the invalid value,
	// e.g. "path[1].ladder".
	Path string

	// Message describes what's wrong.
	Message string

	// Value is the invalid value (may be nil).
	Value any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors collects multiple validation errors so a broken file
// reports every problem in one pass.
type ValidationErrors struct {
	Errors []*ValidationError
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e.Errors), strings.Join(msgs, "\n  - "))
}

// Add adds a validation error.
func (e *ValidationErrors) Add(path, message string) {
	e.Errors = append(e.Errors, &ValidationError{Path: path, Message: message})
}

// AddWithValue adds a validation error with the invalid value.
func (e *ValidationErrors) AddWithValue(path, message string, value any) {
	e.Errors = append(e.Errors, &ValidationError{Path: path, Message: message, Value: value})
}

// HasErrors returns true if any errors have been collected.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// OrNil returns the collection as an error, or nil when empty.
func (e *ValidationErrors) OrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}
