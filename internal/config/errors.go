package config

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat indicates the config file extension is not
// recognized.
var ErrUnsupportedFormat = errors.New("config: unsupported file format")

// ParseError describes a syntax error in a configuration file.
type ParseError struct {
	// Path is the file that failed to parse.
	Path string

	// Message describes the problem.
	Message string

	// Err is the underlying decoder error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("config: parse %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError describes a configuration value that is out of
// range.
type ValidationError struct {
	// Field is the dot-separated path of the offending setting.
	Field string

	// Value is the rejected value.
	Value any

	// Message describes the constraint.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s = %v: %s", e.Field, e.Value, e.Message)
}
