package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrUnsupportedFormat indicates a declaration file with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported declaration file format")

	// ErrInvalidValue indicates a setting whose value cannot be used.
	ErrInvalidValue = errors.New("invalid setting value")
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

// SettingError describes a setting that failed validation, either in the
// settings file or in the environment.
type SettingError struct {
	// Setting names the file key or environment variable.
	Setting string
	// Value is the rejected value.
	Value string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *SettingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: invalid value %q: %v", e.Setting, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: invalid value %q", e.Setting, e.Value)
}

// Unwrap returns the underlying error.
func (e *SettingError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInvalidValue.
func (e *SettingError) Is(target error) bool {
	return target == ErrInvalidValue
}
