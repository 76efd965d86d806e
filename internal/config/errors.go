package config

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch indicates a setting whose JSON type is not the one
	// the setting takes, such as a string for a height.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrValidationFailed indicates a setting outside its allowed range.
	ErrValidationFailed = errors.New("validation failed")

	// ErrFileNotFound indicates a missing settings file.
	ErrFileNotFound = errors.New("config file not found")
)

// ParseError reports a settings file that is not valid JSON.
type ParseError struct {
	Path    string
	Message string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return "config: " + e.Message
	}
	return fmt.Sprintf("config %s: %s", e.Path, e.Message)
}
