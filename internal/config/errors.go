package config

import (
	"errors"
	"fmt"
)

var (
	ErrFileNotFound = errors.New("config file not found")

	// ErrUnsupportedFormat reports an extension other than .toml, .yaml
	// and .yml.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrFileExists keeps WriteDefault from overwriting a file.
	ErrFileExists = errors.New("config file already exists")
)

// ParseError wraps a failure to read or decode the file at Path.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return "parse error: " + e.Message
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError names one setting Validate rejected.
type ValidationError struct {
	Path    string // dotted key, e.g. "lua.timeout"
	Message string
	Value   any
	Code    ValidationErrorCode
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Path, e.Message, e.Value)
}

type ValidationErrorCode uint8

const (
	ErrCodeOutOfRange ValidationErrorCode = iota
	ErrCodeInvalidEnum
)

var codeNames = [...]string{
	ErrCodeOutOfRange:  "out_of_range",
	ErrCodeInvalidEnum: "invalid_enum",
}

func (c ValidationErrorCode) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return "unknown"
}
