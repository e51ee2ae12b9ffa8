package engine

import (
	"errors"
	"fmt"
)

// ErrorClass classifies a configuration error for the error-handling
// policy: structural errors abort the current parse, semantic problems are
// collected as warnings and only promoted here when configured.
type ErrorClass string

const (
	// ErrorClassSyntax covers malformed statements and expressions.
	// Always fatal for the parse of the current tree.
	ErrorClassSyntax ErrorClass = "syntax"

	// ErrorClassReference covers references to undefined symbols,
	// promoted from warnings when the engine runs in strict mode.
	ErrorClassReference ErrorClass = "reference"

	// ErrorClassInclusion covers missing required source matches and
	// inclusion cycles. Always fatal.
	ErrorClassInclusion ErrorClass = "inclusion"

	// ErrorClassRange covers assignments outside a declared numeric
	// range. Rejected at apply time; the prior value is kept.
	ErrorClassRange ErrorClass = "range"

	// ErrorClassIO covers filesystem failures while reading sources or
	// writing configuration output.
	ErrorClassIO ErrorClass = "io"
)

// ConfigError is a classified error with a source location. A fatal error
// always identifies the file and line it was raised at when one is known.
type ConfigError struct {
	// Class is the error classification.
	Class ErrorClass

	// Message is the human-readable error message.
	Message string

	// File and Line locate the error in the source tree. Line is 0 when
	// the error is not tied to a specific line.
	File string
	Line int

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, msg)
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is implements class-based matching for errors.Is.
func (e *ConfigError) Is(target error) bool {
	t, ok := target.(*ConfigError)
	if !ok {
		return false
	}
	return e.Class == t.Class
}

// At attaches a source location to the error.
func (e *ConfigError) At(file string, line int) *ConfigError {
	e.File = file
	e.Line = line
	return e
}

// newError creates a ConfigError with a formatted message.
func newError(class ErrorClass, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Class: class, Message: fmt.Sprintf(format, args...)}
}

// wrapError creates a ConfigError wrapping an underlying cause.
func wrapError(class ErrorClass, err error, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Class: class, Message: fmt.Sprintf(format, args...), Err: err}
}

// IsSyntax reports whether err is a syntax error.
func IsSyntax(err error) bool { return isClass(err, ErrorClassSyntax) }

// IsInclusion reports whether err is an inclusion error.
func IsInclusion(err error) bool { return isClass(err, ErrorClassInclusion) }

// IsRange reports whether err is a range violation.
func IsRange(err error) bool { return isClass(err, ErrorClassRange) }

// IsReference reports whether err is an undefined-reference error.
func IsReference(err error) bool { return isClass(err, ErrorClassReference) }

func isClass(err error, class ErrorClass) bool {
	var e *ConfigError
	if errors.As(err, &e) {
		return e.Class == class
	}
	return false
}
