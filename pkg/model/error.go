// pkg/model/error.go
package model

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies pipeline failures
type ErrorCategory int

const (
	// Error categories in rough lifecycle order
	CategoryNone ErrorCategory = iota
	// CategoryConfig: required configuration missing or invalid; fatal at startup
	CategoryConfig
	// CategoryConnectivity: database unreachable; the gate retries these
	CategoryConnectivity
	// CategoryFormat: unknown input file format
	CategoryFormat
	// CategoryIO: input unreadable or output unwritable
	CategoryIO
	// CategoryParse: value coercion failed during cleaning
	CategoryParse
)

// String returns a string representation of the error category
func (c ErrorCategory) String() string {
	switch c {
	case CategoryNone:
		return "None"
	case CategoryConfig:
		return "Config"
	case CategoryConnectivity:
		return "Connectivity"
	case CategoryFormat:
		return "Format"
	case CategoryIO:
		return "IO"
	case CategoryParse:
		return "Parse"
	default:
		return fmt.Sprintf("Unknown(%d)", c)
	}
}

// Error is a categorized pipeline error
type Error struct {
	Category ErrorCategory
	Op       string // Operation that failed, e.g. "load_raw"
	Err      error
}

// NewError creates a categorized error wrapping err
func NewError(category ErrorCategory, op string, err error) *Error {
	return &Error{Category: category, Op: op, Err: err}
}

// Errorf creates a categorized error from a format string
func Errorf(category ErrorCategory, op, format string, args ...interface{}) *Error {
	return &Error{Category: category, Op: op, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Category, e.Op, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Category, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CategoryOf returns the category of err, or CategoryNone if err is not
// a categorized error
func CategoryOf(err error) ErrorCategory {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Category
	}
	return CategoryNone
}
