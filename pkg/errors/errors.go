// Package errors provides coded errors for glow.
//
// Every failure glow reports about its own inputs carries a [Code]: broken
// project configuration, unreadable definitions files, unsafe page paths
// and data source XML that cannot be turned into lineage. The CLI maps
// codes to exit statuses with [ExitCode], and the pipeline uses them to
// tell a malformed data source (skip it, keep going) from a broken setup
// (stop).
//
//	err := errors.New(errors.ErrCodeMalformedExpression, "leaf %q has no [relation] reference", op)
//	if errors.Is(err, errors.ErrCodeMalformedExpression) {
//	    // keep the data source without relations
//	}
//
//	err = errors.Wrap(errors.ErrCodeInvalidFormat, yamlErr, "parse %s", path)
//
// Transport failures against Tableau and the warehouse are reported by
// their own packages and carry no code.
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error category.
type Code string

const (
	// The user's configuration or input is wrong.
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// A data source document from the BI server cannot be interpreted.
	ErrCodeMalformedExpression Code = "MALFORMED_EXPRESSION"
	ErrCodeMalformedDocument   Code = "MALFORMED_DOCUMENT"

	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
)

// Exit statuses returned by [ExitCode].
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates an Error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether any *Error in err's chain has the given code, so a
// malformed expression wrapped as a malformed document matches both.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// if there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage renders err for the terminal. Codes are dropped; the
// messages of wrapped causes are kept.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + UserMessage(e.Cause)
}

// ExitCode maps err to a process exit status. Configuration and input
// mistakes exit with [ExitUsage]; everything else with [ExitFailure].
func ExitCode(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidConfig, ErrCodeInvalidPath:
		return ExitUsage
	default:
		return ExitFailure
	}
}
