package expr

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes evaluation failures.
type ErrorKind string

const (
	// KindSyntax indicates malformed expression text.
	KindSyntax ErrorKind = "SYNTAX_ERROR"

	// KindUnsupported indicates a construct outside the allowed grammar:
	// attribute access, calls, assignment, bitwise operators, control
	// flow. These are rejected, never sandboxed.
	KindUnsupported ErrorKind = "UNSUPPORTED_CONSTRUCT"

	// KindUnknownVariable indicates a name absent from the environment.
	KindUnknownVariable ErrorKind = "UNKNOWN_VARIABLE"

	// KindTypeMismatch indicates an operation undefined for its operand
	// types (ordering across kinds, arithmetic on strings, zero division).
	KindTypeMismatch ErrorKind = "TYPE_MISMATCH"

	// KindTooLarge indicates the expression exceeded the parser's depth
	// or token limits.
	KindTooLarge ErrorKind = "EXPRESSION_TOO_LARGE"
)

// Error is the single error type produced by parsing and evaluation.
// Pos is a byte offset into the expression text, -1 when unknown.
type Error struct {
	Kind    ErrorKind
	Message string
	Pos     int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Pos, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind ErrorKind, pos int, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// IsUnsupported reports whether err is an UNSUPPORTED_CONSTRUCT error.
// Uses errors.As to handle wrapped errors.
func IsUnsupported(err error) bool {
	return kindOf(err) == KindUnsupported
}

// IsUnknownVariable reports whether err is an UNKNOWN_VARIABLE error.
func IsUnknownVariable(err error) bool {
	return kindOf(err) == KindUnknownVariable
}

// IsSyntax reports whether err is a SYNTAX_ERROR.
func IsSyntax(err error) bool {
	return kindOf(err) == KindSyntax
}

// IsTypeMismatch reports whether err is a TYPE_MISMATCH error.
func IsTypeMismatch(err error) bool {
	return kindOf(err) == KindTypeMismatch
}

// IsTooLarge reports whether err is an EXPRESSION_TOO_LARGE error.
func IsTooLarge(err error) bool {
	return kindOf(err) == KindTooLarge
}

func kindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
