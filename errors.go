// This file defines the error type shared by all of the package's
// components.

package composites

import (
	"errors"
	"fmt"
)

// An ErrorCode classifies an Error.
type ErrorCode int

// These are the values an ErrorCode can accept.
const (
	ErrInvalidParameter  ErrorCode = iota + 1 // A solver parameter is out of range
	ErrInvalidFixing                          // A fixed-variable assignment is missing or names an unknown variable
	ErrInvalidCount                           // A truncation count is negative
	ErrStructureMismatch                      // A problem references a node or coupler absent from the target topology
	ErrNoEmbedding                            // An embedding does not cover the problem
	ErrProblemTooLarge                        // A problem exceeds what an exhaustive method can enumerate
	ErrAsyncNotDone                           // An asynchronous problem's result was requested before completion
)

// String returns an ErrorCode's name.
func (c ErrorCode) String() string {
	switch c {
	case ErrInvalidParameter:
		return "invalid parameter"
	case ErrInvalidFixing:
		return "invalid fixing"
	case ErrInvalidCount:
		return "invalid count"
	case ErrStructureMismatch:
		return "structure mismatch"
	case ErrNoEmbedding:
		return "no embedding"
	case ErrProblemTooLarge:
		return "problem too large"
	case ErrAsyncNotDone:
		return "not done"
	default:
		return fmt.Sprintf("error %d", int(c))
	}
}

// An Error is an error annotated with an ErrorCode so callers can react
// to the failure kind without parsing messages.
type Error struct {
	Code    ErrorCode // Failure classification
	Message string    // Human-readable description
}

// Error returns an Error's message.
func (e *Error) Error() string { return e.Message }

// Is reports whether target is an Error with the same code.  This lets
// callers write errors.Is(err, &Error{Code: ErrInvalidCount}).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// newErrorf creates an Error from a code and a format string.
func newErrorf(code ErrorCode, format string, a ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, a...),
	}
}

// ErrorCodeOf extracts the ErrorCode from an error, unwrapping as
// needed.  It returns 0 if the error does not carry a code.
func ErrorCodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}
