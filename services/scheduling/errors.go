package scheduling

import (
	"errors"
	"fmt"
)

// ErrorCode classifies engine failures for callers. Business-rule failures
// are returned as values of *Error; they are never panics.
type ErrorCode string

const (
	CodeValidation       ErrorCode = "validation"
	CodeConflict         ErrorCode = "conflict"
	CodeInvalidState     ErrorCode = "invalid_state"
	CodeNotFound         ErrorCode = "not_found"
	CodeStoreUnavailable ErrorCode = "store_unavailable"
)

type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func newValidationError(format string, args ...interface{}) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func newConflictError(msg string, cause error) *Error {
	return &Error{Code: CodeConflict, Message: msg, Cause: cause}
}

func newInvalidStateError(msg string, cause error) *Error {
	return &Error{Code: CodeInvalidState, Message: msg, Cause: cause}
}

func newNotFoundError(msg string, cause error) *Error {
	return &Error{Code: CodeNotFound, Message: msg, Cause: cause}
}

func newStoreError(msg string, cause error) *Error {
	return &Error{Code: CodeStoreUnavailable, Message: msg, Cause: cause}
}

func codeOf(err error) (ErrorCode, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

func IsValidation(err error) bool       { c, ok := codeOf(err); return ok && c == CodeValidation }
func IsConflict(err error) bool         { c, ok := codeOf(err); return ok && c == CodeConflict }
func IsInvalidState(err error) bool     { c, ok := codeOf(err); return ok && c == CodeInvalidState }
func IsNotFound(err error) bool         { c, ok := codeOf(err); return ok && c == CodeNotFound }
func IsStoreUnavailable(err error) bool { c, ok := codeOf(err); return ok && c == CodeStoreUnavailable }
