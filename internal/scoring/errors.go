package scoring

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes failures returned by the scoring engine.
type ErrorKind string

const (
	// KindNotFound means the match, over or tournament does not exist.
	KindNotFound ErrorKind = "NOT_FOUND"

	// KindForbidden means the caller is not the assigned scorer or creator.
	KindForbidden ErrorKind = "FORBIDDEN"

	// KindPreconditionFailed means a lifecycle or sequencing invariant would be violated.
	KindPreconditionFailed ErrorKind = "PRECONDITION_FAILED"

	// KindValidationFailed means the input itself is malformed.
	KindValidationFailed ErrorKind = "VALIDATION_FAILED"

	// KindContention means a per-match or per-tournament lock was not acquired in time.
	// The caller may retry.
	KindContention ErrorKind = "CONTENTION"
)

// Error is the error type returned for every rejected scoring operation.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the caller may retry the same operation unchanged.
func (e *Error) Retryable() bool {
	return e.Kind == KindContention
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

func forbidden(format string, args ...any) *Error {
	return newError(KindForbidden, format, args...)
}

func precondition(format string, args ...any) *Error {
	return newError(KindPreconditionFailed, format, args...)
}

func invalid(format string, args ...any) *Error {
	return newError(KindValidationFailed, format, args...)
}

func contention(key string, cause error) *Error {
	return &Error{Kind: KindContention, Message: "lock busy for " + key, Err: cause}
}

// KindOf returns the kind of a scoring error, or "" for any other error.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

func IsNotFound(err error) bool           { return KindOf(err) == KindNotFound }
func IsForbidden(err error) bool          { return KindOf(err) == KindForbidden }
func IsPreconditionFailed(err error) bool { return KindOf(err) == KindPreconditionFailed }
func IsValidationFailed(err error) bool   { return KindOf(err) == KindValidationFailed }
func IsContention(err error) bool         { return KindOf(err) == KindContention }

// ErrRecordNotFound is returned by Store implementations when a lookup misses.
var ErrRecordNotFound = errors.New("record not found")
