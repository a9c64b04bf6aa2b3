// internal/domain/apperr/apperr.go

// Package apperr defines the domain error taxonomy shared by stores,
// policies, and controllers. Handlers never branch on store internals;
// they classify an error with Kind and let httpjson map it to a status.
package apperr

import "errors"

// Kind partitions domain failures for transport mapping.
type Kind int

const (
	KindUnknown    Kind = iota
	KindValidation      // malformed/missing/out-of-range input
	KindAuth            // bad credentials, unverified account, bad/missing/expired token
	KindForbidden       // role or ownership mismatch
	KindNotFound        // referenced entity absent
	KindConflict        // duplicate registration/email/username/like
	KindCapacity        // registration limit reached
	KindUpstream        // external identity/email/image-host failure
)

// Error is a classified domain error with a caller-safe message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // wrapped cause, logged but never surfaced
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a classified error with a caller-safe message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap classifies an underlying error. The message is caller-safe;
// the cause is for logs only.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the Kind of err, or KindUnknown for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message returns the caller-safe message for err, or a generic one for
// unclassified errors so internals are never leaked.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "internal server error"
}
