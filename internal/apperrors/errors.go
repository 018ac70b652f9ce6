// Package apperrors defines the sentinel error kinds shared across the aggregating
// proxy's packages, so that callers can branch on failure class with errors.Is/As
// instead of string matching.
package apperrors

import "fmt"

// Kind classifies a failure the way the component design calls out: each kind has a
// distinct handling policy (fatal at startup, logged-and-skipped, surfaced as a tool
// error, etc.) described alongside its call sites.
type Kind string

const (
	KindConfigInvalid        Kind = "config_invalid"
	KindConfigFetchFailed    Kind = "config_fetch_failed"
	KindConnectTimeout       Kind = "connect_timeout"
	KindConnectFailed        Kind = "connect_failed"
	KindNotConnected         Kind = "not_connected"
	KindDownstreamCallFailed Kind = "downstream_call_failed"
	KindAmbiguous            Kind = "ambiguous"
	KindNotFound             Kind = "not_found"
	KindBlacklisted          Kind = "blacklisted"
	KindSkillMalformed       Kind = "skill_malformed"
	KindWatchError           Kind = "watch_error"
)

// Error wraps an underlying cause with a Kind so callers can classify it.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, apperrors.New(kind, "")) match on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New creates an *Error of the given kind with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an *Error of the given kind wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// OfKind reports whether err (or any error it wraps) is an *Error of the given kind.
func OfKind(err error, kind Kind) bool {
	for err != nil {
		if ae, ok := err.(*Error); ok && ae.Kind == kind {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
