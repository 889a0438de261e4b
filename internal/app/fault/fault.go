package fault

import (
	"errors"
	"fmt"
)

// Kind classifies request-recoverable failures. Anything outside these
// categories is treated as unexpected and surfaces as a 500 at the HTTP
// boundary.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindAuthorization
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAuthorization:
		return "authorization"
	default:
		return "unknown"
	}
}

// Error carries a failure category, a client-safe message and, for state
// conflicts, the blocking booking status.
type Error struct {
	Kind    Kind
	Message string
	// BlockingStatus names the status that prevented a state transition,
	// e.g. the status of a booking that could not be cancelled.
	BlockingStatus string
	cause          error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Authorizationf(format string, args ...any) *Error {
	return &Error{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to the error for logging; the message stays
// client-safe.
func (e *Error) Wrap(cause error) *Error {
	e.cause = cause
	return e
}

// WithBlockingStatus records the status that blocked the operation.
func (e *Error) WithBlockingStatus(status string) *Error {
	e.BlockingStatus = status
	return e
}

// KindOf extracts the category from an error chain; KindUnknown when the
// chain carries no *Error.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// Of returns the *Error in the chain, if any.
func Of(err error) (*Error, bool) {
	var fe *Error
	ok := errors.As(err, &fe)
	return fe, ok
}
