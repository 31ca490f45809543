// Package fault defines the error kinds every issuer operation can fail with.
//
// Domain packages build their specific sentinels with New so that callers can
// match either the specific condition or its kind:
//
//	errors.Is(err, event.ErrMaxSupplyReached) // specific
//	errors.Is(err, fault.ErrStateConflict)    // kind
package fault

import "errors"

var (
	// ErrUnauthorized indicates the caller lacks the standing the operation requires.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrStateConflict indicates the current state does not admit the operation.
	ErrStateConflict = errors.New("state conflict")
	// ErrPaused indicates the operation is gated by the global pause switch.
	ErrPaused = errors.New("paused")
	// ErrInvalidParameter indicates a malformed or out-of-range argument.
	ErrInvalidParameter = errors.New("invalid parameter")
)

var kinds = []error{ErrUnauthorized, ErrStateConflict, ErrPaused, ErrInvalidParameter}

// Error is a specific failure belonging to one kind.
type Error struct {
	kind error
	msg  string
}

// New returns an error of the given kind.
func New(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.kind
}

// Kind returns the kind sentinel.
func (e *Error) Kind() error {
	return e.kind
}

// KindOf returns the kind sentinel err belongs to, or nil for errors outside the taxonomy.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
