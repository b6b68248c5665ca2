package service

import "fmt"

// ErrorKind classifies the failures the recommendation service reports itself.
type ErrorKind int

const (
	KindConflict ErrorKind = iota + 1
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a service failure with a kind the transport maps to a status code.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Message
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound)
// holds regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	// ErrConflict matches every conflict error.
	ErrConflict = &Error{Kind: KindConflict}
	// ErrNotFound matches every not-found error. Not-found errors carry no message.
	ErrNotFound = &Error{Kind: KindNotFound}
)

const duplicateNameMessage = "Recommendations names must be unique"

func conflictError(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

func notFoundError() error {
	return &Error{Kind: KindNotFound}
}
