package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHierarchy is returned when a hierarchy registration is
	// structurally unusable.
	ErrInvalidHierarchy = errors.New("invalid hierarchy")
	// ErrDuplicateHierarchy is returned when a target interface or one of
	// its variants is registered twice.
	ErrDuplicateHierarchy = errors.New("hierarchy already registered")
	// ErrUnknownHierarchy is returned when a lookup names a type no
	// registration covers.
	ErrUnknownHierarchy = errors.New("unknown hierarchy")
	// ErrMissingDiscriminator is returned when a declared variant carries
	// no discriminator attribute on its marker tag.
	ErrMissingDiscriminator = errors.New("missing discriminator attribute")
	// ErrInvalidTag is returned when a marker tag attribute does not parse.
	ErrInvalidTag = errors.New("invalid tag attribute")
	// ErrColumnConflict is returned when two columns share a qualifier but
	// disagree on the codec.
	ErrColumnConflict = errors.New("conflicting column codecs")
)

// Error wraps a schema error with a context message.
type Error struct {
	err     error
	context string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.context, e.err)
}

func (e *Error) Unwrap() error {
	return e.err
}

func newError(err error, format string, args ...any) *Error {
	return &Error{
		err:     err,
		context: fmt.Sprintf(format, args...),
	}
}
