package orm

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTarget is returned when the configured target is not an
	// interface type.
	ErrInvalidTarget = errors.New("invalid hierarchy target")
	// ErrNoStringCodec is returned when the registry cannot encode the
	// discriminator column.
	ErrNoStringCodec = errors.New("registry has no string codec")
	// ErrDuplicateValue is returned when two variants declare the same
	// discriminator value.
	ErrDuplicateValue = errors.New("duplicate discriminator value")
	// ErrReservedColumn is returned when a variant maps a column under the
	// discriminator column's qualifier.
	ErrReservedColumn = errors.New("column collides with discriminator")
	// ErrUnknownVariant is returned when an entity's concrete type is not
	// declared in the hierarchy.
	ErrUnknownVariant = errors.New("unregistered variant type")
	// ErrMapper is returned when a variant's field mapper cannot be built.
	ErrMapper = errors.New("field mapper construction failed")
	// ErrDiscriminator is returned when a stored discriminator cell cannot
	// be decoded.
	ErrDiscriminator = errors.New("unreadable discriminator")
)

// Error wraps a mapping error with a context message.
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
