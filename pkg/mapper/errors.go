package mapper

import (
	"errors"
	"fmt"
)

var (
	// ErrUnmappableField is returned when a column tag cannot be turned
	// into a field mapping.
	ErrUnmappableField = errors.New("unmappable field")
	// ErrMissingCodec is returned when no codec resolves for a mapped
	// field type.
	ErrMissingCodec = errors.New("no codec for field")
	// ErrUnknownAttribute is returned when a column tag names an attribute
	// kind no transform handles.
	ErrUnknownAttribute = errors.New("unknown field attribute")
	// ErrWrongType is returned when an entity value does not match the
	// mapped type.
	ErrWrongType = errors.New("wrong entity type")
	// ErrNoKeyColumn is returned by ID and SetID when the type declares no
	// key column.
	ErrNoKeyColumn = errors.New("no key column")
	// ErrInvalidKey is returned when a key column declaration or value is
	// unusable.
	ErrInvalidKey = errors.New("invalid key column")
	// ErrEncode is returned when a field value cannot be encoded.
	ErrEncode = errors.New("encode failed")
	// ErrDecode is returned when a stored column cannot be decoded into
	// its field.
	ErrDecode = errors.New("decode failed")
)

// Error wraps a mapper error with a context message.
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
