// Package codec converts Go values to and from the raw bytes stored in a
// LiteTable cell. Every mapped column is bound to exactly one Codec; the
// mapper looks codecs up by the Go type of the struct field.
package codec

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// Codec encodes one column value to bytes and back.
type Codec interface {
	// Name identifies the codec. Two variants may share a column name only
	// when their codecs report the same Name, so Name is the codec's
	// identity for schema comparison.
	Name() string
	Encode(v any) ([]byte, error)
	Decode(b []byte) (any, error)
}

var errUnsupportedType = errors.New("unsupported value type")

// Registry maps Go types to their column codec. A registry handed to a
// mapper must not be mutated afterwards; Register is for setup only.
type Registry struct {
	mu     sync.RWMutex
	byType map[reflect.Type]Codec
}

// NewRegistry returns a registry with the builtin codecs installed:
// string, []byte, bool, int, int64, float64, time.Time and uuid.UUID.
func NewRegistry() *Registry {
	r := &Registry{byType: make(map[reflect.Type]Codec)}
	for t, c := range builtins {
		r.byType[t] = c
	}
	return r
}

// Register binds a codec to a Go type, replacing any builtin binding.
func (r *Registry) Register(t reflect.Type, c Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byType[t] = c
}

// ForType returns the codec bound to t.
func (r *Registry) ForType(t reflect.Type) (Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byType[t]
	return c, ok
}

// typeErr reports an Encode call with a value of the wrong Go type.
func typeErr(c Codec, v any) error {
	return fmt.Errorf("codec %s: %w: %T", c.Name(), errUnsupportedType, v)
}
