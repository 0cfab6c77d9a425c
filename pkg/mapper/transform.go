package mapper

import (
	"reflect"

	"github.com/litetable/litetable-orm/pkg/codec"
)

// FieldMapping binds one struct field to its qualifier and codec. Transforms
// receive the mapping after registry lookup and may replace the codec.
type FieldMapping struct {
	// Column is the qualifier the field is stored under.
	Column string
	// Codec encodes and decodes the field value. Nil until the registry or
	// a transform provides one.
	Codec codec.Codec
	// Field is the mapped struct field.
	Field reflect.StructField
}

// Transform rewrites a field mapping for one attribute kind.
type Transform func(FieldMapping) (FieldMapping, error)

// Transforms maps attribute kinds, as written in `attr=` tag values, to
// their transforms. Attribute kinds are applied left to right when a field
// declares several, as in `attr=json gzip`.
type Transforms map[string]Transform

// DefaultTransforms returns the built-in attribute handlers:
//
//	json: encode the field as JSON, replacing any registry codec
//	gzip: compress the field's current encoding
func DefaultTransforms() Transforms {
	return Transforms{
		"json": func(m FieldMapping) (FieldMapping, error) {
			m.Codec = codec.JSON(m.Field.Type)
			return m, nil
		},
		"gzip": func(m FieldMapping) (FieldMapping, error) {
			if m.Codec == nil {
				return m, newError(ErrMissingCodec,
					"gzip on field %s wraps no codec", m.Field.Name)
			}
			m.Codec = codec.Gzip(m.Codec)
			return m, nil
		},
	}
}
