package schema

import (
	"reflect"
)

// Validator checks an aggregated row schema for conflicts. The default rule
// is codec agreement: columns sharing a qualifier must encode with the same
// codec, identified by codec name.
type Validator struct{}

// NewValidator returns the default validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate inspects the columns aggregated for a target type and returns an
// error naming the first qualifier whose codecs disagree. The column slice
// may contain the same qualifier many times, once per contributing variant.
func (v *Validator) Validate(target reflect.Type, columns []Column) error {
	byName := make(map[string]Column, len(columns))
	for _, c := range columns {
		prev, ok := byName[c.Name]
		if !ok {
			byName[c.Name] = c
			continue
		}
		if codecName(prev) != codecName(c) {
			return newError(ErrColumnConflict,
				"column %q of %v is encoded as both %s and %s",
				c.Name, target, codecName(prev), codecName(c))
		}
	}
	return nil
}

func codecName(c Column) string {
	if c.Codec == nil {
		return "<none>"
	}
	return c.Codec.Name()
}
