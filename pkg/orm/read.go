package orm

import (
	"github.com/litetable/litetable-orm/pkg/row"
)

type resultState int

const (
	stateUndefined resultState = iota
	stateAbsent
	statePresent
)

// Result is the tri-state outcome of a hierarchy read. A row is Present
// when its discriminator matched a registered variant and the entity was
// decoded, Absent when the row holds no discriminator cell at all, and
// Undefined when a discriminator was found but no registered variant
// claims it.
type Result struct {
	state  resultState
	entity any
}

// Present wraps a decoded entity.
func Present(entity any) Result { return Result{state: statePresent, entity: entity} }

// Absent is the result of a row without a discriminator cell.
func Absent() Result { return Result{state: stateAbsent} }

// Undefined is the result of a row whose discriminator matches no
// registered variant.
func Undefined() Result { return Result{state: stateUndefined} }

// IsPresent reports whether the read produced an entity.
func (r Result) IsPresent() bool { return r.state == statePresent }

// IsAbsent reports whether the row held no discriminator cell.
func (r Result) IsAbsent() bool { return r.state == stateAbsent }

// IsUndefined reports whether the row's discriminator matched no
// registered variant.
func (r Result) IsUndefined() bool { return r.state == stateUndefined }

// Entity returns the decoded entity when the result is Present.
func (r Result) Entity() (any, bool) {
	if r.state != statePresent {
		return nil, false
	}
	return r.entity, true
}

// As returns a Present result's entity as T. Decoded entities are pointers
// to their variant structs, so As[*PushNotification](res) is the usual form.
func As[T any](r Result) (T, bool) {
	var zero T
	e, ok := r.Entity()
	if !ok {
		return zero, false
	}
	v, ok := e.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// Read loads the row under the key and dispatches on its discriminator
// cell. A missing cell yields Absent without consulting any variant
// mapper. A value no variant declares is an anomaly, not an error: it is
// logged once at error level with the row key, the value, and the target
// type, and the read yields Undefined. Otherwise the matching variant's
// mapper decodes the row and the result is Present.
func (m *VariantMapper) Read(key string, src row.Source) (Result, error) {
	b, ok := src.Get(key, m.column)
	if !ok {
		return Absent(), nil
	}

	decoded, err := m.discCodec.Decode(b)
	if err != nil {
		return Result{}, newError(ErrDiscriminator, "row %q of %s: %v", key, m.target, err)
	}
	value, ok := decoded.(string)
	if !ok {
		return Result{}, newError(ErrDiscriminator,
			"row %q of %s: codec %s yielded %T", key, m.target, m.discCodec.Name(), decoded)
	}

	v, ok := m.byValue[value]
	if !ok {
		m.logger.Error().
			Str("row_key", key).
			Str("discriminator", value).
			Str("target", m.target.String()).
			Msg("unknown discriminator value")
		return Undefined(), nil
	}

	entity, err := v.mapper.Read(key, src)
	if err != nil {
		return Result{}, err
	}
	return Present(entity), nil
}
