package orm

import (
	"time"

	"github.com/litetable/litetable-orm/pkg/row"
)

// Write stores the entity under the row key, keeping the row inside a
// single variant: the declared columns of every other variant are cleared
// first, then the discriminator cell is stamped with the entity's value,
// then the entity's own columns are written. A nil entity deletes the row
// instead, clearing the discriminator and every variant's columns.
//
// The TTL applies to the discriminator and every written cell; when the
// caller passes none the variant's declared default applies.
func (m *VariantMapper) Write(key string, entity any, sink row.Sink, ttl time.Duration) error {
	if isNilEntity(entity) {
		sink.Clear(key, m.column)
		for _, v := range m.variants {
			if err := v.mapper.Write(key, nil, sink, 0); err != nil {
				return err
			}
		}
		return nil
	}

	v, err := m.variantOf(entity)
	if err != nil {
		return err
	}
	for _, other := range m.variants {
		if other == v {
			continue
		}
		other.mapper.Clear(key, sink, other.columns...)
	}

	effective := ttl
	if effective <= 0 {
		effective = v.ttl
	}
	b, err := m.discCodec.Encode(v.value)
	if err != nil {
		return newError(ErrDiscriminator, "encode %q for %s: %v", v.value, m.target, err)
	}
	sink.Put(key, m.column, b, effective)

	return v.mapper.Write(key, entity, sink, ttl)
}

// ID returns the row key held by the entity's key field, dispatched to the
// entity's variant mapper.
func (m *VariantMapper) ID(entity any) (string, error) {
	v, err := m.variantOf(entity)
	if err != nil {
		return "", err
	}
	return v.mapper.ID(entity)
}

// SetID stores the row key into the entity's key field, dispatched to the
// entity's variant mapper. The entity must be a pointer to its variant
// struct.
func (m *VariantMapper) SetID(entity any, id string) error {
	v, err := m.variantOf(entity)
	if err != nil {
		return err
	}
	return v.mapper.SetID(entity, id)
}
