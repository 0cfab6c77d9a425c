// Package orm maps a closed hierarchy of struct types onto single rows of a
// wide-column table. One interface type is the hierarchy target; each
// concrete variant declares a discriminator value on its entity marker, and
// the mapper stores that value in a dedicated column alongside the variant's
// own columns. Writes keep a row inside one variant by clearing the columns
// of every other variant first; reads dispatch on the stored discriminator
// and report presence as a tri-state Result.
//
//	reg := schema.NewTagResolver()
//	_ = reg.RegisterHierarchy(schema.HierarchyOf[Notification]("notifs", "kind",
//		PushNotification{}, EmailNotification{}))
//
//	m, err := orm.New(&orm.Config{
//		Target:   schema.TypeOf[Notification](),
//		Resolver: reg,
//	})
//
// All mapper state is immutable after construction; a VariantMapper is safe
// for unsynchronized concurrent use.
package orm

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/litetable/litetable-orm/pkg/codec"
	"github.com/litetable/litetable-orm/pkg/mapper"
	"github.com/litetable/litetable-orm/pkg/row"
	"github.com/litetable/litetable-orm/pkg/schema"
)

//go:generate mockgen -destination=orm_mock.go -package=orm -source=orm.go

// resolver supplies the hierarchy registration for a target type and the
// marker annotations of its declared variants.
type resolver interface {
	Hierarchy(target reflect.Type) (*schema.Hierarchy, error)
	Variant(t reflect.Type) (*schema.VariantInfo, error)
}

// validator checks the aggregated row schema before it is exposed.
type validator interface {
	Validate(target reflect.Type, columns []schema.Column) error
}

// FieldMapper maps one variant struct to and from its own columns. The
// default implementation is pkg/mapper; the interface is what the dispatch
// layer programs against.
type FieldMapper interface {
	Schema() []schema.Column
	Columns() []string
	IsIDDefined() bool
	ID(entity any) (string, error)
	SetID(entity any, id string) error
	Write(key string, entity any, sink row.Sink, ttl time.Duration) error
	Read(key string, src row.Source) (any, error)
	Clear(key string, sink row.Sink, columns ...string)
}

// MapperFactory builds the field mapper of one declared variant.
type MapperFactory func(t reflect.Type, h *schema.Hierarchy, info *schema.VariantInfo) (FieldMapper, error)

// Config carries the construction inputs of a VariantMapper.
type Config struct {
	// Target is the hierarchy's interface type. Use schema.TypeOf. Required.
	Target reflect.Type
	// Resolver supplies the hierarchy and variant annotations. Required.
	Resolver resolver
	// Codecs is the serializer registry handed to the default factory and
	// used for the discriminator column. It must resolve a string codec.
	// Defaults to codec.NewRegistry.
	Codecs *codec.Registry
	// Transforms handles field attributes in the default factory. Defaults
	// to mapper.DefaultTransforms.
	Transforms mapper.Transforms
	// Validator checks the aggregated schema. Defaults to schema.NewValidator.
	// A validator that admits one qualifier under two codecs leaves both
	// pairs in Schema.
	Validator validator
	// Factory builds each variant's field mapper. Defaults to pkg/mapper
	// configured with the hierarchy family and the variant TTL.
	Factory MapperFactory
	// Logger records read anomalies. Defaults to the global logger.
	Logger *zerolog.Logger
}

func (c *Config) validate() error {
	var errs []error
	if c.Target == nil || c.Target.Kind() != reflect.Interface {
		errs = append(errs, newError(ErrInvalidTarget, "target %v is not an interface", c.Target))
	}
	if c.Resolver == nil {
		errs = append(errs, errors.New("resolver is required"))
	}
	return errors.Join(errs...)
}

// variant is one registered member of the hierarchy. columns snapshots the
// mapper's declared qualifiers at construction; the cross-variant clear on
// write runs over exactly this set.
type variant struct {
	typ     reflect.Type
	value   string
	ttl     time.Duration
	columns []string
	mapper  FieldMapper
}

// VariantMapper maps every variant of one hierarchy onto rows that share a
// key space and a discriminator column. It is immutable after construction.
type VariantMapper struct {
	target    reflect.Type
	family    string
	column    string
	discCodec codec.Codec
	variants  []*variant
	byType    map[reflect.Type]*variant
	byValue   map[string]*variant
	schema    []schema.Column
	idDefined bool
	logger    zerolog.Logger
}

// New resolves the target's hierarchy, builds a field mapper per variant,
// and aggregates the row schema. Configuration faults fail here, never at
// read or write time: a variant without a discriminator attribute, two
// variants sharing a discriminator value, a variant column colliding with
// the discriminator column, and codec conflicts across variants are all
// construction errors.
func New(cfg *Config) (*VariantMapper, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	codecs := cfg.Codecs
	if codecs == nil {
		codecs = codec.NewRegistry()
	}
	valid := cfg.Validator
	if valid == nil {
		valid = schema.NewValidator()
	}
	factory := cfg.Factory
	if factory == nil {
		factory = defaultFactory(codecs, cfg.Transforms)
	}
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	discCodec, ok := codecs.ForType(reflect.TypeOf(""))
	if !ok {
		return nil, newError(ErrNoStringCodec, "target %s", cfg.Target)
	}

	h, err := cfg.Resolver.Hierarchy(cfg.Target)
	if err != nil {
		return nil, err
	}

	m := &VariantMapper{
		target:    cfg.Target,
		family:    h.Family,
		column:    h.Column,
		discCodec: discCodec,
		byType:    make(map[reflect.Type]*variant, len(h.Variants)),
		byValue:   make(map[string]*variant, len(h.Variants)),
		idDefined: true,
		logger:    logger,
	}

	valueTypes := make(map[string][]reflect.Type, len(h.Variants))
	for _, t := range h.Variants {
		vt := indirect(t)
		info, err := cfg.Resolver.Variant(vt)
		if err != nil {
			return nil, err
		}
		fm, err := factory(vt, h, info)
		if err != nil {
			return nil, newError(ErrMapper, "variant %s of %s: %v", vt, cfg.Target, err)
		}
		v := &variant{
			typ:     vt,
			value:   info.Value,
			ttl:     info.TTL,
			columns: fm.Columns(),
			mapper:  fm,
		}
		m.variants = append(m.variants, v)
		m.byType[vt] = v
		m.byValue[info.Value] = v
		valueTypes[info.Value] = append(valueTypes[info.Value], vt)
		m.idDefined = m.idDefined && fm.IsIDDefined()
	}

	if err := duplicateValues(cfg.Target, valueTypes); err != nil {
		return nil, err
	}
	if err := m.aggregate(valid); err != nil {
		return nil, err
	}
	return m, nil
}

// duplicateValues fails when any discriminator value is declared by more
// than one variant, naming every offending type.
func duplicateValues(target reflect.Type, valueTypes map[string][]reflect.Type) error {
	var dups []string
	for value, types := range valueTypes {
		if len(types) < 2 {
			continue
		}
		names := make([]string, 0, len(types))
		for _, t := range types {
			names = append(names, t.String())
		}
		sort.Strings(names)
		dups = append(dups, fmt.Sprintf("%q declared by %s", value, strings.Join(names, " and ")))
	}
	if len(dups) == 0 {
		return nil
	}
	sort.Strings(dups)
	return newError(ErrDuplicateValue, "target %s: %s", target, strings.Join(dups, "; "))
}

// aggregate unions the variant schemas as a set of (qualifier, codec) pairs,
// rejects collisions with the discriminator column, delegates conflict
// checking to the validator, and exposes the result with the discriminator
// column appended. Identical pairs collapse; a qualifier the validator let
// through under two codecs keeps both pairs.
func (m *VariantMapper) aggregate(valid validator) error {
	var all []schema.Column
	for _, v := range m.variants {
		for _, col := range v.mapper.Schema() {
			if col.Name == m.column {
				return newError(ErrReservedColumn,
					"column %q of %s is the discriminator column of %s",
					col.Name, v.typ, m.target)
			}
			all = append(all, col)
		}
	}
	if err := valid.Validate(m.target, all); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(all))
	for _, col := range all {
		id := col.Name + "\x00" + codecName(col)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		m.schema = append(m.schema, col)
	}
	m.schema = append(m.schema, schema.Column{Name: m.column, Codec: m.discCodec})
	sort.Slice(m.schema, func(i, j int) bool {
		if m.schema[i].Name != m.schema[j].Name {
			return m.schema[i].Name < m.schema[j].Name
		}
		return codecName(m.schema[i]) < codecName(m.schema[j])
	})
	return nil
}

func codecName(c schema.Column) string {
	if c.Codec == nil {
		return "<none>"
	}
	return c.Codec.Name()
}

func defaultFactory(codecs *codec.Registry, transforms mapper.Transforms) MapperFactory {
	return func(t reflect.Type, h *schema.Hierarchy, info *schema.VariantInfo) (FieldMapper, error) {
		return mapper.New(&mapper.Config{
			Type:       t,
			Family:     h.Family,
			TTL:        info.TTL,
			Codecs:     codecs,
			Transforms: transforms,
		})
	}
}

// Target returns the hierarchy's interface type.
func (m *VariantMapper) Target() reflect.Type { return m.target }

// Family returns the hierarchy's shared column family, which may be empty
// when the variants declare their own.
func (m *VariantMapper) Family() string { return m.family }

// Column returns the discriminator column's qualifier.
func (m *VariantMapper) Column() string { return m.column }

// Variants returns the declared variant types in registration order.
func (m *VariantMapper) Variants() []reflect.Type {
	out := make([]reflect.Type, 0, len(m.variants))
	for _, v := range m.variants {
		out = append(out, v.typ)
	}
	return out
}

// Schema returns the aggregated row schema: the union of every variant's
// (qualifier, codec) pairs plus the discriminator column, sorted by
// qualifier and then codec name.
func (m *VariantMapper) Schema() []schema.Column { return m.schema }

// IsIDDefined reports whether every variant declares a key column, which is
// the condition for ID and SetID to work across the whole hierarchy.
func (m *VariantMapper) IsIDDefined() bool { return m.idDefined }

// variantOf resolves the registered variant of an entity's dynamic type.
// Pointer forms resolve to the struct type they point at.
func (m *VariantMapper) variantOf(entity any) (*variant, error) {
	t := indirect(reflect.TypeOf(entity))
	v, ok := m.byType[t]
	if !ok {
		return nil, newError(ErrUnknownVariant,
			"type %T is not a declared variant of %s", entity, m.target)
	}
	return v, nil
}

func isNilEntity(entity any) bool {
	if entity == nil {
		return true
	}
	v := reflect.ValueOf(entity)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func indirect(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}
