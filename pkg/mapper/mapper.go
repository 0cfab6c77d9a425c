// Package mapper maps one annotated struct type onto the columns of a flat
// row. Exported fields opt in with a column tag:
//
//	type Order struct {
//		schema.Entity `litetable:"family=orders, key=order_id, ttl=86400"`
//		OrderID       uuid.UUID         `column:"name=order_id"`
//		Total         float64           `column:"name=total"`
//		Items         map[string]int    `column:"name=items, attr=json"`
//		Receipt       []byte            `column:"name=receipt, attr=gzip"`
//	}
//
// name is the qualifier the field is stored under and attr names optional
// transforms applied to its encoding. The marker tag supplies the column
// family, the key column whose field doubles as the row key, and a default
// row TTL in seconds; all three can be overridden through Config.
package mapper

import (
	"errors"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/litetable/litetable-orm/pkg/codec"
	"github.com/litetable/litetable-orm/pkg/row"
	"github.com/litetable/litetable-orm/pkg/schema"
)

// TagKey is the struct tag read from mapped fields.
const TagKey = "column"

var (
	entityType = reflect.TypeOf(schema.Entity{})
	uuidType   = reflect.TypeOf(uuid.UUID{})
)

// Config carries the construction inputs of a Mapper.
type Config struct {
	// Type is the mapped struct type. Pointer types resolve to their
	// element type. Required.
	Type reflect.Type
	// Family overrides the family named on the marker tag.
	Family string
	// TTL overrides the default row TTL named on the marker tag.
	TTL time.Duration
	// Codecs resolves field codecs by type. Required.
	Codecs *codec.Registry
	// Transforms handles attr kinds on column tags. Defaults to
	// DefaultTransforms.
	Transforms Transforms
}

func (c *Config) validate() error {
	var errs []error
	if c.Type == nil {
		errs = append(errs, newError(ErrUnmappableField, "type is required"))
	} else if indirect(c.Type).Kind() != reflect.Struct {
		errs = append(errs, newError(ErrUnmappableField, "%v is not a struct type", c.Type))
	}
	if c.Codecs == nil {
		errs = append(errs, newError(ErrMissingCodec, "codec registry is required"))
	}
	return errors.Join(errs...)
}

// Mapper maps values of one struct type to and from row columns. It is
// immutable after construction and safe for concurrent use.
type Mapper struct {
	typ      reflect.Type
	family   string
	ttl      time.Duration
	fields   []FieldMapping
	byColumn map[string]FieldMapping
	key      FieldMapping
	hasKey   bool
}

// New builds a Mapper for cfg.Type by reflecting over its column tags.
// Every mapped field must resolve a codec, qualifiers must be unique within
// the type, and a declared key column must map a field of a row-key kind
// (string, uuid.UUID, or integer).
func New(cfg *Config) (*Mapper, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	t := indirect(cfg.Type)
	attrs, _ := schema.EntityTag(t)

	m := &Mapper{
		typ:      t,
		family:   cfg.Family,
		ttl:      cfg.TTL,
		byColumn: make(map[string]FieldMapping),
	}
	if m.family == "" {
		m.family = attrs["family"]
	}
	if m.ttl == 0 && attrs["ttl"] != "" {
		secs, err := strconv.Atoi(attrs["ttl"])
		if err != nil || secs < 0 {
			return nil, newError(ErrUnmappableField, "%s declares ttl=%q", t, attrs["ttl"])
		}
		m.ttl = time.Duration(secs) * time.Second
	}

	transforms := cfg.Transforms
	if transforms == nil {
		transforms = DefaultTransforms()
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type == entityType {
			continue
		}
		tag, ok := f.Tag.Lookup(TagKey)
		if !ok {
			continue
		}
		if !f.IsExported() {
			return nil, newError(ErrUnmappableField, "field %s.%s is unexported", t, f.Name)
		}

		fieldAttrs := schema.ParseTag(tag)
		name := fieldAttrs["name"]
		if name == "" {
			return nil, newError(ErrUnmappableField, "field %s.%s names no column", t, f.Name)
		}
		if _, dup := m.byColumn[name]; dup {
			return nil, newError(ErrUnmappableField,
				"column %q is mapped twice on %s", name, t)
		}

		fm := FieldMapping{Column: name, Field: f}
		if c, ok := cfg.Codecs.ForType(f.Type); ok {
			fm.Codec = c
		}
		for _, kind := range strings.Fields(fieldAttrs["attr"]) {
			tr, ok := transforms[kind]
			if !ok {
				return nil, newError(ErrUnknownAttribute,
					"field %s.%s declares attr %q", t, f.Name, kind)
			}
			var err error
			if fm, err = tr(fm); err != nil {
				return nil, err
			}
		}
		if fm.Codec == nil {
			return nil, newError(ErrMissingCodec,
				"field %s.%s of type %s", t, f.Name, f.Type)
		}

		m.fields = append(m.fields, fm)
		m.byColumn[name] = fm
	}

	if keyCol := attrs["key"]; keyCol != "" {
		fm, ok := m.byColumn[keyCol]
		if !ok {
			return nil, newError(ErrInvalidKey,
				"%s declares key=%q but maps no such column", t, keyCol)
		}
		if !keyKind(fm.Field.Type) {
			return nil, newError(ErrInvalidKey,
				"key field %s.%s has unsupported type %s", t, fm.Field.Name, fm.Field.Type)
		}
		m.key = fm
		m.hasKey = true
	}
	return m, nil
}

// Type returns the mapped struct type.
func (m *Mapper) Type() reflect.Type { return m.typ }

// Family returns the column family rows of this type live in.
func (m *Mapper) Family() string { return m.family }

// TTL returns the default row TTL applied when writes pass none.
func (m *Mapper) TTL() time.Duration { return m.ttl }

// Schema returns the (qualifier, codec) pairs of the mapped columns, sorted
// by qualifier.
func (m *Mapper) Schema() []schema.Column {
	out := make([]schema.Column, 0, len(m.fields))
	for _, fm := range m.fields {
		out = append(out, schema.Column{Name: fm.Column, Codec: fm.Codec})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Columns returns the mapped qualifiers, sorted.
func (m *Mapper) Columns() []string {
	out := make([]string, 0, len(m.fields))
	for _, fm := range m.fields {
		out = append(out, fm.Column)
	}
	sort.Strings(out)
	return out
}

// IsIDDefined reports whether the type declares a key column.
func (m *Mapper) IsIDDefined() bool { return m.hasKey }

// ID returns the row key held by the entity's key field.
func (m *Mapper) ID(entity any) (string, error) {
	if !m.hasKey {
		return "", newError(ErrNoKeyColumn, "type %s", m.typ)
	}
	v, err := m.value(entity)
	if err != nil {
		return "", err
	}
	fv := v.FieldByIndex(m.key.Field.Index)
	switch {
	case fv.Type() == uuidType:
		return fv.Interface().(uuid.UUID).String(), nil
	case fv.Kind() == reflect.String:
		return fv.String(), nil
	case isInt(fv.Kind()):
		return strconv.FormatInt(fv.Int(), 10), nil
	case isUint(fv.Kind()):
		return strconv.FormatUint(fv.Uint(), 10), nil
	}
	return "", newError(ErrInvalidKey, "key field %s.%s", m.typ, m.key.Field.Name)
}

// SetID stores the row key into the entity's key field. The entity must be
// a pointer to the mapped type.
func (m *Mapper) SetID(entity any, id string) error {
	if !m.hasKey {
		return newError(ErrNoKeyColumn, "type %s", m.typ)
	}
	v := reflect.ValueOf(entity)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Type() != m.typ {
		return newError(ErrWrongType, "SetID needs a *%s", m.typ)
	}
	fv := v.Elem().FieldByIndex(m.key.Field.Index)
	switch {
	case fv.Type() == uuidType:
		u, err := uuid.Parse(id)
		if err != nil {
			return newError(ErrInvalidKey, "parse %q: %v", id, err)
		}
		fv.Set(reflect.ValueOf(u))
	case fv.Kind() == reflect.String:
		fv.SetString(id)
	case isInt(fv.Kind()):
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil || fv.OverflowInt(n) {
			return newError(ErrInvalidKey, "parse %q for %s", id, fv.Type())
		}
		fv.SetInt(n)
	case isUint(fv.Kind()):
		n, err := strconv.ParseUint(id, 10, 64)
		if err != nil || fv.OverflowUint(n) {
			return newError(ErrInvalidKey, "parse %q for %s", id, fv.Type())
		}
		fv.SetUint(n)
	default:
		return newError(ErrInvalidKey, "key field %s.%s", m.typ, m.key.Field.Name)
	}
	return nil
}

// Write encodes every mapped field of the entity and puts it under the row
// key. A nil entity clears every mapped column instead, which is how rows
// are deleted. The TTL applies to each written cell; when the caller passes
// none the type's default applies.
func (m *Mapper) Write(key string, entity any, sink row.Sink, ttl time.Duration) error {
	if isNilEntity(entity) {
		m.Clear(key, sink)
		return nil
	}
	v, err := m.value(entity)
	if err != nil {
		return err
	}
	effective := ttl
	if effective <= 0 {
		effective = m.ttl
	}
	for _, fm := range m.fields {
		b, err := fm.Codec.Encode(v.FieldByIndex(fm.Field.Index).Interface())
		if err != nil {
			return newError(ErrEncode, "column %q of %s: %v", fm.Column, m.typ, err)
		}
		sink.Put(key, fm.Column, b, effective)
	}
	return nil
}

// Read decodes the row's columns into a new *T. Columns absent from the
// source leave their fields at the zero value.
func (m *Mapper) Read(key string, src row.Source) (any, error) {
	out := reflect.New(m.typ)
	for _, fm := range m.fields {
		b, ok := src.Get(key, fm.Column)
		if !ok {
			continue
		}
		val, err := fm.Codec.Decode(b)
		if err != nil {
			return nil, newError(ErrDecode, "column %q of %s: %v", fm.Column, m.typ, err)
		}
		fv := out.Elem().FieldByIndex(fm.Field.Index)
		rv := reflect.ValueOf(val)
		if !rv.Type().AssignableTo(fv.Type()) {
			if !rv.Type().ConvertibleTo(fv.Type()) {
				return nil, newError(ErrDecode,
					"column %q decodes to %s, field %s.%s wants %s",
					fm.Column, rv.Type(), m.typ, fm.Field.Name, fv.Type())
			}
			rv = rv.Convert(fv.Type())
		}
		fv.Set(rv)
	}
	return out.Interface(), nil
}

// Clear issues clears for the named columns under the row key, or for every
// mapped column when none are named. Unmapped names are ignored.
func (m *Mapper) Clear(key string, sink row.Sink, columns ...string) {
	if len(columns) == 0 {
		for _, fm := range m.fields {
			sink.Clear(key, fm.Column)
		}
		return
	}
	for _, name := range columns {
		if _, ok := m.byColumn[name]; ok {
			sink.Clear(key, name)
		}
	}
}

func (m *Mapper) value(entity any) (reflect.Value, error) {
	v := reflect.ValueOf(entity)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if !v.IsValid() || v.Type() != m.typ {
		return reflect.Value{}, newError(ErrWrongType,
			"got %T, mapped type is %s", entity, m.typ)
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

func keyKind(t reflect.Type) bool {
	if t == uuidType {
		return true
	}
	k := t.Kind()
	return k == reflect.String || isInt(k) || isUint(k)
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uint64
}

func indirect(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}
