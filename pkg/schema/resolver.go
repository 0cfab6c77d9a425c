package schema

import (
	"reflect"
	"strconv"
	"sync"
	"time"
)

// Hierarchy declares one closed variant set: every concrete struct that may
// stand in for the target interface on a mapped row, plus the shared family
// and the qualifier the discriminator value is stored under.
type Hierarchy struct {
	// Target is the interface type all variants implement.
	Target reflect.Type
	// Family is the column family shared by the variants. It may be empty
	// when each variant names its own family on the marker tag.
	Family string
	// Column is the qualifier holding the discriminator value.
	Column string
	// Variants are the concrete struct types of the hierarchy.
	Variants []reflect.Type
}

// HierarchyOf builds a Hierarchy for the interface T from variant values,
// so call sites can write HierarchyOf[Event]("events", "kind", PushEvent{},
// EmailEvent{}) instead of spelling reflect types out.
func HierarchyOf[T any](family, column string, variants ...any) *Hierarchy {
	h := &Hierarchy{
		Target: TypeOf[T](),
		Family: family,
		Column: column,
	}
	for _, v := range variants {
		h.Variants = append(h.Variants, indirect(reflect.TypeOf(v)))
	}
	return h
}

// VariantInfo is the resolved annotation set of one variant: the
// discriminator value written to the hierarchy column and the row TTL the
// type declares for itself. A zero TTL means the type declares none.
type VariantInfo struct {
	Value string
	TTL   time.Duration
}

// TagResolver resolves hierarchy membership and variant annotations from
// registered hierarchies and the marker tags on their variant structs.
// It is safe for concurrent use once populated.
type TagResolver struct {
	mu          sync.RWMutex
	hierarchies map[reflect.Type]*Hierarchy
	membership  map[reflect.Type]*Hierarchy
}

// NewTagResolver returns an empty resolver.
func NewTagResolver() *TagResolver {
	return &TagResolver{
		hierarchies: make(map[reflect.Type]*Hierarchy),
		membership:  make(map[reflect.Type]*Hierarchy),
	}
}

// RegisterHierarchy validates and records one hierarchy. The target must be
// an interface, every variant a struct implementing it, and neither the
// target nor any variant may already be registered.
func (r *TagResolver) RegisterHierarchy(h *Hierarchy) error {
	if h == nil {
		return newError(ErrInvalidHierarchy, "hierarchy is nil")
	}
	if h.Target == nil || h.Target.Kind() != reflect.Interface {
		return newError(ErrInvalidHierarchy, "target %v is not an interface", h.Target)
	}
	if h.Column == "" {
		return newError(ErrInvalidHierarchy, "hierarchy for %s has no discriminator column", h.Target)
	}
	if len(h.Variants) == 0 {
		return newError(ErrInvalidHierarchy, "hierarchy for %s declares no variants", h.Target)
	}

	seen := make(map[reflect.Type]struct{}, len(h.Variants))
	for _, v := range h.Variants {
		vt := indirect(v)
		if vt == nil || vt.Kind() != reflect.Struct {
			return newError(ErrInvalidHierarchy, "variant %v of %s is not a struct", v, h.Target)
		}
		if !vt.Implements(h.Target) && !reflect.PointerTo(vt).Implements(h.Target) {
			return newError(ErrInvalidHierarchy, "variant %s does not implement %s", vt, h.Target)
		}
		if _, dup := seen[vt]; dup {
			return newError(ErrInvalidHierarchy, "variant %s of %s is declared twice", vt, h.Target)
		}
		seen[vt] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.hierarchies[h.Target]; ok {
		return newError(ErrDuplicateHierarchy, "target %s", h.Target)
	}
	for vt := range seen {
		if prev, ok := r.membership[vt]; ok {
			return newError(ErrDuplicateHierarchy,
				"variant %s already belongs to %s", vt, prev.Target)
		}
	}
	r.hierarchies[h.Target] = h
	for vt := range seen {
		r.membership[vt] = h
	}
	return nil
}

// Hierarchy returns the registration for a target interface.
func (r *TagResolver) Hierarchy(target reflect.Type) (*Hierarchy, error) {
	r.mu.RLock()
	h, ok := r.hierarchies[indirect(target)]
	r.mu.RUnlock()
	if !ok {
		return nil, newError(ErrUnknownHierarchy, "no hierarchy registered for %v", target)
	}
	return h, nil
}

// Variant resolves the annotations of a declared variant from its marker
// tag. A variant without a discriminator attribute is a declaration error
// named after the offending type and its hierarchy target.
func (r *TagResolver) Variant(t reflect.Type) (*VariantInfo, error) {
	vt := indirect(t)
	r.mu.RLock()
	h, ok := r.membership[vt]
	r.mu.RUnlock()
	if !ok {
		return nil, newError(ErrUnknownHierarchy, "type %v is not a declared variant", t)
	}

	attrs, ok := EntityTag(vt)
	if !ok {
		return nil, newError(ErrMissingDiscriminator,
			"variant %s of %s has no entity marker", vt, h.Target)
	}
	value, ok := attrs["discriminator"]
	if !ok || value == "" {
		return nil, newError(ErrMissingDiscriminator,
			"variant %s of %s", vt, h.Target)
	}

	info := &VariantInfo{Value: value}
	if s, ok := attrs["ttl"]; ok && s != "" {
		secs, err := strconv.Atoi(s)
		if err != nil || secs < 0 {
			return nil, newError(ErrInvalidTag,
				"variant %s declares ttl=%q", vt, s)
		}
		info.TTL = time.Duration(secs) * time.Second
	}
	return info, nil
}

// InHierarchy reports whether t participates in any registered hierarchy,
// either as a declared variant or as a target interface. Callers use it to
// decide between plain and variant mapping for a type.
func (r *TagResolver) InHierarchy(t reflect.Type) bool {
	vt := indirect(t)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.membership[vt]; ok {
		return true
	}
	_, ok := r.hierarchies[vt]
	return ok
}
