// Package schema holds the declarative side of the mapper: the struct
// annotations read through reflection, the closed-hierarchy registrations,
// and the validator applied to an aggregated row schema.
//
// A mapped struct embeds the Entity marker and annotates it with the
// type-level tag:
//
//	type PaymentEvent struct {
//		schema.Entity `litetable:"family=events, key=event_id, discriminator=payment, ttl=86400"`
//		EventID       string  `column:"name=event_id"`
//		Amount        float64 `column:"name=amount"`
//	}
//
// family names the column family rows live in, key names the column whose
// field doubles as the row key, ttl is a default row TTL in seconds, and
// discriminator is the variant tag when the type belongs to a hierarchy.
package schema

import (
	"reflect"
	"strings"

	"github.com/litetable/litetable-orm/pkg/codec"
)

// TagKey is the struct tag read from the embedded Entity marker.
const TagKey = "litetable"

// Entity marks a struct as mappable and carries the type-level annotations
// on its field tag. It has no behavior and no size.
type Entity struct{}

var entityType = reflect.TypeOf(Entity{})

// Column is one (qualifier name, codec) pair of a row schema.
type Column struct {
	Name  string
	Codec codec.Codec
}

// TagAttrs holds the parsed `key=value` attributes of one tag.
type TagAttrs map[string]string

// ParseTag splits a comma-separated attribute tag into its key=value pairs.
// Attributes without a value parse to an empty string.
func ParseTag(tag string) TagAttrs {
	attrs := make(TagAttrs)
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 {
			attrs[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		} else {
			attrs[kv[0]] = ""
		}
	}
	return attrs
}

// EntityTag returns the parsed litetable tag of t's embedded Entity marker.
// The second return is false when t carries no marker.
func EntityTag(t reflect.Type) (TagAttrs, bool) {
	if t.Kind() != reflect.Struct {
		return nil, false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type == entityType {
			return ParseTag(f.Tag.Get(TagKey)), true
		}
	}
	return nil, false
}

// TypeOf resolves the reflect.Type of T without needing a value, which is
// how interface hierarchy targets are named.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// indirect resolves pointer types to the struct type they point at. Mapped
// entities travel as either T or *T; registrations are keyed by T.
func indirect(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}
