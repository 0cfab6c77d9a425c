package codec

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// JSON returns a codec that stores values of type t as their JSON encoding.
// It backs the `attr=json` field attribute, which lets a struct field of any
// JSON-marshalable type live in a single cell.
func JSON(t reflect.Type) Codec {
	return jsonCodec{typ: t}
}

type jsonCodec struct {
	typ reflect.Type
}

func (jsonCodec) Name() string { return "json" }

func (c jsonCodec) Encode(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return b, nil
}

func (c jsonCodec) Decode(b []byte) (any, error) {
	out := reflect.New(c.typ)
	if err := json.Unmarshal(b, out.Interface()); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return out.Elem().Interface(), nil
}
