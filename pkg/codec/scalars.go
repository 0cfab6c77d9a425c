package codec

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Builtin codecs. Cell values stay readable from the litetable shell, so the
// scalar encodings are textual; only string and []byte are stored verbatim.
var (
	String  Codec = stringCodec{}
	Bytes   Codec = bytesCodec{}
	Bool    Codec = boolCodec{}
	Int     Codec = intCodec{}
	Int64   Codec = int64Codec{}
	Float64 Codec = float64Codec{}
	Time    Codec = timeCodec{}
	UUID    Codec = uuidCodec{}
)

var builtins = map[reflect.Type]Codec{
	reflect.TypeOf(""):          String,
	reflect.TypeOf([]byte(nil)): Bytes,
	reflect.TypeOf(false):       Bool,
	reflect.TypeOf(int(0)):      Int,
	reflect.TypeOf(int64(0)):    Int64,
	reflect.TypeOf(float64(0)):  Float64,
	reflect.TypeOf(time.Time{}): Time,
	reflect.TypeOf(uuid.UUID{}): UUID,
}

type stringCodec struct{}

func (stringCodec) Name() string { return "string" }

func (c stringCodec) Encode(v any) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, typeErr(c, v)
	}
	return []byte(s), nil
}

func (stringCodec) Decode(b []byte) (any, error) { return string(b), nil }

type bytesCodec struct{}

func (bytesCodec) Name() string { return "bytes" }

func (c bytesCodec) Encode(v any) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, typeErr(c, v)
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (bytesCodec) Decode(b []byte) (any, error) {
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

type boolCodec struct{}

func (boolCodec) Name() string { return "bool" }

func (c boolCodec) Encode(v any) ([]byte, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, typeErr(c, v)
	}
	return []byte(strconv.FormatBool(b)), nil
}

func (boolCodec) Decode(b []byte) (any, error) {
	v, err := strconv.ParseBool(string(b))
	if err != nil {
		return nil, fmt.Errorf("decode bool: %w", err)
	}
	return v, nil
}

type intCodec struct{}

func (intCodec) Name() string { return "int" }

func (c intCodec) Encode(v any) ([]byte, error) {
	i, ok := v.(int)
	if !ok {
		return nil, typeErr(c, v)
	}
	return []byte(strconv.Itoa(i)), nil
}

func (intCodec) Decode(b []byte) (any, error) {
	v, err := strconv.Atoi(string(b))
	if err != nil {
		return nil, fmt.Errorf("decode int: %w", err)
	}
	return v, nil
}

type int64Codec struct{}

func (int64Codec) Name() string { return "int64" }

func (c int64Codec) Encode(v any) ([]byte, error) {
	i, ok := v.(int64)
	if !ok {
		return nil, typeErr(c, v)
	}
	return []byte(strconv.FormatInt(i, 10)), nil
}

func (int64Codec) Decode(b []byte) (any, error) {
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode int64: %w", err)
	}
	return v, nil
}

type float64Codec struct{}

func (float64Codec) Name() string { return "float64" }

func (c float64Codec) Encode(v any) ([]byte, error) {
	f, ok := v.(float64)
	if !ok {
		return nil, typeErr(c, v)
	}
	return []byte(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

func (float64Codec) Decode(b []byte) (any, error) {
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return nil, fmt.Errorf("decode float64: %w", err)
	}
	return v, nil
}

type timeCodec struct{}

func (timeCodec) Name() string { return "time" }

func (c timeCodec) Encode(v any) ([]byte, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, typeErr(c, v)
	}
	return []byte(t.Format(time.RFC3339Nano)), nil
}

func (timeCodec) Decode(b []byte) (any, error) {
	t, err := time.Parse(time.RFC3339Nano, string(b))
	if err != nil {
		return nil, fmt.Errorf("decode time: %w", err)
	}
	return t, nil
}

type uuidCodec struct{}

func (uuidCodec) Name() string { return "uuid" }

func (c uuidCodec) Encode(v any) ([]byte, error) {
	id, ok := v.(uuid.UUID)
	if !ok {
		return nil, typeErr(c, v)
	}
	return []byte(id.String()), nil
}

func (uuidCodec) Decode(b []byte) (any, error) {
	id, err := uuid.Parse(string(b))
	if err != nil {
		return nil, fmt.Errorf("decode uuid: %w", err)
	}
	return id, nil
}
