package codec

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
)

// Gzip wraps another codec and compresses its output. It backs the
// `attr=gzip` field attribute for large text or blob columns.
func Gzip(inner Codec) Codec {
	return gzipCodec{inner: inner}
}

type gzipCodec struct {
	inner Codec
}

func (c gzipCodec) Name() string { return "gzip(" + c.inner.Name() + ")" }

func (c gzipCodec) Encode(v any) ([]byte, error) {
	raw, err := c.inner.Encode(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err = zw.Write(raw); err != nil {
		return nil, fmt.Errorf("gzip encode: %w", err)
	}
	if err = zw.Close(); err != nil {
		return nil, fmt.Errorf("gzip encode: %w", err)
	}
	return buf.Bytes(), nil
}

func (c gzipCodec) Decode(b []byte) (any, error) {
	zr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("gzip decode: %w", err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("gzip decode: %w", err)
	}
	if err = zr.Close(); err != nil {
		return nil, fmt.Errorf("gzip decode: %w", err)
	}
	return c.inner.Decode(raw)
}
