// Package row declares the contracts between the mappers and a row store.
// A store hands out a Sink per mutation batch and a Source per row read;
// pkg/store and pkg/store/sqlite provide the builtin implementations.
package row

import "time"

// Sink accumulates column writes and clears for rows of one column family.
// Batching and atomicity are the sink's responsibility: the mappers issue a
// sequence of Put/Clear calls and the sink's owner applies them as one unit.
// Implementations must preserve call order per (key, qualifier).
type Sink interface {
	// Put records a value for a row's qualifier. A ttl of zero or below
	// means the cell never expires.
	Put(key, qualifier string, value []byte, ttl time.Duration)

	// Clear records the removal of a row's qualifier.
	Clear(key, qualifier string)
}

// Source supplies the visible column values of rows in one column family.
type Source interface {
	// Get returns the value stored under a row's qualifier. The second
	// return is false when the qualifier was never written, was cleared,
	// or has expired.
	Get(key, qualifier string) ([]byte, bool)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(key, qualifier string) ([]byte, bool)

func (f SourceFunc) Get(key, qualifier string) ([]byte, bool) { return f(key, qualifier) }
