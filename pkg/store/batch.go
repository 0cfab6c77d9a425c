package store

import (
	"fmt"
	"time"

	"github.com/litetable/litetable-orm/internal/wal"
	"github.com/litetable/litetable-orm/pkg/row"
)

var _ row.Sink = (*Batch)(nil)

// Batch accumulates column writes and clears against one family and applies
// them atomically. Operations on the same key and qualifier coalesce, last
// one wins, so a clear followed by a put leaves the put. A Batch is not
// safe for concurrent use; Apply resets it for reuse.
type Batch struct {
	store  *Store
	family string
	ops    []wal.Op
	index  map[string]int
}

// Batch opens a write batch against a family.
func (s *Store) Batch(family string) *Batch {
	return &Batch{
		store:  s,
		family: family,
		index:  make(map[string]int),
	}
}

// Put stages a cell write. A ttl of zero or less means the cell never
// expires.
func (b *Batch) Put(key, qualifier string, value []byte, ttl time.Duration) {
	if ttl < 0 {
		ttl = 0
	}
	b.stage(wal.Op{Key: key, Qualifier: qualifier, Value: value, TTL: ttl})
}

// Clear stages a tombstone for a cell.
func (b *Batch) Clear(key, qualifier string) {
	b.stage(wal.Op{Clear: true, Key: key, Qualifier: qualifier})
}

// Len returns the number of staged operations after coalescing.
func (b *Batch) Len() int {
	return len(b.ops)
}

func (b *Batch) stage(op wal.Op) {
	k := op.Key + "\x00" + op.Qualifier
	if i, ok := b.index[k]; ok {
		b.ops[i] = op
		return
	}
	b.index[k] = len(b.ops)
	b.ops = append(b.ops, op)
}

// Apply commits the batch under the store lock: the WAL entry is appended
// first, then every staged operation lands with one shared timestamp. An
// empty batch is a no-op. The batch is reset on success.
func (b *Batch) Apply() error {
	if len(b.ops) == 0 {
		return nil
	}

	s := b.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.families[b.family]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFamily, b.family)
	}

	now := time.Now()
	if s.wal != nil {
		entry := &wal.Entry{Family: b.family, Ops: b.ops, Timestamp: now}
		if err := s.wal.Apply(entry); err != nil {
			return fmt.Errorf("failed to append WAL: %w", err)
		}
	}

	for _, op := range b.ops {
		s.applyOp(b.family, op, now)
	}

	b.ops = nil
	b.index = make(map[string]int)
	return nil
}
