package sqlite

import (
	"fmt"
	"time"

	"github.com/litetable/litetable-orm/pkg/row"
	"github.com/litetable/litetable-orm/pkg/store"
)

var _ row.Sink = (*Batch)(nil)

// op is one staged mutation.
type op struct {
	clear     bool
	key       string
	qualifier string
	value     []byte
	ttl       time.Duration
}

// Batch accumulates writes and clears against one column family and applies
// them in a single transaction. Within a batch the last operation per
// (key, qualifier) wins. A batch is not safe for concurrent use.
type Batch struct {
	store  *Store
	family string
	ops    []op
	index  map[string]int
}

// Batch starts an empty batch for a column family.
func (s *Store) Batch(family string) *Batch {
	return &Batch{
		store:  s,
		family: family,
		index:  make(map[string]int),
	}
}

// Put stages a value for a row's qualifier. A ttl of zero or below means
// the cell never expires.
func (b *Batch) Put(key, qualifier string, value []byte, ttl time.Duration) {
	if ttl < 0 {
		ttl = 0
	}
	b.stage(op{key: key, qualifier: qualifier, value: value, ttl: ttl})
}

// Clear stages the removal of a row's qualifier.
func (b *Batch) Clear(key, qualifier string) {
	b.stage(op{clear: true, key: key, qualifier: qualifier})
}

// Len reports how many operations the batch holds after coalescing.
func (b *Batch) Len() int {
	return len(b.ops)
}

func (b *Batch) stage(o op) {
	id := o.key + "\x00" + o.qualifier
	if i, ok := b.index[id]; ok {
		b.ops[i] = o
		return
	}
	b.index[id] = len(b.ops)
	b.ops = append(b.ops, o)
}

// Apply runs the batch in one transaction and resets it on success. The
// family must have been created. Puts replace the cell outright; clears
// delete it.
func (b *Batch) Apply() error {
	if len(b.ops) == 0 {
		return nil
	}

	tx, err := b.store.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var known int
	if err := tx.QueryRow(
		`SELECT COUNT(*) FROM families WHERE name = ?`, b.family,
	).Scan(&known); err != nil {
		return fmt.Errorf("failed to check family: %w", err)
	}
	if known == 0 {
		return fmt.Errorf("%w: %q", store.ErrUnknownFamily, b.family)
	}

	now := time.Now()
	for _, o := range b.ops {
		if o.clear {
			_, err = tx.Exec(
				`DELETE FROM cells WHERE family = ? AND key = ? AND qualifier = ?`,
				b.family, o.key, o.qualifier,
			)
		} else {
			var expires any
			if o.ttl > 0 {
				expires = now.Add(o.ttl).UnixNano()
			}
			_, err = tx.Exec(
				`INSERT OR REPLACE INTO cells (family, key, qualifier, value, updated_at, expires_at)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				b.family, o.key, o.qualifier, o.value, now.UnixNano(), expires,
			)
		}
		if err != nil {
			return fmt.Errorf("failed to apply operation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}

	b.ops = b.ops[:0]
	b.index = make(map[string]int)
	return nil
}
