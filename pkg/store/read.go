package store

import (
	"time"

	"github.com/litetable/litetable-orm/pkg/row"
)

// rowView is a point-in-time snapshot of one row's visible cells.
type rowView struct {
	key   string
	cells map[string][]byte
}

func (v rowView) Get(key, qualifier string) ([]byte, bool) {
	if key != v.key {
		return nil, false
	}
	value, ok := v.cells[qualifier]
	return value, ok
}

// Row snapshots the visible cells of one row. Tombstoned and expired cells
// read as absent. The snapshot does not follow later writes, so one read
// path sees one consistent row.
func (s *Store) Row(family, key string) row.Source {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view := rowView{key: key, cells: make(map[string][]byte)}
	now := time.Now()
	for qualifier, cells := range s.data[family][key] {
		if c, ok := visible(cells, now); ok {
			view.cells[qualifier] = c.Value
		}
	}
	return view
}

// Value returns the visible cell value of one qualifier.
func (s *Store) Value(family, key, qualifier string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := visible(s.data[family][key][qualifier], time.Now())
	if !ok {
		return nil, false
	}
	return c.Value, true
}

// visible returns the newest live cell: expired versions are skipped and a
// winning tombstone hides the qualifier.
func visible(cells []Cell, now time.Time) (Cell, bool) {
	best := -1
	for i := range cells {
		if expired(cells[i], now) {
			continue
		}
		if best < 0 || newer(cells[i], cells[best]) {
			best = i
		}
	}
	if best < 0 || cells[best].Tombstone {
		return Cell{}, false
	}
	return cells[best], true
}
