package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"github.com/litetable/litetable-orm/pkg/row"
)

// rowView is a point-in-time snapshot of one row's visible cells.
type rowView struct {
	key   string
	cells map[string][]byte
}

func (v *rowView) Get(key, qualifier string) ([]byte, bool) {
	if key != v.key {
		return nil, false
	}
	value, ok := v.cells[qualifier]
	return value, ok
}

// Row snapshots the visible cells of one row. The snapshot serves Get
// calls for that key only. Query failures are logged and read as an empty
// row.
func (s *Store) Row(family, key string) row.Source {
	view := &rowView{key: key, cells: make(map[string][]byte)}

	rows, err := s.db.Query(
		`SELECT qualifier, value FROM cells
		 WHERE family = ? AND key = ? AND (expires_at IS NULL OR expires_at > ?)`,
		family, key, time.Now().UnixNano(),
	)
	if err != nil {
		s.logger.Error().Err(err).
			Str("family", family).
			Str("row_key", key).
			Msg("failed to read row")
		return view
	}
	defer rows.Close()

	for rows.Next() {
		var qualifier string
		var value []byte
		if err := rows.Scan(&qualifier, &value); err != nil {
			s.logger.Error().Err(err).
				Str("family", family).
				Str("row_key", key).
				Msg("failed to scan cell")
			return view
		}
		view.cells[qualifier] = value
	}
	if err := rows.Err(); err != nil {
		s.logger.Error().Err(err).
			Str("family", family).
			Str("row_key", key).
			Msg("failed to read row")
	}
	return view
}

// Value reads the single visible cell under a row's qualifier.
func (s *Store) Value(family, key, qualifier string) ([]byte, bool) {
	var value []byte
	err := s.db.QueryRow(
		`SELECT value FROM cells
		 WHERE family = ? AND key = ? AND qualifier = ?
		   AND (expires_at IS NULL OR expires_at > ?)`,
		family, key, qualifier, time.Now().UnixNano(),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		s.logger.Error().Err(err).
			Str("family", family).
			Str("row_key", key).
			Msg("failed to read cell")
		return nil, false
	}
	return value, true
}
