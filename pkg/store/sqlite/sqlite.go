// Package sqlite is the durable backend of the row store: the same
// family → row key → qualifier model as pkg/store, persisted in a single
// SQLite file. Batches apply in one transaction and the latest write per
// cell wins; reads filter expired cells and a purger deletes them for good
// on an interval.
package sqlite

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/litetable/litetable-orm/internal/reaper"
	"github.com/litetable/litetable-orm/pkg/store"
)

//go:embed schema.sql
var schemaSQL string

// Store is the SQLite-backed row store.
type Store struct {
	db     *sql.DB
	path   string
	reaper *reaper.Reaper
	logger zerolog.Logger
}

type Config struct {
	// Path is the database file. ":memory:" keeps the store in memory.
	Path string
	// PurgeInterval is how often expired cells are deleted. Defaults to a
	// minute.
	PurgeInterval time.Duration
	// Logger defaults to the global logger.
	Logger *zerolog.Logger
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Path == "" {
		errGrp = append(errGrp, errors.New("path cannot be empty"))
	}
	if c.PurgeInterval < 0 {
		errGrp = append(errGrp, errors.New("purge interval cannot be negative"))
	}
	return errors.Join(errGrp...)
}

// New opens or creates the database at cfg.Path, applies the pragmas, and
// brings the schema up to date. Opening an existing database is a no-op
// for the schema. Start runs the purger; Stop releases the database.
func New(cfg *Config) (*Store, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	purgeInterval := cfg.PurgeInterval
	if purgeInterval == 0 {
		purgeInterval = time.Minute
	}
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One connection serves everything: SQLite allows a single writer, and
	// an in-memory database only exists on the connection that created it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	s := &Store{
		db:     db,
		path:   cfg.Path,
		logger: logger,
	}

	r, err := reaper.New(&reaper.Config{Store: s, Interval: purgeInterval})
	if err != nil {
		db.Close()
		return nil, err
	}
	s.reaper = r

	return s, nil
}

// Open opens the database at path with default settings.
func Open(path string) (*Store, error) {
	return New(&Config{Path: path})
}

// Start runs the purger.
func (s *Store) Start() error {
	return s.reaper.Start()
}

// Stop halts the purger and closes the database.
func (s *Store) Stop() error {
	if err := s.reaper.Stop(); err != nil {
		return err
	}
	return s.db.Close()
}

func (s *Store) Name() string {
	return "SQLiteStore"
}

// applyPragmas sets the required connection options. Every batch relies on
// enforced foreign keys; WAL journaling and the busy timeout keep readers
// usable while a write is in flight.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// CreateFamily registers a column family. Creating an existing family is a
// no-op.
func (s *Store) CreateFamily(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", store.ErrInvalidFamily)
	}

	_, err := s.db.Exec(
		`INSERT INTO families (name) VALUES (?) ON CONFLICT(name) DO NOTHING`,
		name,
	)
	if err != nil {
		return fmt.Errorf("failed to create family: %w", err)
	}
	return nil
}

// Families returns the registered family names, sorted.
func (s *Store) Families() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM families ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list families: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan family: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// PurgeExpired deletes expired cells for good, returning how many were
// removed. The purger calls it on its interval; callers may also run it by
// hand.
func (s *Store) PurgeExpired() (int, error) {
	return s.purge(time.Now())
}

func (s *Store) purge(now time.Time) (int, error) {
	res, err := s.db.Exec(
		`DELETE FROM cells WHERE expires_at IS NOT NULL AND expires_at <= ?`,
		now.UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired cells: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged cells: %w", err)
	}
	return int(n), nil
}

// Sweep purges expired cells, satisfying the purger's contract. Failures
// are logged and count as nothing removed.
func (s *Store) Sweep(now time.Time) int {
	n, err := s.purge(now)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to purge expired cells")
		return 0
	}
	return n
}
