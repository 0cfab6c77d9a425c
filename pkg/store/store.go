// Package store is an embedded wide-column row store backing the mapping
// layer: family → row key → qualifier → versioned cells. Writes go through
// batches that apply atomically and append to a write-ahead log; reads see
// the latest live version of each cell, with tombstones and expired cells
// treated as absent. A reaper sweeps garbage on an interval.
//
// The store is process-local. Pointed at a directory it replays its WAL on
// Start; without one it runs purely in memory.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/litetable/litetable-orm/internal/reaper"
	"github.com/litetable/litetable-orm/internal/wal"
)

const familiesFileName = "families.config.json"

var (
	// ErrUnknownFamily is returned when a batch targets a family that was
	// never created.
	ErrUnknownFamily = errors.New("unknown column family")
	// ErrInvalidFamily is returned when a family name is unusable.
	ErrInvalidFamily = errors.New("invalid column family")
)

// Cell is one versioned value of a qualifier.
type Cell struct {
	Value     []byte    `json:"value"`
	Timestamp time.Time `json:"timestamp"`
	Seq       uint64    `json:"seq"`
	Tombstone bool      `json:"tombstone"` // if the value is slated for deletion
	ExpiresAt time.Time `json:"expires"`   // the time at which the value expires
}

// versioned maps qualifiers to their cells, oldest first.
type versioned map[string][]Cell

// table maps family → row key → qualifiers.
type table map[string]map[string]versioned

// Store is the embedded row store. All access is guarded by one lock;
// batches apply atomically under it.
type Store struct {
	mu   sync.RWMutex
	data table
	seq  uint64

	families     map[string]struct{}
	familiesFile string

	tombstoneGrace time.Duration

	wal    *wal.Manager
	reaper *reaper.Reaper
	logger zerolog.Logger
}

type Config struct {
	// Dir is where the WAL and the family registry live. Empty keeps the
	// store purely in memory.
	Dir string
	// ReapInterval is how often garbage is swept. Defaults to a minute.
	ReapInterval time.Duration
	// TombstoneGrace is how long a deletion must settle before its history
	// is purged. Defaults to ten minutes.
	TombstoneGrace time.Duration
	// Logger defaults to the global logger.
	Logger *zerolog.Logger
}

func (c *Config) validate() error {
	var errGrp []error
	if c.ReapInterval < 0 {
		errGrp = append(errGrp, errors.New("reap interval cannot be negative"))
	}
	if c.TombstoneGrace < 0 {
		errGrp = append(errGrp, errors.New("tombstone grace cannot be negative"))
	}
	return errors.Join(errGrp...)
}

// New creates a store. Start must be called before use when a directory is
// configured, so the WAL can replay.
func New(cfg *Config) (*Store, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	reapInterval := cfg.ReapInterval
	if reapInterval == 0 {
		reapInterval = time.Minute
	}
	grace := cfg.TombstoneGrace
	if grace == 0 {
		grace = 10 * time.Minute
	}
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	s := &Store{
		data:           make(table),
		families:       make(map[string]struct{}),
		tombstoneGrace: grace,
		logger:         logger,
	}

	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		s.familiesFile = filepath.Join(cfg.Dir, familiesFileName)
		if err := s.loadFamilies(); err != nil {
			return nil, fmt.Errorf("failed to load families: %w", err)
		}

		w, err := wal.New(&wal.Config{Path: cfg.Dir})
		if err != nil {
			return nil, err
		}
		s.wal = w
	}

	r, err := reaper.New(&reaper.Config{Store: s, Interval: reapInterval})
	if err != nil {
		return nil, err
	}
	s.reaper = r

	return s, nil
}

// Start replays the WAL and starts the reaper.
func (s *Store) Start() error {
	if s.wal != nil {
		start := time.Now()
		var entries int

		s.mu.Lock()
		err := s.wal.Load(func(e *wal.Entry) {
			entries++
			s.applyEntry(e)
		})
		s.mu.Unlock()
		if err != nil {
			return fmt.Errorf("failed to replay WAL: %w", err)
		}

		s.logger.Debug().
			Int("entries", entries).
			Str("duration", time.Since(start).String()).
			Msg("WAL replayed")
	}

	return s.reaper.Start()
}

// Stop halts the reaper and releases the WAL.
func (s *Store) Stop() error {
	if err := s.reaper.Stop(); err != nil {
		return err
	}
	if s.wal != nil {
		return s.wal.Close()
	}
	return nil
}

func (s *Store) Name() string {
	return "Store"
}

// CreateFamily registers a column family. Creating an existing family is a
// no-op. The registry persists next to the WAL when the store is durable.
func (s *Store) CreateFamily(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidFamily)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.families[name]; ok {
		return nil
	}
	s.families[name] = struct{}{}

	if s.familiesFile != "" {
		if err := s.saveFamilies(); err != nil {
			delete(s.families, name)
			return fmt.Errorf("failed to save families: %w", err)
		}
	}
	return nil
}

// Families returns the registered family names, sorted.
func (s *Store) Families() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.families))
	for name := range s.families {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Sweep purges expired cells and settled tombstone histories, returning how
// many cells were removed. The reaper calls it on its interval; tests may
// call it directly.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for family, keys := range s.data {
		for key, quals := range keys {
			for q, cells := range quals {
				if c, ok := newest(cells); ok && c.Tombstone &&
					now.Sub(c.Timestamp) >= s.tombstoneGrace {
					// The deletion settled: the whole history goes.
					removed += len(cells)
					delete(quals, q)
					continue
				}

				kept := cells[:0]
				for _, c := range cells {
					if expired(c, now) {
						removed++
						continue
					}
					kept = append(kept, c)
				}
				if len(kept) == 0 {
					delete(quals, q)
				} else {
					quals[q] = kept
				}
			}
			if len(quals) == 0 {
				delete(keys, key)
			}
		}
		if len(keys) == 0 {
			delete(s.data, family)
		}
	}
	return removed
}

// applyEntry replays one WAL entry. The caller holds the write lock.
func (s *Store) applyEntry(e *wal.Entry) {
	for _, op := range e.Ops {
		s.applyOp(e.Family, op, e.Timestamp)
	}
}

// applyOp appends one cell. The caller holds the write lock.
func (s *Store) applyOp(family string, op wal.Op, ts time.Time) {
	s.seq++
	cell := Cell{Timestamp: ts, Seq: s.seq}
	if op.Clear {
		cell.Tombstone = true
	} else {
		cell.Value = op.Value
		if op.TTL > 0 {
			cell.ExpiresAt = ts.Add(op.TTL)
		}
	}

	keys, ok := s.data[family]
	if !ok {
		keys = make(map[string]versioned)
		s.data[family] = keys
	}
	quals, ok := keys[op.Key]
	if !ok {
		quals = make(versioned)
		keys[op.Key] = quals
	}
	quals[op.Qualifier] = append(quals[op.Qualifier], cell)
}

func (s *Store) loadFamilies() error {
	data, err := os.ReadFile(s.familiesFile)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist yet, not an error
			return nil
		}
		return err
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	for _, name := range names {
		s.families[name] = struct{}{}
	}
	return nil
}

// saveFamilies persists the registry. The caller holds the write lock.
func (s *Store) saveFamilies() error {
	names := make([]string, 0, len(s.families))
	for name := range s.families {
		names = append(names, name)
	}
	sort.Strings(names)

	data, err := json.Marshal(names)
	if err != nil {
		return err
	}
	return os.WriteFile(s.familiesFile, data, 0640)
}

// newest returns the most recent cell regardless of liveness.
func newest(cells []Cell) (Cell, bool) {
	best := -1
	for i := range cells {
		if best < 0 || newer(cells[i], cells[best]) {
			best = i
		}
	}
	if best < 0 {
		return Cell{}, false
	}
	return cells[best], true
}

// newer orders cells by timestamp, breaking ties with the apply sequence.
func newer(a, b Cell) bool {
	if a.Timestamp.Equal(b.Timestamp) {
		return a.Seq > b.Seq
	}
	return a.Timestamp.After(b.Timestamp)
}

func expired(c Cell, now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}
