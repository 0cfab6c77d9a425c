// Package wal appends applied batches to a JSON-lines write-ahead log and
// replays them on startup. One entry holds every mutation of one batch, so
// replay restores batches whole.
package wal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	defaultWalDirectory = "wal"
	defaultWALFile      = "wal.log"
)

// Op is one column mutation inside an entry. Clear marks a tombstone; Put
// carries the value and the TTL the cell was written with.
type Op struct {
	Clear     bool          `json:"clear,omitempty"`
	Key       string        `json:"key"`
	Qualifier string        `json:"qualifier"`
	Value     []byte        `json:"value,omitempty"`
	TTL       time.Duration `json:"ttl,omitempty"`
}

// Entry is one applied batch.
type Entry struct {
	Family    string    `json:"family"`
	Ops       []Op      `json:"ops"`
	Timestamp time.Time `json:"timestamp"`
}

type Manager struct {
	mu      sync.Mutex
	walFile *os.File
	path    string
}

type Config struct {
	// Path is the directory the WAL directory is created under.
	Path string
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Path == "" {
		errGrp = append(errGrp, errors.New("path cannot be empty"))
	}
	return errors.Join(errGrp...)
}

func New(cfg *Config) (*Manager, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	walPath := filepath.Join(cfg.Path, defaultWalDirectory, defaultWALFile)
	walDir := filepath.Dir(walPath)
	if err := os.MkdirAll(walDir, 0750); err != nil {
		return nil, errors.New("failed to create WAL directory: " + err.Error())
	}

	file, err := os.OpenFile(walPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0640)
	if err != nil {
		return nil, errors.New("failed to open WAL file: " + err.Error())
	}

	return &Manager{
		walFile: file,
		path:    walPath,
	}, nil
}

// Apply appends one batch entry to the WAL file. The entry is written
// before the batch mutates the store, so a crash mid-apply replays the
// whole batch on the next start.
func (m *Manager) Apply(e *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	jsonData, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	if _, err = m.walFile.Write(append(jsonData, '\n')); err != nil {
		return fmt.Errorf("failed to write to WAL: %w", err)
	}

	return nil
}

// Close releases the WAL file handle.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.walFile == nil {
		return nil
	}
	err := m.walFile.Close()
	m.walFile = nil
	return err
}

// filePath returns the location of the WAL file.
func (m *Manager) filePath() string {
	return m.path
}
