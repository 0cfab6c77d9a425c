package wal

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog/log"
)

// Load replays the WAL from the start, handing each entry to apply in the
// order it was written. A missing file is not an error; malformed lines are
// skipped so one torn write cannot block startup. Lines are read without a
// length cap, so an entry holding a large cell replays like any other.
func (m *Manager) Load(apply func(*Entry)) error {
	file, err := os.Open(m.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			// No WAL file exists yet, not an error
			return nil
		}
		return err
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	for {
		raw, readErr := reader.ReadBytes('\n')
		if line := bytes.TrimSpace(raw); len(line) > 0 {
			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				log.Warn().Err(err).Msg("skipping malformed WAL entry")
			} else {
				apply(&entry)
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return readErr
		}
	}
}
