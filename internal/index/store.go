package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotom-cli/rotom/internal/logging"
)

// Snapshot is the persisted form of the index: the flat entry list and
// the time it was written.
type Snapshot struct {
	SavedAt time.Time `json:"saved_at"`
	Entries []Entry   `json:"entries"`
}

// Store reads and writes index snapshots as a JSON file. The file is
// advisory: a missing or corrupt snapshot is reported as absent, never
// as an error.
type Store struct {
	path   string
	logger logging.Logger
	now    func() time.Time
}

// NewStore creates a Store backed by the file at path.
func NewStore(path string, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Store{path: path, logger: logger, now: time.Now}
}

// Path returns the snapshot file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the persisted snapshot, or nil when there is none or it
// cannot be parsed. Corruption is discarded silently and only logged.
func (s *Store) Load() *Snapshot {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Debug("unreadable index snapshot at %s: %v", s.path, err)
		}
		return nil
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Debug("discarding corrupt index snapshot at %s: %v", s.path, err)
		return nil
	}
	if snap.SavedAt.IsZero() || len(snap.Entries) == 0 {
		return nil
	}
	return &snap
}

// Save writes entries with a fresh timestamp, creating the parent
// directory if needed.
func (s *Store) Save(entries []Entry) error {
	snap := Snapshot{SavedAt: s.now(), Entries: entries}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode index snapshot: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write index snapshot: %w", err)
	}
	return nil
}

// DefaultPath returns the standard snapshot location under the user's
// home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "names.json"
	}
	return filepath.Join(home, ".rotom", "names.json")
}
