// Package save persists the single local save slot.
package save

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/voidrpg/void/pkg/game"
)

// CurrentVersion is the on-disk schema version. Records without a
// version field are read as version 1.
const CurrentVersion = 1

// slotRecord is the persisted shape: the session plus a schema
// version so a future format change has a migration path.
type slotRecord struct {
	Version int `json:"version"`
	game.Session
}

// FileStore keeps exactly one session under a fixed path, overwritten
// on every save. Writes are best-effort: gameplay never blocks on a
// failed save.
type FileStore struct {
	path string
	log  logrus.FieldLogger
}

// DefaultPath returns ~/.void/savegame.json, falling back to the
// working directory when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".void", "savegame.json")
	}
	return filepath.Join(home, ".void", "savegame.json")
}

// NewFileStore creates a store writing to the given path.
func NewFileStore(path string, log logrus.FieldLogger) *FileStore {
	return &FileStore{path: path, log: log}
}

// Save overwrites the slot with the full session. Failures are logged
// and swallowed.
func (s *FileStore) Save(session *game.Session) {
	record := slotRecord{Version: CurrentVersion, Session: *session}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		s.log.WithError(err).Warn("marshal save slot")
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		s.log.WithError(err).Warn("create save directory")
		return
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		s.log.WithError(err).Warn("write save slot")
	}
}

// Load restores the slot. A missing or malformed file is reported as
// absent, never as an error.
func (s *FileStore) Load() (*game.Session, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.WithError(err).Warn("read save slot")
		}
		return nil, false
	}

	var record slotRecord
	if err := json.Unmarshal(data, &record); err != nil {
		s.log.WithError(err).Warn("save slot is malformed, ignoring")
		return nil, false
	}
	if record.Version > CurrentVersion {
		s.log.WithField("version", record.Version).Warn("save slot from a newer version, ignoring")
		return nil, false
	}
	session := record.Session
	return &session, true
}

// Clear removes the slot unconditionally.
func (s *FileStore) Clear() {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.log.WithError(err).Warn("clear save slot")
	}
}
