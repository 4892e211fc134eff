// Package json implements the primary file-backed snapshot store. Writes are
// atomic: the snapshot goes to a temporary file first and replaces the real
// one with a rename, so a crash mid-write never corrupts the previous state.
package json

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sheikh-saqib/bank-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/bank-ledger-system/internal/storage"
)

// Store reads and writes ledger snapshots as a single JSON document.
type Store struct {
	path      string
	backupDir string
}

// NewStore returns a store persisting to path, with backups in backupDir.
func NewStore(path, backupDir string) *Store {
	return &Store{path: path, backupDir: backupDir}
}

// Save writes the snapshot to the primary path atomically.
func (s *Store) Save(ctx context.Context, snap storage.Snapshot) error {
	snap.Stamp("json_snapshot")
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		f.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close snapshot file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot file: %w", err)
	}
	return nil
}

// Load reads the snapshot at the primary path.
func (s *Store) Load(ctx context.Context) (storage.Snapshot, error) {
	var snap storage.Snapshot
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return snap, storage.ErrSnapshotNotFound
		}
		return snap, fmt.Errorf("open snapshot file: %w", err)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return snap, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// CreateBackup writes a timestamped copy of the snapshot into the backup
// directory and prunes old backups.
func (s *Store) CreateBackup(snap storage.Snapshot) (string, error) {
	snap.Stamp("json_snapshot")
	return storage.WriteBackup(s.backupDir, snap)
}

// LoadBackup reads the named backup file.
func (s *Store) LoadBackup(name string) (storage.Snapshot, error) {
	return storage.ReadBackup(s.backupDir, name)
}

// ListBackups returns backup names, most recent first.
func (s *Store) ListBackups() ([]string, error) {
	return storage.ListBackups(s.backupDir)
}

// Close is a no-op; the store holds no open handles between calls.
func (s *Store) Close() error { return nil }

// Compile-time check: Store implements the SnapshotStore interface.
var _ interfaces.SnapshotStore = (*Store)(nil)
