// Package bolt implements the snapshot store on a bbolt database file. The
// encoding of the stored document is the same JSON used by the primary
// store, so backups remain plain snapshot files either way.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/sheikh-saqib/bank-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/bank-ledger-system/internal/storage"
)

const (
	bucketSnapshot = "snapshot"
	keyCurrent     = "current"
)

// Store persists the ledger snapshot in a single bbolt bucket.
type Store struct {
	db        *bolt.DB
	backupDir string
}

// NewStore opens (or creates) the database at path and initializes the
// snapshot bucket.
func NewStore(path, backupDir string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSnapshot))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &Store{db: db, backupDir: backupDir}, nil
}

// Save stores the snapshot under the current key.
func (s *Store) Save(ctx context.Context, snap storage.Snapshot) error {
	snap.Stamp("bolt_snapshot")
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSnapshot)).Put([]byte(keyCurrent), data)
	})
}

// Load reads the current snapshot.
func (s *Store) Load(ctx context.Context) (storage.Snapshot, error) {
	var snap storage.Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketSnapshot)).Get([]byte(keyCurrent))
		if data == nil {
			return storage.ErrSnapshotNotFound
		}
		return json.Unmarshal(data, &snap)
	})
	return snap, err
}

// CreateBackup writes a timestamped snapshot file next to the database and
// prunes old backups. Backups use the shared JSON file format.
func (s *Store) CreateBackup(snap storage.Snapshot) (string, error) {
	snap.Stamp("bolt_snapshot")
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

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Compile-time check: Store implements the SnapshotStore interface.
var _ interfaces.SnapshotStore = (*Store)(nil)
