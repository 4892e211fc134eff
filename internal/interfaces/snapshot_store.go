package interfaces

import (
	"context"

	"github.com/sheikh-saqib/bank-ledger-system/internal/storage"
)

// SnapshotStore persists the full ledger snapshot and manages its rotating
// backups. Implementations must be safe for use under the ledger's lock but
// need no locking of their own.
type SnapshotStore interface {
	Save(ctx context.Context, snap storage.Snapshot) error
	Load(ctx context.Context) (storage.Snapshot, error)
	CreateBackup(snap storage.Snapshot) (string, error)
	LoadBackup(name string) (storage.Snapshot, error)
	ListBackups() ([]string, error)
	Close() error
}
