// Package storage defines the serializable snapshot document shared by every
// store implementation. It holds pure data: no locks, no business rules.
package storage

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrSnapshotNotFound is returned by a store when no snapshot has been
// persisted yet.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Meta records how and when a snapshot was produced, for debugging and
// future schema migration.
type Meta struct {
	Storage   string    `json:"storage"`
	Version   int       `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// SnapshotVersion is the current schema version written into Meta.
const SnapshotVersion = 1

// TransactionRecord is the persisted form of a transaction. Field names are
// stable across save/load and across backup/restore.
type TransactionRecord struct {
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Timestamp   time.Time       `json:"timestamp"`
	Description string          `json:"description"`
}

// AccountRecord is the persisted form of an account. The PIN is stored in
// the same record; there is no separate secret store.
type AccountRecord struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Balance      decimal.Decimal     `json:"balance"`
	PIN          string              `json:"pin"`
	Type         string              `json:"type"`
	Transactions []TransactionRecord `json:"transactions"`
}

// Snapshot is the full persisted state of the ledger.
type Snapshot struct {
	Meta     Meta            `json:"_meta"`
	Accounts []AccountRecord `json:"accounts"`
}

// Stamp fills in the snapshot metadata for the given storage kind.
func (s *Snapshot) Stamp(kind string) {
	s.Meta = Meta{Storage: kind, Version: SnapshotVersion, Timestamp: time.Now()}
}
