// Package store holds the sqlite-backed persistence collaborators: the
// family state snapshot, push subscriptions and backup bookkeeping. The
// domain engine never sees this package; the server feeds snapshots in
// and out at the edges.
package store

import (
	"database/sql"
	"fmt"
	"time"
)

// SnapshotStore persists the serialized FamilyState as a single opaque
// document. The engine decides what the bytes mean; this store only
// guarantees that the latest save wins.
type SnapshotStore struct {
	db *sql.DB
}

func NewSnapshotStore(db *sql.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Save replaces the stored snapshot.
func (s *SnapshotStore) Save(data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO snapshots (id, data, saved_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`,
		string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or nil when none has been saved.
func (s *SnapshotStore) Load() ([]byte, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM snapshots WHERE id = 1`).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return []byte(data), nil
}

// SavedAt returns when the snapshot was last written, or the zero time
// when none exists.
func (s *SnapshotStore) SavedAt() (time.Time, error) {
	var at time.Time
	err := s.db.QueryRow(`SELECT saved_at FROM snapshots WHERE id = 1`).Scan(&at)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("snapshot saved_at: %w", err)
	}
	return at, nil
}
