package store

import (
	"database/sql"
	"fmt"
	"time"
)

// BackupRecord is a bookkeeping row for an uploaded backup object.
type BackupRecord struct {
	ID        int64
	ObjectKey string
	SizeBytes int64
	CreatedAt time.Time
}

// BackupStore tracks uploaded backup objects so old ones can be pruned.
type BackupStore struct {
	db *sql.DB
}

func NewBackupStore(db *sql.DB) *BackupStore {
	return &BackupStore{db: db}
}

func (s *BackupStore) Record(objectKey string, sizeBytes int64) error {
	_, err := s.db.Exec(`INSERT INTO backups (object_key, size_bytes) VALUES (?, ?)`, objectKey, sizeBytes)
	if err != nil {
		return fmt.Errorf("record backup: %w", err)
	}
	return nil
}

// Latest returns the most recent backup record, or nil if none exist.
func (s *BackupStore) Latest() (*BackupRecord, error) {
	row := s.db.QueryRow(`SELECT id, object_key, size_bytes, created_at FROM backups ORDER BY created_at DESC, id DESC LIMIT 1`)
	var rec BackupRecord
	err := row.Scan(&rec.ID, &rec.ObjectKey, &rec.SizeBytes, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest backup: %w", err)
	}
	return &rec, nil
}

// OlderThan returns backup records created before the cutoff, oldest first.
func (s *BackupStore) OlderThan(cutoff time.Time) ([]BackupRecord, error) {
	rows, err := s.db.Query(`SELECT id, object_key, size_bytes, created_at FROM backups WHERE created_at < ? ORDER BY created_at ASC`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list old backups: %w", err)
	}
	defer rows.Close()

	var recs []BackupRecord
	for rows.Next() {
		var rec BackupRecord
		if err := rows.Scan(&rec.ID, &rec.ObjectKey, &rec.SizeBytes, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan backup: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *BackupStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM backups WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete backup record: %w", err)
	}
	return nil
}
