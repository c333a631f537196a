package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabot/internal/progress"
)

// recordID is the key of the only row in progress_record
const recordID = 1

// RecordRepository stores the progress document in a one-row table.
// It satisfies progress.Storage.
type RecordRepository struct {
	db *sqlx.DB
}

// NewRecordRepository creates a repository on an open connection
func NewRecordRepository(db *sqlx.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Read returns the stored document
func (r *RecordRepository) Read(ctx context.Context) ([]byte, error) {
	var document string
	query := r.db.Rebind("SELECT document FROM progress_record WHERE id = ?")
	err := r.db.GetContext(ctx, &document, query, recordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, progress.ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read progress record: %w", err)
	}
	return []byte(document), nil
}

// Write inserts or replaces the stored document
func (r *RecordRepository) Write(ctx context.Context, data []byte) error {
	// ON CONFLICT понимают и SQLite (3.24+), и PostgreSQL
	query := r.db.Rebind(`
		INSERT INTO progress_record (id, document, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at
	`)
	_, err := r.db.ExecContext(ctx, query, recordID, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write progress record: %w", err)
	}
	return nil
}

// UpdatedAt returns when the document was last written. ok is false when no
// document exists yet.
func (r *RecordRepository) UpdatedAt(ctx context.Context) (t time.Time, ok bool, err error) {
	query := r.db.Rebind("SELECT updated_at FROM progress_record WHERE id = ?")
	err = r.db.GetContext(ctx, &t, query, recordID)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read progress timestamp: %w", err)
	}
	return t, true, nil
}
