package sqlite

import (
	"context"
	"time"

	"ficha"
)

// Compile-time interface verification.
var _ ficha.Ledger = (*Ledger)(nil)

// Ledger implements ficha.Ledger on a SQLite attempts table.
type Ledger struct {
	db *DB
}

// NewLedger creates a new Ledger backed by db.
func NewLedger(db *DB) *Ledger {
	return &Ledger{db: db}
}

// Completed reports whether any recorded attempt for key succeeded.
func (l *Ledger) Completed(ctx context.Context, key ficha.ItemKey) (bool, error) {
	var exists bool
	err := l.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM attempts
			WHERE page = ? AND row_index = ? AND status = ?
		)
	`, key.Page, key.Row, string(ficha.StatusSuccess)).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Record inserts one attempt row. Rows are never updated or deleted.
func (l *Ledger) Record(ctx context.Context, attempt *ficha.Attempt) error {
	if err := attempt.Validate(); err != nil {
		return err
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO attempts (page, row_index, name, folio, filename, api_url, status, notes, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, attempt.Key.Page, attempt.Key.Row, attempt.Name, attempt.Folio,
		attempt.OutputPath, attempt.RemoteRef, string(attempt.Status), attempt.Note,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return ficha.Errorf(ficha.EWRITE, "insert attempt: %v", err)
	}
	return nil
}
