package localstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gymdesk/gymdesk/internal/models"
)

// SQLiteStore persists the routine list in a SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the SQLite database at dir/routines.db.
func OpenSQLite(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "routines.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening routines db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS local_routines (
		position   INTEGER PRIMARY KEY,
		key        TEXT NOT NULL,
		body       TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating routines table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load returns the stored routines in saved order.
func (s *SQLiteStore) Load(ctx context.Context) ([]models.Routine, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT body FROM local_routines ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying routines: %w", err)
	}
	defer rows.Close()

	out := []models.Routine{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scanning routine: %w", err)
		}
		r, err := decodeBody([]byte(body))
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Save replaces the stored list in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, routines []models.Routine) error {
	rows, err := encodeRows(routines)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM local_routines`); err != nil {
		return fmt.Errorf("clearing routines: %w", err)
	}
	now := time.Now().UTC()
	for _, r := range rows {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO local_routines (position, key, body, updated_at) VALUES (?, ?, ?, ?)`,
			r.Position, r.Key, string(r.Body), now,
		)
		if err != nil {
			return fmt.Errorf("inserting routine %q: %w", r.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing routines: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
