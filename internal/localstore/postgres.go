package localstore

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gymdesk/gymdesk/internal/models"
)

// PostgresStore persists the routine list in PostgreSQL, for deployments
// where several GymDesk instances share one fallback copy.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

// OpenPostgres creates a connection pool and checks it.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PostgresStore{Pool: pool}, nil
}

// RunMigrations applies all pending migrations from the given directory.
func RunMigrations(dsn, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// Load returns the stored routines in saved order.
func (s *PostgresStore) Load(ctx context.Context) ([]models.Routine, error) {
	rows, err := s.Pool.Query(ctx, `SELECT body FROM local_routines ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying routines: %w", err)
	}
	defer rows.Close()

	out := []models.Routine{}
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scanning routine: %w", err)
		}
		r, err := decodeBody(body)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Save replaces the stored list in one transaction.
func (s *PostgresStore) Save(ctx context.Context, routines []models.Routine) error {
	rows, err := encodeRows(routines)
	if err != nil {
		return err
	}

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM local_routines`); err != nil {
		return fmt.Errorf("clearing routines: %w", err)
	}

	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(
			`INSERT INTO local_routines (position, key, body, updated_at) VALUES ($1, $2, $3::jsonb, $4)`,
			r.Position, r.Key, string(r.Body), now,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting routines: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing routines: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.Pool.Close()
	return nil
}
