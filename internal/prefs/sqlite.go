// internal/prefs/sqlite.go
//
// SQLite prefs backend; Persist replaces the table in one transaction.

package prefs

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLite persists prefs in the `prefs` table created by the migrations in assets/sql.
type SQLite struct {
	db *sql.DB
}

// NewSQLite wraps an open, migrated database.
func NewSQLite(db *sql.DB) *SQLite { return &SQLite{db: db} }

func (s *SQLite) Load(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM prefs`)
	if err != nil {
		return nil, fmt.Errorf("query prefs: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

// Persist rewrites the whole table inside one transaction.
func (s *SQLite) Persist(ctx context.Context, entries map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM prefs`); err != nil {
		return fmt.Errorf("clear prefs: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO prefs (key, value) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for k, v := range entries {
		if _, err := stmt.ExecContext(ctx, k, v); err != nil {
			return fmt.Errorf("insert pref %s: %w", k, err)
		}
	}
	return tx.Commit()
}

// Close is a no-op; the database handle is owned by the caller.
func (s *SQLite) Close() error { return nil }
