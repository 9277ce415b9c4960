/*
Package sqlite provides a SQLite-backed Repository.

PURPOSE:
  Persists the catalog and ledgers as whole JSON values, one row per slot.
  The storage contract is deliberately "write whole value": the engine
  produces a complete new snapshot on every change, and this store replaces
  the previous one. No partial-field writes exist.

SCHEMA:
  slots(key TEXT PRIMARY KEY, value_json TEXT NOT NULL, updated_at TEXT)

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Readers don't block the single writer
  - Better crash recovery than rollback journal

USAGE:
  repo, err := sqlite.New("./data/vyapar.db")
  if err != nil {
      log.Fatal(err)
  }
  defer repo.Close()

  svc, err := vyapar.NewService(ctx, repo)

SEE ALSO:
  - vyapar/repository.go: interface definition
  - vyapar/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Repo implements vyapar.Repository on SQLite.
type Repo struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Repo, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := &Repo{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return repo, nil
}

// Close closes the database connection.
func (r *Repo) Close() error {
	return r.db.Close()
}

func (r *Repo) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS slots (
		key        TEXT PRIMARY KEY,
		value_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`
	_, err := r.db.Exec(schema)
	return err
}

// Get returns the stored value for key, with ok=false when the slot has
// never been written.
func (r *Repo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT value_json FROM slots WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(raw), true, nil
}

// Put replaces the whole value for key.
func (r *Repo) Put(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO slots (key, value_json, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value_json = excluded.value_json,
			updated_at = excluded.updated_at`,
		key, string(value), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
