package save

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added index on saves.updated_at for slot listings
const currentSchemaVersion = 1

// Record is one persisted save slot.
type Record struct {
	SessionToken string
	Revision     int64
	Snapshot     []byte
}

// SlotInfo is a listing entry for the CLI.
type SlotInfo struct {
	Slot      string
	Revision  int64
	UpdatedAt string
}

// Store is the save-slot storage contract. Implemented by SQLiteStore
// (durable) and MemoryStore (fallback).
type Store interface {
	// Put writes a slot, refusing to go backwards: a write with a
	// revision at or below the stored one is silently dropped, so a
	// late fire-and-forget write can never clobber newer progress.
	Put(ctx context.Context, slot string, rec Record) error

	// Get reads a slot. The second return is false when the slot has
	// never been written.
	Get(ctx context.Context, slot string) (Record, bool, error)

	// List returns all slots, most recently updated first.
	List(ctx context.Context) ([]SlotInfo, error)

	// Delete removes a slot. Deleting a missing slot is not an error.
	Delete(ctx context.Context, slot string) error

	Close() error
}

// SQLiteStore provides durable save-slot storage.
// Uses SQLite with WAL mode for concurrent read access.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open save database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to save database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Acquire opens the SQLite store at path, falling back to an in-memory
// store when the database cannot be opened. The session always gets a
// working store; losing durability is logged, never fatal.
func Acquire(path string) Store {
	st, err := OpenSQLite(path)
	if err != nil {
		slog.Warn("save database unavailable, progress will not survive this session",
			"path", path, "error", err)
		return NewMemoryStore()
	}
	return st
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put implements Store.
func (s *SQLiteStore) Put(ctx context.Context, slot string, rec Record) error {
	// The WHERE clause on the upsert enforces the revision monotonicity
	// contract in a single statement.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO saves (slot, session_token, revision, snapshot, updated_at)
		VALUES (?, ?, ?, ?, datetime('now'))
		ON CONFLICT(slot) DO UPDATE SET
			session_token = excluded.session_token,
			revision      = excluded.revision,
			snapshot      = excluded.snapshot,
			updated_at    = excluded.updated_at
		WHERE excluded.revision > saves.revision
	`, slot, rec.SessionToken, rec.Revision, string(rec.Snapshot))
	if err != nil {
		return fmt.Errorf("write slot %q: %w", slot, err)
	}
	return nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, slot string) (Record, bool, error) {
	var rec Record
	var snapshot string
	err := s.db.QueryRowContext(ctx, `
		SELECT session_token, revision, snapshot FROM saves WHERE slot = ?
	`, slot).Scan(&rec.SessionToken, &rec.Revision, &snapshot)
	if err == sql.ErrNoRows {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("read slot %q: %w", slot, err)
	}
	rec.Snapshot = []byte(snapshot)
	return rec, true, nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context) ([]SlotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT slot, revision, updated_at FROM saves
		ORDER BY updated_at DESC, slot ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var out []SlotInfo
	for rows.Next() {
		var info SlotInfo
		if err := rows.Scan(&info.Slot, &info.Revision, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan slot row: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, slot string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, slot); err != nil {
		return fmt.Errorf("delete slot %q: %w", slot, err)
	}
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// This function is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return runMigrations(db)
}

// runMigrations applies incremental schema migrations based on
// user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
		version = 1
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// migrateToV1 adds the updated_at index for existing databases. New
// databases are unaffected; CREATE INDEX IF NOT EXISTS is a no-op when
// the index exists.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_saves_updated_at
		ON saves(updated_at)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}
