package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"github.com/ValentinKolb/nsKV/lib/backend"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS nskv_entries (
	key   TEXT PRIMARY KEY,
	value BLOB NOT NULL
);`

// Backend implements backend.Backend on top of a SQLite database.
type Backend struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) a SQLite-backed backend.
// Use ":memory:" for an in-memory database.
func Open(path string) (*Backend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// SQLite serializes writers anyway, a single connection avoids SQLITE_BUSY
	// and keeps ":memory:" databases alive for the lifetime of the backend.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Backend{db: db, path: path}, nil
}

// Path returns the database path the backend was opened with.
func (b *Backend) Path() string {
	return b.path
}

// Close closes the underlying database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// --------------------------------------------------------------------------
// Interface Methods (docu see backend.Backend)
// --------------------------------------------------------------------------

func (b *Backend) Set(key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := b.db.Exec(`
		INSERT INTO nskv_entries (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (b *Backend) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := b.db.QueryRow("SELECT value FROM nskv_entries WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	if value == nil {
		value = []byte{}
	}
	return value, true, nil
}

func (b *Backend) Remove(key string) error {
	if _, err := b.db.Exec("DELETE FROM nskv_entries WHERE key = ?", key); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

func (b *Backend) Clear() error {
	if _, err := b.db.Exec("DELETE FROM nskv_entries"); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}

func (b *Backend) Keys() ([]string, error) {
	rows, err := b.db.Query("SELECT key FROM nskv_entries")
	if err != nil {
		return nil, fmt.Errorf("keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("keys: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (b *Backend) SupportsFeature(feature backend.Feature) bool {
	supported := backend.FeatureRequired | backend.FeatureKeys | backend.FeaturePersistent
	return supported&feature == feature
}
