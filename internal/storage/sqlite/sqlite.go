// Package sqlite provides a SQLite-backed key-value storage backend.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrKeyNotFound indicates no value has been stored under a key.
// It mirrors the storage package sentinel so callers can match either.
var ErrKeyNotFound = errors.New("key not found")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS app_state (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TEXT NOT NULL
);
`

// Backend implements key-value storage on a single SQLite file.
type Backend struct {
	db *sql.DB
}

// New creates a SQLite-backed storage at the provided path.
func New(dbPath string) (*Backend, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite storage: db path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite storage: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: open db: %w", err)
	}

	backend := &Backend{db: db}
	if err := backend.init(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return backend, nil
}

func (b *Backend) init() error {
	if _, err := b.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("sqlite storage: set busy timeout: %w", err)
	}

	if _, err := b.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlite storage: create schema: %w", err)
	}

	return nil
}

// Load returns the value stored under key.
func (b *Backend) Load(key string) ([]byte, error) {
	var value []byte
	err := b.db.QueryRow("SELECT value FROM app_state WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("sqlite storage: load %s: %w", key, ErrKeyNotFound)
		}
		return nil, fmt.Errorf("sqlite storage: load %s: %w", key, err)
	}
	return value, nil
}

// Store writes the value under key, replacing any previous value.
func (b *Backend) Store(key string, value []byte) error {
	_, err := b.db.Exec(
		"INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?) "+
			"ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
		key, value, utcNow(),
	)
	if err != nil {
		return fmt.Errorf("sqlite storage: store %s: %w", key, err)
	}
	return nil
}

// Delete removes the value under key.
func (b *Backend) Delete(key string) error {
	if _, err := b.db.Exec("DELETE FROM app_state WHERE key = ?", key); err != nil {
		return fmt.Errorf("sqlite storage: delete %s: %w", key, err)
	}
	return nil
}

// Keys returns all stored keys, sorted.
func (b *Backend) Keys() ([]string, error) {
	rows, err := b.db.Query("SELECT key FROM app_state ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("sqlite storage: scan key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite storage: list keys: %w", err)
	}
	return keys, nil
}

// Close closes the underlying SQLite connection.
func (b *Backend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func utcNow() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05Z")
}
