package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bitfun/appstate/internal/colors"
	"github.com/bitfun/appstate/internal/config"
	"github.com/bitfun/appstate/internal/storage/sqlite"
)

const (
	// BackendMemory selects ephemeral in-memory storage.
	BackendMemory = "memory"
	// BackendFile selects JSON-file-per-key storage.
	BackendFile = "file"
	// BackendSQLite selects SQLite-backed storage.
	BackendSQLite = "sqlite"

	stateDBFileName = "state.db"
	stateSubDir     = "state"
)

var _ Backend = (*MemoryBackend)(nil)
var _ Backend = (*FileBackend)(nil)
var _ Backend = (*sqlite.Backend)(nil)

// NewFromConfig creates a storage backend based on configuration.
func NewFromConfig() (Backend, error) {
	backend := config.Get("storage_backend", BackendFile)
	return NewForBackend(backend)
}

// NewForBackend creates a storage backend for the provided backend name.
// SQLite initialization failures fall back to file storage with a warning.
func NewForBackend(backend string) (Backend, error) {
	stateDir := GetStateDir()
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendMemory:
		return NewMemoryBackend(), nil
	case "", BackendFile:
		return NewFileBackend(filepath.Join(stateDir, stateSubDir))
	case BackendSQLite:
		dbPath := filepath.Join(stateDir, stateDBFileName)
		sqliteBackend, err := sqlite.New(dbPath)
		if err != nil {
			colors.Warning(fmt.Sprintf("failed to initialize sqlite backend, falling back to file: %v", err))
			return NewFileBackend(filepath.Join(stateDir, stateSubDir))
		}
		return sqliteBackend, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}

// GetStateDir returns the configured state directory.
func GetStateDir() string {
	return config.Get("state_dir", "")
}
