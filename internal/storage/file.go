package storage

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File permission constants
const (
	// FileModeDir is the permission for directories (rwxr-xr-x)
	FileModeDir os.FileMode = 0755
	// FileModeFile is the permission for data files (rw-r--r--)
	FileModeFile os.FileMode = 0644

	stateFileExt = ".json"
)

// FileBackend stores one JSON file per key under a state directory.
// Writes go through a temp file and rename so a crash never leaves a
// half-written value.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a file backend rooted at dir.
func NewFileBackend(dir string) (*FileBackend, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("file storage: state directory cannot be empty")
	}
	if err := os.MkdirAll(dir, FileModeDir); err != nil {
		return nil, fmt.Errorf("file storage: create state directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

// Load returns the value stored under key.
func (f *FileBackend) Load(key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("file storage: read %s: %w", key, err)
	}
	return data, nil
}

// Store writes the value under key atomically.
func (f *FileBackend) Store(key string, value []byte) error {
	path := f.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, FileModeFile); err != nil {
		return fmt.Errorf("file storage: write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("file storage: commit %s: %w", key, err)
	}
	return nil
}

// Delete removes the value under key.
func (f *FileBackend) Delete(key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("file storage: delete %s: %w", key, err)
	}
	return nil
}

// Keys returns all stored keys, sorted.
func (f *FileBackend) Keys() ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("file storage: list keys: %w", err)
	}
	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), stateFileExt) {
			continue
		}
		key, ok := decodeKey(strings.TrimSuffix(entry.Name(), stateFileExt))
		if !ok {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op for the file backend.
func (f *FileBackend) Close() error { return nil }

func (f *FileBackend) path(key string) string {
	return filepath.Join(f.dir, encodeKey(key)+stateFileExt)
}

// encodeKey maps a key to a safe file name. Keys made only of word
// characters and dashes keep their name; anything else is hex-encoded.
func encodeKey(key string) string {
	if isPlainKey(key) && !strings.HasPrefix(key, "x-") {
		return key
	}
	return "x-" + hex.EncodeToString([]byte(key))
}

func decodeKey(name string) (string, bool) {
	if hexed, ok := strings.CutPrefix(name, "x-"); ok {
		raw, err := hex.DecodeString(hexed)
		if err != nil {
			return "", false
		}
		return string(raw), true
	}
	if isPlainKey(name) {
		return name, true
	}
	return "", false
}

func isPlainKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	return true
}
