// Package storage provides key-value persistence backends for application state.
package storage

import (
	"errors"

	"github.com/bitfun/appstate/internal/storage/sqlite"
)

// ErrKeyNotFound indicates no value has been stored under a key.
var ErrKeyNotFound = errors.New("key not found")

// IsNotFound reports whether err indicates an absent key, regardless of
// which backend produced it.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound) || errors.Is(err, sqlite.ErrKeyNotFound)
}

// Backend defines the key-value operations used to persist state snapshots.
type Backend interface {
	// Load returns the value stored under key, or ErrKeyNotFound.
	Load(key string) ([]byte, error)
	// Store writes the value under key, replacing any previous value.
	Store(key string, value []byte) error
	// Delete removes the value under key. Deleting an absent key is not an error.
	Delete(key string) error
	// Keys returns all keys with a stored value.
	Keys() ([]string, error)
	// Close releases backend resources.
	Close() error
}
