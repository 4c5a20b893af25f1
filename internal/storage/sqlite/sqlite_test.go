package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	backend, err := New(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, backend.Close()) })
	return backend
}

func TestNewRejectsEmptyPath(t *testing.T) {
	_, err := New("  ")
	assert.Error(t, err)
}

func TestNewCreatesParentDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dirs", "state.db")
	backend, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, backend.Close())
	require.FileExists(t, dbPath)
}

func TestStoreAndLoad(t *testing.T) {
	backend := newTestBackend(t)

	require.NoError(t, backend.Store("bitfun-global-state", []byte(`{"theme":"dark"}`)))

	value, err := backend.Load("bitfun-global-state")
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"dark"}`, string(value))
}

func TestLoadMissingKeyReturnsSentinel(t *testing.T) {
	backend := newTestBackend(t)

	_, err := backend.Load("missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestStoreReplacesExistingValue(t *testing.T) {
	backend := newTestBackend(t)

	require.NoError(t, backend.Store("key", []byte("first")))
	require.NoError(t, backend.Store("key", []byte("second")))

	value, err := backend.Load("key")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), value)

	keys, err := backend.Keys()
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestDeleteRemovesKey(t *testing.T) {
	backend := newTestBackend(t)

	require.NoError(t, backend.Store("key", []byte("value")))
	require.NoError(t, backend.Delete("key"))

	_, err := backend.Load("key")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	assert.NoError(t, backend.Delete("key"))
}

func TestKeysSorted(t *testing.T) {
	backend := newTestBackend(t)

	require.NoError(t, backend.Store("zeta", []byte("1")))
	require.NoError(t, backend.Store("alpha", []byte("2")))
	require.NoError(t, backend.Store("mango", []byte("3")))

	keys, err := backend.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mango", "zeta"}, keys)
}

func TestValuesPersistAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.db")

	first, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, first.Store("bitfun-notifications", []byte(`{"history":[]}`)))
	require.NoError(t, first.Close())

	second, err := New(dbPath)
	require.NoError(t, err)
	defer second.Close()

	value, err := second.Load("bitfun-notifications")
	require.NoError(t, err)
	assert.JSONEq(t, `{"history":[]}`, string(value))
}

func TestCloseNilBackendIsSafe(t *testing.T) {
	var backend *Backend
	assert.NoError(t, backend.Close())
}
