package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfun/appstate/internal/storage"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("BITFUN_CONFIG_DIR", t.TempDir())
	t.Setenv("BITFUN_STATE_DIR", t.TempDir())
	t.Setenv("BITFUN_STORAGE_BACKEND", "memory")

	a, err := Init()
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })
	return a
}

func TestInitConstructsAllComponents(t *testing.T) {
	a := newTestApp(t)

	assert.NotNil(t, a.Logger)
	assert.NotNil(t, a.Backend)
	assert.NotNil(t, a.Bus)
	assert.NotNil(t, a.Global)
	assert.NotNil(t, a.GlobalActions)
	assert.NotNil(t, a.Context)
	assert.NotNil(t, a.Notifications)
	assert.NotNil(t, a.Service)
	assert.IsType(t, &storage.MemoryBackend{}, a.Backend)
}

func TestInitHonorsConfiguredLimits(t *testing.T) {
	t.Setenv("BITFUN_MAX_ACTIVE_NOTIFICATIONS", "2")
	t.Setenv("BITFUN_MAX_HISTORY", "5")
	a := newTestApp(t)

	state, err := a.Notifications.State()
	require.NoError(t, err)
	assert.Equal(t, 2, state.Config.MaxActive)
	assert.Equal(t, 5, state.Config.MaxHistory)
}

func TestShutdownIsIdempotent(t *testing.T) {
	a := newTestApp(t)

	require.NoError(t, a.Shutdown())
	assert.NoError(t, a.Shutdown())
}

func TestShutdownSavesContext(t *testing.T) {
	a := newTestApp(t)

	a.Context.Set("last-view", "history")
	require.NoError(t, a.Shutdown())

	_, err := a.Backend.Load("bitfun-context-storage")
	assert.NoError(t, err)
}
