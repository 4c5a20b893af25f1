package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfun/appstate/internal/bus"
	"github.com/bitfun/appstate/internal/storage"
)

type appState struct {
	Theme    string   `json:"theme"`
	Language string   `json:"language"`
	Recent   []string `json:"recent"`
	Count    int      `json:"count"`
}

func TestStateReturnsInitial(t *testing.T) {
	s := New(appState{Theme: "dark", Language: "en"})
	defer s.Close()

	state, err := s.State()
	require.NoError(t, err)
	assert.Equal(t, "dark", state.Theme)
	assert.Equal(t, "en", state.Language)
}

func TestSetCommitsUpdate(t *testing.T) {
	s := New(appState{Theme: "dark"})
	defer s.Close()

	err := s.Set("set-theme", func(prev appState) appState {
		prev.Theme = "light"
		return prev
	})
	require.NoError(t, err)

	state, err := s.State()
	require.NoError(t, err)
	assert.Equal(t, "light", state.Theme)
}

func TestSetRejectsNilUpdate(t *testing.T) {
	s := New(appState{})
	defer s.Close()

	assert.Error(t, s.Set("noop", nil))
}

func TestValidatorRejectsCommit(t *testing.T) {
	s := New(appState{Theme: "dark"}, WithValidate(func(next appState) *ValidationError {
		if next.Theme == "" {
			return &ValidationError{Field: "theme", Reason: "cannot be empty"}
		}
		return nil
	}))
	defer s.Close()

	err := s.Set("clear-theme", func(prev appState) appState {
		prev.Theme = ""
		return prev
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "theme", verr.Field)

	// The rejected update must not be visible.
	state, err := s.State()
	require.NoError(t, err)
	assert.Equal(t, "dark", state.Theme)
}

func TestTransformsRunInOrder(t *testing.T) {
	double := func(action string, prev, next appState) appState {
		next.Count *= 2
		return next
	}
	increment := func(action string, prev, next appState) appState {
		next.Count++
		return next
	}
	s := New(appState{}, WithTransforms(double, increment))
	defer s.Close()

	err := s.Set("count", func(prev appState) appState {
		prev.Count = 3
		return prev
	})
	require.NoError(t, err)

	state, err := s.State()
	require.NoError(t, err)
	assert.Equal(t, 7, state.Count)
}

func TestTransformSeesAction(t *testing.T) {
	var seen string
	spy := func(action string, prev, next appState) appState {
		seen = action
		return next
	}
	s := New(appState{}, WithTransforms(spy))
	defer s.Close()

	require.NoError(t, s.Set("tagged-action", func(prev appState) appState { return prev }))
	assert.Equal(t, "tagged-action", seen)
}

func TestSubscribeNotifiesOnCommit(t *testing.T) {
	s := New(appState{Theme: "dark"})
	defer s.Close()

	var got []string
	unsub, err := s.Subscribe(func(state appState) {
		got = append(got, state.Theme)
	})
	require.NoError(t, err)

	require.NoError(t, s.Set("a", func(prev appState) appState {
		prev.Theme = "light"
		return prev
	}))
	require.NoError(t, s.Set("b", func(prev appState) appState {
		prev.Theme = "solarized"
		return prev
	}))

	unsub()
	require.NoError(t, s.Set("c", func(prev appState) appState {
		prev.Theme = "mono"
		return prev
	}))

	assert.Equal(t, []string{"light", "solarized"}, got)
}

func TestListenerPanicDoesNotBlockCommit(t *testing.T) {
	s := New(appState{})
	defer s.Close()

	_, err := s.Subscribe(func(state appState) { panic("listener bug") })
	require.NoError(t, err)

	calls := 0
	_, err = s.Subscribe(func(state appState) { calls++ })
	require.NoError(t, err)

	require.NoError(t, s.Set("update", func(prev appState) appState {
		prev.Count = 1
		return prev
	}))

	assert.Equal(t, 1, calls)
	state, err := s.State()
	require.NoError(t, err)
	assert.Equal(t, 1, state.Count)
}

func TestChangeEventCarriesActionAndKeys(t *testing.T) {
	b := bus.New()
	defer b.Close()

	s := New(appState{Theme: "dark"}, WithBus[appState](b))
	defer s.Close()

	var change Change
	_, err := b.On(ChangeEvent, func(data any) {
		change = data.(Change)
	})
	require.NoError(t, err)

	require.NoError(t, s.Set("set-theme", func(prev appState) appState {
		prev.Theme = "light"
		prev.Count = 9
		return prev
	}))

	assert.Equal(t, "set-theme", change.Action)
	assert.ElementsMatch(t, []string{"theme", "count"}, change.Keys)
}

func TestSelectProjectsState(t *testing.T) {
	s := New(appState{Theme: "dark", Count: 4})
	defer s.Close()

	count, err := Select(s, func(state appState) int { return state.Count })
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	_, err = Select[appState, int](s, nil)
	assert.Error(t, err)
}

func TestClosedStoreRejectsOperations(t *testing.T) {
	s := New(appState{})
	require.NoError(t, s.Close())

	_, err := s.State()
	assert.ErrorIs(t, err, ErrStoreClosed)

	err = s.Set("x", func(prev appState) appState { return prev })
	assert.ErrorIs(t, err, ErrStoreClosed)

	_, err = s.Subscribe(func(state appState) {})
	assert.ErrorIs(t, err, ErrStoreClosed)

	_, err = Select(s, func(state appState) string { return state.Theme })
	assert.ErrorIs(t, err, ErrStoreClosed)

	assert.ErrorIs(t, s.Close(), ErrStoreClosed)
}

func TestPersistenceRoundTrip(t *testing.T) {
	backend := storage.NewMemoryBackend()
	persist := Persistence{Backend: backend, Key: "test-state"}

	s := New(appState{Theme: "dark"}, WithPersistence[appState](persist))
	require.NoError(t, s.Set("set-theme", func(prev appState) appState {
		prev.Theme = "light"
		prev.Recent = []string{"/tmp/a"}
		return prev
	}))
	require.NoError(t, s.Close())

	reloaded := New(appState{Theme: "dark"}, WithPersistence[appState](persist))
	defer reloaded.Close()

	state, err := reloaded.State()
	require.NoError(t, err)
	assert.Equal(t, "light", state.Theme)
	assert.Equal(t, []string{"/tmp/a"}, state.Recent)
}

func TestPersistenceWhitelistFiltersKeys(t *testing.T) {
	backend := storage.NewMemoryBackend()
	persist := Persistence{
		Backend:   backend,
		Key:       "test-state",
		Whitelist: []string{"theme"},
	}

	s := New(appState{Theme: "dark", Language: "en"}, WithPersistence[appState](persist))
	require.NoError(t, s.Set("update", func(prev appState) appState {
		prev.Theme = "light"
		prev.Language = "pt"
		return prev
	}))
	require.NoError(t, s.Close())

	// Only the whitelisted key survives; language falls back to initial.
	reloaded := New(appState{Theme: "dark", Language: "en"}, WithPersistence[appState](persist))
	defer reloaded.Close()

	state, err := reloaded.State()
	require.NoError(t, err)
	assert.Equal(t, "light", state.Theme)
	assert.Equal(t, "en", state.Language)
}

func TestPersistenceBlacklistFiltersKeys(t *testing.T) {
	backend := storage.NewMemoryBackend()
	persist := Persistence{
		Backend:   backend,
		Key:       "test-state",
		Blacklist: []string{"count"},
	}

	s := New(appState{}, WithPersistence[appState](persist))
	require.NoError(t, s.Set("update", func(prev appState) appState {
		prev.Theme = "light"
		prev.Count = 42
		return prev
	}))
	require.NoError(t, s.Close())

	reloaded := New(appState{}, WithPersistence[appState](persist))
	defer reloaded.Close()

	state, err := reloaded.State()
	require.NoError(t, err)
	assert.Equal(t, "light", state.Theme)
	assert.Equal(t, 0, state.Count)
}

func TestCorruptSnapshotFallsBackToInitial(t *testing.T) {
	backend := storage.NewMemoryBackend()
	require.NoError(t, backend.Store("test-state", []byte("{not json")))

	s := New(appState{Theme: "dark"}, WithPersistence[appState](Persistence{
		Backend: backend,
		Key:     "test-state",
	}))
	defer s.Close()

	state, err := s.State()
	require.NoError(t, err)
	assert.Equal(t, "dark", state.Theme)
}

func TestChangedFieldsNonStructState(t *testing.T) {
	assert.Equal(t, []string{"value"}, changedFields(1, 2))
	assert.Nil(t, changedFields(1, 1))
}
