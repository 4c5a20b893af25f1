// Package global holds the application-wide observable state: app-level
// preferences, the current workspace, and transient session state.
package global

import (
	"time"

	"github.com/bitfun/appstate/internal/bus"
	"github.com/bitfun/appstate/internal/logging"
	"github.com/bitfun/appstate/internal/storage"
	"github.com/bitfun/appstate/internal/store"
)

// StateKey is the storage key for the persisted global state snapshot.
const StateKey = "bitfun-global-state"

// Actions tagging global state commits.
const (
	ActionSetTheme       = "app:set-theme"
	ActionSetLanguage    = "app:set-language"
	ActionOpenWorkspace  = "workspace:open"
	ActionCloseWorkspace = "workspace:close"
	ActionSetActivePanel = "session:set-active-panel"
)

// Events emitted on the bus alongside state commits.
const (
	EventThemeChanged    = "app:theme-changed"
	EventWorkspaceOpened = "workspace:opened"
	EventWorkspaceClosed = "workspace:closed"
)

// AppState holds app-level preferences.
type AppState struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

// WorkspaceState describes the currently opened workspace.
type WorkspaceState struct {
	Path        string    `json:"path"`
	OpenedAt    time.Time `json:"openedAt"`
	RecentPaths []string  `json:"recentPaths"`
}

// SessionState is transient per-run state. It is deliberately excluded
// from the persistence whitelist.
type SessionState struct {
	ActivePanel string `json:"activePanel"`
}

// State is the global application state.
type State struct {
	App       AppState       `json:"app"`
	Workspace WorkspaceState `json:"workspace"`
	Session   SessionState   `json:"session"`
}

// DefaultState returns the initial global state.
func DefaultState() State {
	return State{
		App: AppState{
			Theme:    "dark",
			Language: "en",
		},
	}
}

// maxRecentPaths bounds the recent workspace list.
const maxRecentPaths = 10

// NewStore creates the global state store. Only the app and workspace
// slices are persisted; session state restarts empty every run.
func NewStore(backend storage.Backend, eventBus *bus.Bus, logger logging.Logger) *store.Store[State] {
	opts := []store.Option[State]{
		store.WithLogger[State](logger),
	}
	if backend != nil {
		opts = append(opts, store.WithPersistence[State](store.Persistence{
			Backend:   backend,
			Key:       StateKey,
			Whitelist: []string{"app", "workspace"},
		}))
	}
	if eventBus != nil {
		opts = append(opts, store.WithBus[State](eventBus))
	}
	return store.New(DefaultState(), opts...)
}

// Actions bundles the mutations UI code performs on the global store.
// Cross-cutting signals are emitted on the bus after each commit.
type Actions struct {
	store *store.Store[State]
	bus   *bus.Bus
}

// NewActions creates Actions for the given store and bus.
func NewActions(s *store.Store[State], b *bus.Bus) *Actions {
	return &Actions{store: s, bus: b}
}

// SetTheme changes the app theme and announces the change.
func (a *Actions) SetTheme(theme string) error {
	err := a.store.Set(ActionSetTheme, func(prev State) State {
		next := prev
		next.App.Theme = theme
		return next
	})
	if err != nil {
		return err
	}
	a.emit(EventThemeChanged, theme)
	return nil
}

// SetLanguage changes the app language.
func (a *Actions) SetLanguage(language string) error {
	return a.store.Set(ActionSetLanguage, func(prev State) State {
		next := prev
		next.App.Language = language
		return next
	})
}

// OpenWorkspace records a newly opened workspace and announces it.
func (a *Actions) OpenWorkspace(path string) error {
	err := a.store.Set(ActionOpenWorkspace, func(prev State) State {
		next := prev
		next.Workspace.Path = path
		next.Workspace.OpenedAt = time.Now()
		next.Workspace.RecentPaths = pushRecent(prev.Workspace.RecentPaths, path)
		return next
	})
	if err != nil {
		return err
	}
	a.emit(EventWorkspaceOpened, path)
	return nil
}

// CloseWorkspace clears the current workspace and announces it.
func (a *Actions) CloseWorkspace() error {
	var closed string
	err := a.store.Set(ActionCloseWorkspace, func(prev State) State {
		closed = prev.Workspace.Path
		next := prev
		next.Workspace.Path = ""
		next.Workspace.OpenedAt = time.Time{}
		return next
	})
	if err != nil {
		return err
	}
	a.emit(EventWorkspaceClosed, closed)
	return nil
}

// SetActivePanel records the focused panel for this session.
func (a *Actions) SetActivePanel(panel string) error {
	return a.store.Set(ActionSetActivePanel, func(prev State) State {
		next := prev
		next.Session.ActivePanel = panel
		return next
	})
}

func (a *Actions) emit(event string, data any) {
	if a.bus != nil {
		_, _ = a.bus.Emit(event, data, "global")
	}
}

// pushRecent prepends path, removing duplicates and trimming to the bound.
func pushRecent(recent []string, path string) []string {
	next := make([]string, 0, len(recent)+1)
	next = append(next, path)
	for _, p := range recent {
		if p != path {
			next = append(next, p)
		}
	}
	if len(next) > maxRecentPaths {
		next = next[:maxRecentPaths]
	}
	return next
}
