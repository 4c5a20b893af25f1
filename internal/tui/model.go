// Package tui implements the interactive notification-center viewer.
package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bitfun/appstate/internal/notify"
)

const (
	defaultViewportWidth  = 80
	defaultViewportHeight = 20
	chromeHeight          = 4
)

// Model is the bubbletea model for the notification center.
type Model struct {
	store *notify.Store

	records    []notify.Record
	cursor     int
	unreadOnly bool

	viewport viewport.Model
	ready    bool

	statusMsg string
	err       error
}

// New creates a Model backed by the notification store.
func New(store *notify.Store) Model {
	m := Model{
		store:    store,
		viewport: viewport.New(defaultViewportWidth, defaultViewportHeight),
	}
	m.reload()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		height := msg.Height - chromeHeight
		if height < 1 {
			height = 1
		}
		m.viewport.Height = height
		m.ready = true
		m.syncViewport()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(m.records)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		if len(m.records) > 0 {
			m.cursor = len(m.records) - 1
		}
	case "r":
		m.do(func(id string) error { return m.store.MarkRead(id) }, "marked as read")
	case "R":
		m.err = m.store.MarkAllRead()
		m.statusMsg = "marked all as read"
		m.reload()
	case "d":
		m.do(func(id string) error { return m.store.Remove(id) }, "dismissed")
	case "x":
		m.do(func(id string) error { return m.store.RemoveFromHistory(id) }, "deleted")
	case "u":
		m.unreadOnly = !m.unreadOnly
		m.cursor = 0
		m.reload()
	}
	m.syncViewport()
	return m, nil
}

// do runs an operation against the record under the cursor.
func (m *Model) do(op func(id string) error, okMsg string) {
	if m.cursor >= len(m.records) {
		return
	}
	m.err = op(m.records[m.cursor].ID)
	if m.err == nil {
		m.statusMsg = okMsg
	}
	m.reload()
}

// reload refreshes the record list from the store and clamps the cursor.
func (m *Model) reload() {
	state, err := m.store.State()
	if err != nil {
		m.err = err
		return
	}
	records := state.History
	if m.unreadOnly {
		filtered := make([]notify.Record, 0, len(records))
		for _, record := range records {
			if !record.Read {
				filtered = append(filtered, record)
			}
		}
		records = filtered
	}
	m.records = records
	if m.cursor >= len(m.records) {
		m.cursor = len(m.records) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.syncViewport()
}

// syncViewport re-renders the list content and scrolls the cursor into view.
func (m *Model) syncViewport() {
	m.viewport.SetContent(m.renderList())
	offset := m.viewport.YOffset
	height := m.viewport.Height
	if m.cursor < offset {
		m.viewport.LineUp(offset - m.cursor)
	} else if m.cursor >= offset+height {
		m.viewport.LineDown(m.cursor - (offset + height) + 1)
	}
}
