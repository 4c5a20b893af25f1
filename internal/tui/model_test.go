package tui

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfun/appstate/internal/notify"
)

func newModelWithRecords(t *testing.T, count int) (Model, *notify.Store) {
	t.Helper()
	s := notify.NewStore(notify.Config{})
	t.Cleanup(func() { _ = s.Close() })
	for i := 1; i <= count; i++ {
		err := s.Add(notify.Notification{
			ID:        fmt.Sprintf("n%d", i),
			Type:      notify.TypeInfo,
			Variant:   notify.VariantSilent,
			Message:   fmt.Sprintf("message %d", i),
			Timestamp: time.Now(),
		})
		require.NoError(t, err)
	}
	return New(s), s
}

func press(m Model, key string) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return updated.(Model)
}

func TestNewLoadsHistory(t *testing.T) {
	m, _ := newModelWithRecords(t, 3)

	assert.Len(t, m.records, 3)
	assert.Equal(t, 0, m.cursor)
	// History is newest first.
	assert.Equal(t, "n3", m.records[0].ID)
}

func TestCursorNavigation(t *testing.T) {
	m, _ := newModelWithRecords(t, 3)

	m = press(m, "j")
	assert.Equal(t, 1, m.cursor)
	m = press(m, "j")
	m = press(m, "j")
	// Cursor stops at the last record.
	assert.Equal(t, 2, m.cursor)

	m = press(m, "k")
	assert.Equal(t, 1, m.cursor)
	m = press(m, "g")
	assert.Equal(t, 0, m.cursor)
	m = press(m, "G")
	assert.Equal(t, 2, m.cursor)
}

func TestMarkReadUnderCursor(t *testing.T) {
	m, s := newModelWithRecords(t, 2)

	m = press(m, "r")

	state, err := s.State()
	require.NoError(t, err)
	assert.Equal(t, 1, state.UnreadCount)
	assert.True(t, state.History[0].Read)
	assert.Equal(t, "marked as read", m.statusMsg)
}

func TestMarkAllRead(t *testing.T) {
	m, s := newModelWithRecords(t, 3)

	_ = press(m, "R")

	state, err := s.State()
	require.NoError(t, err)
	assert.Equal(t, 0, state.UnreadCount)
}

func TestDeleteUnderCursorRemovesRecord(t *testing.T) {
	m, s := newModelWithRecords(t, 2)

	m = press(m, "x")
	assert.Len(t, m.records, 1)

	state, err := s.State()
	require.NoError(t, err)
	assert.Len(t, state.History, 1)
}

func TestDeleteLastRecordClampsCursor(t *testing.T) {
	m, _ := newModelWithRecords(t, 2)

	m = press(m, "G")
	m = press(m, "x")
	assert.Equal(t, 0, m.cursor)

	m = press(m, "x")
	assert.Empty(t, m.records)
	assert.Equal(t, 0, m.cursor)

	// Operations on an empty list are no-ops.
	m = press(m, "x")
	assert.Empty(t, m.records)
}

func TestUnreadFilterToggle(t *testing.T) {
	m, s := newModelWithRecords(t, 3)
	require.NoError(t, s.MarkRead("n1"))
	m.reload()

	m = press(m, "u")
	assert.True(t, m.unreadOnly)
	assert.Len(t, m.records, 2)

	m = press(m, "u")
	assert.Len(t, m.records, 3)
}

func TestQuitKeys(t *testing.T) {
	m, _ := newModelWithRecords(t, 1)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestWindowSizeAdjustsViewport(t *testing.T) {
	m, _ := newModelWithRecords(t, 1)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(Model)
	assert.True(t, m.ready)
	assert.Equal(t, 120, m.viewport.Width)
	assert.Equal(t, 36, m.viewport.Height)
}

func TestViewRendersRecordsAndFooter(t *testing.T) {
	m, _ := newModelWithRecords(t, 2)

	view := m.View()
	assert.Contains(t, view, "Notifications (2 unread)")
	assert.Contains(t, view, "message 2")
	assert.Contains(t, view, "q quit")
}
