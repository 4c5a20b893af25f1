package bus

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRecordsEveryEmit(t *testing.T) {
	b := New()
	defer b.Close()

	_, err := b.Emit("first", "a", "sender-1")
	require.NoError(t, err)
	_, err = b.Emit("second", "b", "sender-2")
	require.NoError(t, err)

	entries := b.History("", 0)
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Name)
	assert.Equal(t, "a", entries[0].Data)
	assert.Equal(t, "sender-1", entries[0].Sender)
	assert.Equal(t, "second", entries[1].Name)
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestHistoryRecordsEmitsWithoutListeners(t *testing.T) {
	b := New()
	defer b.Close()

	handled, err := b.Emit("unheard", nil, "test")
	require.NoError(t, err)
	require.False(t, handled)

	assert.Len(t, b.History("unheard", 0), 1)
}

func TestHistoryFiltersByName(t *testing.T) {
	b := New()
	defer b.Close()

	for i := 0; i < 3; i++ {
		_, err := b.Emit("wanted", i, "test")
		require.NoError(t, err)
		_, err = b.Emit("other", i, "test")
		require.NoError(t, err)
	}

	entries := b.History("wanted", 0)
	require.Len(t, entries, 3)
	for _, entry := range entries {
		assert.Equal(t, "wanted", entry.Name)
	}
}

func TestHistoryLimitReturnsMostRecent(t *testing.T) {
	b := New()
	defer b.Close()

	for i := 0; i < 5; i++ {
		_, err := b.Emit("counted", i, "test")
		require.NoError(t, err)
	}

	entries := b.History("counted", 2)
	require.Len(t, entries, 2)
	assert.Equal(t, 3, entries[0].Data)
	assert.Equal(t, 4, entries[1].Data)
}

func TestHistoryEvictsOldestBeyondLimit(t *testing.T) {
	b := New(WithHistoryLimit(3))
	defer b.Close()

	for i := 0; i < 5; i++ {
		_, err := b.Emit(fmt.Sprintf("event-%d", i), i, "test")
		require.NoError(t, err)
	}

	entries := b.History("", 0)
	require.Len(t, entries, 3)
	assert.Equal(t, "event-2", entries[0].Name)
	assert.Equal(t, "event-4", entries[2].Name)
}

func TestHistoryDisabledWithZeroLimit(t *testing.T) {
	b := New(WithHistoryLimit(0))
	defer b.Close()

	_, err := b.Emit("dropped", nil, "test")
	require.NoError(t, err)
	assert.Empty(t, b.History("", 0))
}

func TestClearHistory(t *testing.T) {
	b := New()
	defer b.Close()

	_, err := b.Emit("recorded", nil, "test")
	require.NoError(t, err)
	require.NotEmpty(t, b.History("", 0))

	b.ClearHistory()
	assert.Empty(t, b.History("", 0))
}
