package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfun/appstate/internal/notify"
)

func TestPostCreatesToastByDefault(t *testing.T) {
	a := newTestApp(t)

	id, err := a.Post(PostInput{Message: "build finished"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	active, err := a.ListActive()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, notify.TypeInfo, active[0].Type)
	assert.Equal(t, notify.VariantToast, active[0].Variant)
}

func TestPostWithTypeAndTitle(t *testing.T) {
	a := newTestApp(t)

	_, err := a.Post(PostInput{Type: "error", Title: "Build", Message: "compilation failed"})
	require.NoError(t, err)

	active, err := a.ListActive()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, notify.TypeError, active[0].Type)
	assert.Equal(t, "Build", active[0].Title)
}

func TestPostSilentVariant(t *testing.T) {
	a := newTestApp(t)

	_, err := a.Post(PostInput{Variant: "silent", Title: "Sync", Message: "done"})
	require.NoError(t, err)

	active, err := a.ListActive()
	require.NoError(t, err)
	assert.Empty(t, active)

	records, err := a.ListHistory(HistoryFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestPostValidatesInput(t *testing.T) {
	a := newTestApp(t)

	_, err := a.Post(PostInput{Message: "   "})
	assert.ErrorContains(t, err, "message cannot be empty")

	_, err = a.Post(PostInput{Message: strings.Repeat("x", 1001)})
	assert.ErrorContains(t, err, "too long")

	_, err = a.Post(PostInput{Type: "fatal", Message: "boom"})
	assert.ErrorContains(t, err, "invalid notification type")

	_, err = a.Post(PostInput{Variant: "banner", Message: "hi"})
	assert.ErrorContains(t, err, "invalid notification variant")

	_, err = a.Post(PostInput{Variant: "progress", Message: "hi"})
	assert.ErrorContains(t, err, "controller")
}

func TestListHistoryFilters(t *testing.T) {
	a := newTestApp(t)

	_, err := a.Post(PostInput{Type: "error", Message: "bad"})
	require.NoError(t, err)
	infoID, err := a.Post(PostInput{Type: "info", Message: "fine"})
	require.NoError(t, err)
	require.NoError(t, a.Service.MarkAsRead(infoID))

	records, err := a.ListHistory(HistoryFilter{Type: "error"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, notify.TypeError, records[0].Type)

	records, err = a.ListHistory(HistoryFilter{UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, notify.TypeError, records[0].Type)

	_, err = a.ListHistory(HistoryFilter{Status: "bogus"})
	assert.Error(t, err)
	_, err = a.ListHistory(HistoryFilter{Type: "bogus"})
	assert.Error(t, err)
}

func TestCleanupRejectsNegativeDays(t *testing.T) {
	a := newTestApp(t)

	_, err := a.Cleanup(-1, false)
	assert.Error(t, err)
}

func TestStatusSummarizesCenter(t *testing.T) {
	a := newTestApp(t)

	_, err := a.Post(PostInput{Type: "error", Message: "bad"})
	require.NoError(t, err)
	_, err = a.Post(PostInput{Type: "success", Message: "good"})
	require.NoError(t, err)

	summary, err := a.Status()
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Active)
	assert.Equal(t, 2, summary.Unread)
	assert.Equal(t, 2, summary.History)
	assert.Equal(t, 1, summary.CountByType[notify.TypeError])
	assert.Equal(t, 1, summary.CountByType[notify.TypeSuccess])
}
