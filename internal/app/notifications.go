package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/bitfun/appstate/internal/notify"
)

// PostInput represents post command inputs after flag parsing.
type PostInput struct {
	Type     string
	Variant  string
	Title    string
	Message  string
	Duration time.Duration
}

// Post creates a notification from CLI inputs and returns its id.
func (a *App) Post(input PostInput) (string, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return "", fmt.Errorf("post: message cannot be empty")
	}
	if len(message) > 1000 {
		return "", fmt.Errorf("post: message too long (max 1000 characters)")
	}

	typeStr := input.Type
	if typeStr == "" {
		typeStr = string(notify.TypeInfo)
	}
	typ, err := notify.ParseType(typeStr)
	if err != nil {
		return "", fmt.Errorf("post: %w", err)
	}

	variantStr := input.Variant
	if variantStr == "" {
		variantStr = string(notify.VariantToast)
	}
	variant, err := notify.ParseVariant(variantStr)
	if err != nil {
		return "", fmt.Errorf("post: %w", err)
	}

	var opts []notify.NotifyOption
	if input.Title != "" {
		opts = append(opts, notify.WithTitle(input.Title))
	}
	if input.Duration > 0 {
		opts = append(opts, notify.WithDuration(input.Duration))
	}

	switch variant {
	case notify.VariantToast:
		switch typ {
		case notify.TypeSuccess:
			return a.Service.Success(message, opts...)
		case notify.TypeError:
			return a.Service.Error(message, opts...)
		case notify.TypeWarning:
			return a.Service.Warning(message, opts...)
		default:
			return a.Service.Info(message, opts...)
		}
	case notify.VariantPersistent:
		return a.Service.Persistent(typ, input.Title, message, opts...)
	case notify.VariantSilent:
		return a.Service.Silent(typ, input.Title, message, opts...)
	default:
		return "", fmt.Errorf("post: variant %s needs a running controller, use the library API", variant)
	}
}

// HistoryFilter selects history records for listing.
type HistoryFilter struct {
	Status     string
	Type       string
	UnreadOnly bool
}

// ListHistory returns history records matching the filter, newest first.
func (a *App) ListHistory(filter HistoryFilter) ([]notify.Record, error) {
	if filter.Status != "" {
		if _, err := notify.ParseStatus(filter.Status); err != nil {
			return nil, fmt.Errorf("list: %w", err)
		}
	}
	if filter.Type != "" {
		if _, err := notify.ParseType(filter.Type); err != nil {
			return nil, fmt.Errorf("list: %w", err)
		}
	}

	state, err := a.Notifications.State()
	if err != nil {
		return nil, err
	}

	var records []notify.Record
	for _, record := range state.History {
		if filter.Status != "" && record.Status != notify.Status(filter.Status) {
			continue
		}
		if filter.Type != "" && record.Type != notify.Type(filter.Type) {
			continue
		}
		if filter.UnreadOnly && record.Read {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// ListActive returns the currently active notifications, oldest first.
func (a *App) ListActive() ([]notify.Notification, error) {
	state, err := a.Notifications.State()
	if err != nil {
		return nil, err
	}
	return state.Active, nil
}

// Cleanup removes history records older than days. Returns the number
// of removed records.
func (a *App) Cleanup(days int, dryRun bool) (int, error) {
	if days < 0 {
		return 0, fmt.Errorf("cleanup: days threshold must be >= 0")
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	return a.Notifications.CleanupHistory(cutoff, dryRun)
}

// StatusSummary reports notification-center counts for status output.
type StatusSummary struct {
	Active      int
	Unread      int
	History     int
	CountByType map[notify.Type]int
}

// Status summarizes the notification center.
func (a *App) Status() (StatusSummary, error) {
	state, err := a.Notifications.State()
	if err != nil {
		return StatusSummary{}, err
	}
	summary := StatusSummary{
		Active:      len(state.Active),
		Unread:      state.UnreadCount,
		History:     len(state.History),
		CountByType: make(map[notify.Type]int),
	}
	for _, record := range state.History {
		summary.CountByType[record.Type]++
	}
	return summary, nil
}
