package notify

import (
	"errors"
	"fmt"
	"time"

	"github.com/bitfun/appstate/internal/store"
)

// ErrNotFound indicates that a notification cannot be found.
var ErrNotFound = errors.New("notification not found")

// Actions tagging notification store commits.
const (
	ActionInit          = "notification:init"
	ActionAdd           = "notification:add"
	ActionUpdate        = "notification:update"
	ActionRemove        = "notification:remove"
	ActionMarkRead      = "notification:mark-read"
	ActionMarkAllRead   = "notification:mark-all-read"
	ActionRemoveHistory = "notification:remove-history"
	ActionClearHistory  = "notification:clear-history"
	ActionToggleCenter  = "notification:toggle-center"
)

// Update is a partial notification patch. Nil fields are left unchanged.
type Update struct {
	Title    *string
	Message  *string
	Progress *float64
	Current  *int
	Total    *int
	Status   *Status
	Read     *bool
}

// apply returns n with the non-nil patch fields applied.
func (u Update) apply(n Notification) Notification {
	if u.Title != nil {
		n.Title = *u.Title
	}
	if u.Message != nil {
		n.Message = *u.Message
	}
	if u.Progress != nil {
		n.Progress = *u.Progress
	}
	if u.Current != nil {
		n.Current = *u.Current
	}
	if u.Total != nil {
		n.Total = *u.Total
	}
	if u.Status != nil {
		n.Status = *u.Status
	}
	if u.Read != nil {
		n.Read = *u.Read
	}
	return n
}

// Store manages the notification-center state on top of the generic
// observable store.
type Store struct {
	inner *store.Store[State]
}

// NewStore creates a notification store with the given config. Store
// options (persistence, bus, logger) pass through to the underlying
// observable store.
func NewStore(cfg Config, opts ...store.Option[State]) *Store {
	cfg = cfg.normalize()
	inner := store.New(State{Config: cfg}, opts...)
	s := &Store{inner: inner}
	// A loaded snapshot carries whatever config and unread count it was
	// saved with; the configured limits and the unread invariant win.
	_ = inner.Set(ActionInit, func(prev State) State {
		next := prev
		next.Config = cfg
		next.History = trimHistory(prev.History, cfg.MaxHistory)
		next.UnreadCount = countUnread(next.History)
		return next
	})
	return s
}

// State returns a copy of the current notification state.
func (s *Store) State() (State, error) {
	return s.inner.State()
}

// Subscribe registers a listener invoked after every commit.
func (s *Store) Subscribe(listener store.Listener[State]) (store.Unsubscribe, error) {
	return s.inner.Subscribe(listener)
}

// Close closes the underlying store.
func (s *Store) Close() error {
	return s.inner.Close()
}

// Add appends a notification to the active list, evicting the oldest
// active notification beyond Config.MaxActive. Toast, persistent, and
// silent variants are recorded in history immediately; progress and
// loading variants enter history only when Update carries a terminal
// status. Silent notifications skip the active list entirely.
func (s *Store) Add(n Notification) error {
	if n.Status == "" {
		n.Status = StatusActive
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	if err := n.Validate(); err != nil {
		return fmt.Errorf("add notification: %w", err)
	}

	return s.inner.Set(ActionAdd, func(prev State) State {
		next := prev
		next.Active = append([]Notification(nil), prev.Active...)
		next.History = append([]Record(nil), prev.History...)

		if n.Variant != VariantSilent {
			for len(next.Active) >= next.Config.MaxActive {
				next.Active = next.Active[1:]
			}
			next.Active = append(next.Active, n)
		}

		if !n.Variant.Transient() {
			next.History = prependRecord(next.History, Record{Notification: n, ShowInCenter: true}, next.Config.MaxHistory)
		}
		next.UnreadCount = countUnread(next.History)
		return next
	})
}

// Update applies a partial patch to an active notification. A terminal
// status on a progress or loading notification creates its history
// record (or updates an existing one); this is the only path by which
// transient notifications enter history.
func (s *Store) Update(id string, patch Update) error {
	if patch.Status != nil && !patch.Status.IsValid() {
		return fmt.Errorf("update notification: invalid status: %s", *patch.Status)
	}

	found := false
	err := s.inner.Set(ActionUpdate, func(prev State) State {
		idx := findActive(prev.Active, id)
		if idx < 0 {
			return prev
		}
		found = true

		next := prev
		next.Active = append([]Notification(nil), prev.Active...)
		next.History = append([]Record(nil), prev.History...)

		updated := patch.apply(next.Active[idx])
		next.Active[idx] = updated

		hidx := findRecord(next.History, id)
		switch {
		case updated.Variant.Transient():
			if patch.Status != nil && patch.Status.Terminal() {
				if hidx >= 0 {
					next.History[hidx].Notification = updated
				} else {
					next.History = prependRecord(next.History, Record{Notification: updated, ShowInCenter: true}, next.Config.MaxHistory)
				}
			}
		case hidx >= 0:
			next.History[hidx].Notification = updated
		}

		next.UnreadCount = countUnread(next.History)
		return next
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("update notification: %w: id %s", ErrNotFound, id)
	}
	return nil
}

// Remove drops a notification from the active list. A corresponding
// history record is marked dismissed with a dismissal time; a record
// already in a terminal state keeps its status. The record itself is
// never deleted here.
func (s *Store) Remove(id string) error {
	found := false
	err := s.inner.Set(ActionRemove, func(prev State) State {
		idx := findActive(prev.Active, id)
		hidx := findRecord(prev.History, id)
		if idx < 0 && hidx < 0 {
			return prev
		}
		found = true

		next := prev
		next.Active = append([]Notification(nil), prev.Active...)
		next.History = append([]Record(nil), prev.History...)

		if idx >= 0 {
			next.Active = append(next.Active[:idx], next.Active[idx+1:]...)
		}
		if hidx >= 0 {
			now := time.Now()
			next.History[hidx].DismissedAt = &now
			if next.History[hidx].Status == StatusActive {
				next.History[hidx].Status = StatusDismissed
			}
		}
		next.UnreadCount = countUnread(next.History)
		return next
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("remove notification: %w: id %s", ErrNotFound, id)
	}
	return nil
}

// RemoveAll drops every active notification, dismissing their history
// records like Remove does.
func (s *Store) RemoveAll() error {
	return s.inner.Set(ActionRemove, func(prev State) State {
		next := prev
		next.History = append([]Record(nil), prev.History...)
		now := time.Now()
		for _, n := range prev.Active {
			if hidx := findRecord(next.History, n.ID); hidx >= 0 {
				next.History[hidx].DismissedAt = &now
				if next.History[hidx].Status == StatusActive {
					next.History[hidx].Status = StatusDismissed
				}
			}
		}
		next.Active = nil
		next.UnreadCount = countUnread(next.History)
		return next
	})
}

// MarkRead marks a history record as read.
func (s *Store) MarkRead(id string) error {
	found := false
	err := s.inner.Set(ActionMarkRead, func(prev State) State {
		hidx := findRecord(prev.History, id)
		if hidx < 0 {
			return prev
		}
		found = true
		next := prev
		next.History = append([]Record(nil), prev.History...)
		next.History[hidx].Read = true
		next.UnreadCount = countUnread(next.History)
		return next
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("mark read: %w: id %s", ErrNotFound, id)
	}
	return nil
}

// MarkAllRead marks every history record as read.
func (s *Store) MarkAllRead() error {
	return s.inner.Set(ActionMarkAllRead, func(prev State) State {
		next := prev
		next.History = append([]Record(nil), prev.History...)
		for i := range next.History {
			next.History[i].Read = true
		}
		next.UnreadCount = 0
		return next
	})
}

// RemoveFromHistory deletes a history record.
func (s *Store) RemoveFromHistory(id string) error {
	found := false
	err := s.inner.Set(ActionRemoveHistory, func(prev State) State {
		hidx := findRecord(prev.History, id)
		if hidx < 0 {
			return prev
		}
		found = true
		next := prev
		next.History = append([]Record(nil), prev.History...)
		next.History = append(next.History[:hidx], next.History[hidx+1:]...)
		next.UnreadCount = countUnread(next.History)
		return next
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("remove from history: %w: id %s", ErrNotFound, id)
	}
	return nil
}

// ClearHistory deletes every history record.
func (s *Store) ClearHistory() error {
	return s.inner.Set(ActionClearHistory, func(prev State) State {
		next := prev
		next.History = nil
		next.UnreadCount = 0
		return next
	})
}

// CleanupHistory removes history records older than cutoff that are no
// longer active. Returns the number of records removed (or that would
// be removed when dryRun is set).
func (s *Store) CleanupHistory(cutoff time.Time, dryRun bool) (int, error) {
	removed := 0
	if dryRun {
		state, err := s.State()
		if err != nil {
			return 0, err
		}
		for _, record := range state.History {
			if record.Timestamp.Before(cutoff) && record.Status != StatusActive {
				removed++
			}
		}
		return removed, nil
	}

	err := s.inner.Set(ActionRemoveHistory, func(prev State) State {
		next := prev
		kept := make([]Record, 0, len(prev.History))
		for _, record := range prev.History {
			if record.Timestamp.Before(cutoff) && record.Status != StatusActive {
				removed++
				continue
			}
			kept = append(kept, record)
		}
		next.History = kept
		next.UnreadCount = countUnread(kept)
		return next
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// ToggleCenter flips the notification-center panel open state.
func (s *Store) ToggleCenter() error {
	return s.inner.Set(ActionToggleCenter, func(prev State) State {
		next := prev
		next.CenterOpen = !prev.CenterOpen
		return next
	})
}

func findActive(active []Notification, id string) int {
	for i, n := range active {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func findRecord(history []Record, id string) int {
	for i, record := range history {
		if record.ID == id {
			return i
		}
	}
	return -1
}

// prependRecord inserts a record newest-first and trims to max.
func prependRecord(history []Record, record Record, max int) []Record {
	history = append([]Record{record}, history...)
	return trimHistory(history, max)
}

func trimHistory(history []Record, max int) []Record {
	if max > 0 && len(history) > max {
		history = history[:max]
	}
	return history
}
