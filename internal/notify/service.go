package notify

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bitfun/appstate/internal/logging"
	"github.com/bitfun/appstate/internal/store"
)

// Default titles per notification type.
var defaultTitles = map[Type]string{
	TypeSuccess: "Success",
	TypeError:   "Error",
	TypeWarning: "Warning",
	TypeInfo:    "Info",
}

// NotifyOption adjusts a notification before it is added.
type NotifyOption func(*Notification)

// WithTitle overrides the default title.
func WithTitle(title string) NotifyOption {
	return func(n *Notification) { n.Title = title }
}

// WithDuration overrides the toast auto-dismiss delay.
func WithDuration(d time.Duration) NotifyOption {
	return func(n *Notification) { n.Duration = d }
}

// WithClosable marks the notification as user-closable.
func WithClosable(closable bool) NotifyOption {
	return func(n *Notification) { n.Closable = closable }
}

// Service constructs typed notification variants and returns controllers
// for updating in-flight progress and loading notifications. Controllers
// are the only way calling code can mutate a running notification.
type Service struct {
	store  *Store
	logger logging.Logger
	newID  func() string
}

// NewService creates a service backed by store.
func NewService(store *Store, logger logging.Logger) *Service {
	if store == nil {
		panic("notify: NewService requires a store")
	}
	if logger == nil {
		logger = logging.Noop()
	}
	return &Service{
		store:  store,
		logger: logger,
		newID:  uuid.NewString,
	}
}

// Store returns the underlying notification store.
func (s *Service) Store() *Store { return s.store }

// Success shows a success toast.
func (s *Service) Success(message string, opts ...NotifyOption) (string, error) {
	return s.toast(TypeSuccess, message, opts...)
}

// Error shows an error toast.
func (s *Service) Error(message string, opts ...NotifyOption) (string, error) {
	return s.toast(TypeError, message, opts...)
}

// Warning shows a warning toast.
func (s *Service) Warning(message string, opts ...NotifyOption) (string, error) {
	return s.toast(TypeWarning, message, opts...)
}

// Info shows an info toast.
func (s *Service) Info(message string, opts ...NotifyOption) (string, error) {
	return s.toast(TypeInfo, message, opts...)
}

func (s *Service) toast(typ Type, message string, opts ...NotifyOption) (string, error) {
	n := s.build(typ, VariantToast, defaultTitles[typ], message, opts...)
	if err := s.store.Add(n); err != nil {
		return "", err
	}
	s.scheduleDismiss(n)
	return n.ID, nil
}

// Persistent shows a notification that remains until explicitly dismissed.
func (s *Service) Persistent(typ Type, title, message string, opts ...NotifyOption) (string, error) {
	n := s.build(typ, VariantPersistent, title, message, opts...)
	n.Closable = true
	if err := s.store.Add(n); err != nil {
		return "", err
	}
	return n.ID, nil
}

// Silent records a notification in history without displaying it.
func (s *Service) Silent(typ Type, title, message string, opts ...NotifyOption) (string, error) {
	n := s.build(typ, VariantSilent, title, message, opts...)
	if err := s.store.Add(n); err != nil {
		return "", err
	}
	return n.ID, nil
}

// build assembles a notification with generated id and timestamp.
func (s *Service) build(typ Type, variant Variant, title, message string, opts ...NotifyOption) Notification {
	n := Notification{
		ID:        s.newID(),
		Type:      typ,
		Variant:   variant,
		Title:     title,
		Message:   message,
		Timestamp: time.Now(),
		Status:    StatusActive,
	}
	for _, opt := range opts {
		opt(&n)
	}
	return n
}

// scheduleDismiss auto-removes a toast after its duration. The timer
// firing against an already removed id is harmless.
func (s *Service) scheduleDismiss(n Notification) {
	duration := n.Duration
	if duration <= 0 {
		duration = s.defaultDuration()
	}
	id := n.ID
	time.AfterFunc(duration, func() {
		err := s.store.Remove(id)
		if err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, store.ErrStoreClosed) {
			s.logger.Warn("toast auto-dismiss failed", "id", id, "error", err)
		}
	})
}

func (s *Service) defaultDuration() time.Duration {
	state, err := s.store.State()
	if err != nil {
		return DefaultDuration
	}
	return state.Config.DefaultDuration
}

// ProgressOptions configures a progress notification.
type ProgressOptions struct {
	Title       string
	Message     string
	Total       int
	Mode        ProgressMode
	Cancellable bool
}

// Progress starts a progress notification and returns its controller.
func (s *Service) Progress(opts ProgressOptions) (*ProgressController, error) {
	mode := opts.Mode
	if mode == "" {
		mode = ProgressPercentage
	}
	n := Notification{
		ID:           s.newID(),
		Type:         TypeInfo,
		Variant:      VariantProgress,
		Title:        opts.Title,
		Message:      opts.Message,
		Timestamp:    time.Now(),
		ProgressMode: mode,
		Total:        opts.Total,
		Cancellable:  opts.Cancellable,
		Status:       StatusActive,
	}
	if err := s.store.Add(n); err != nil {
		return nil, err
	}
	return &ProgressController{id: n.ID, total: opts.Total, service: s}, nil
}

// LoadingOptions configures a loading notification.
type LoadingOptions struct {
	Title       string
	Message     string
	Cancellable bool
}

// Loading starts a loading notification and returns its controller.
func (s *Service) Loading(opts LoadingOptions) (*LoadingController, error) {
	n := Notification{
		ID:          s.newID(),
		Type:        TypeInfo,
		Variant:     VariantLoading,
		Title:       opts.Title,
		Message:     opts.Message,
		Timestamp:   time.Now(),
		Cancellable: opts.Cancellable,
		Status:      StatusActive,
	}
	if err := s.store.Add(n); err != nil {
		return nil, err
	}
	return &LoadingController{id: n.ID, service: s}, nil
}

// Update applies a partial patch to an active notification.
func (s *Service) Update(id string, patch Update) error {
	return s.store.Update(id, patch)
}

// Dismiss removes an active notification.
func (s *Service) Dismiss(id string) error {
	return s.store.Remove(id)
}

// DismissAll removes every active notification.
func (s *Service) DismissAll() error {
	return s.store.RemoveAll()
}

// MarkAsRead marks a history record as read.
func (s *Service) MarkAsRead(id string) error {
	return s.store.MarkRead(id)
}

// MarkAllAsRead marks every history record as read.
func (s *Service) MarkAllAsRead() error {
	return s.store.MarkAllRead()
}

// DeleteFromHistory removes a record from history.
func (s *Service) DeleteFromHistory(id string) error {
	return s.store.RemoveFromHistory(id)
}

// ClearHistory removes every history record.
func (s *Service) ClearHistory() error {
	return s.store.ClearHistory()
}

// ToggleCenter flips the notification-center panel open state.
func (s *Service) ToggleCenter() error {
	return s.store.ToggleCenter()
}

// ProgressController drives a single in-flight progress notification.
type ProgressController struct {
	id      string
	total   int
	service *Service
}

// ID returns the controlled notification id.
func (c *ProgressController) ID() string { return c.id }

// Update sets the progress percentage and optionally the message.
func (c *ProgressController) Update(progress float64, message string) error {
	patch := Update{Progress: &progress}
	if message != "" {
		patch.Message = &message
	}
	return c.service.store.Update(c.id, patch)
}

// UpdateFraction sets progress from a completed-of-total count.
func (c *ProgressController) UpdateFraction(current int) error {
	if c.total <= 0 {
		return fmt.Errorf("progress %s: fraction updates need a positive total", c.id)
	}
	progress := float64(current) / float64(c.total) * 100
	return c.service.store.Update(c.id, Update{Progress: &progress, Current: &current})
}

// UpdateMessage replaces the message without touching progress.
func (c *ProgressController) UpdateMessage(message string) error {
	return c.service.store.Update(c.id, Update{Message: &message})
}

// Complete marks the notification completed and removes it from the
// active list. The terminal update is what creates its history record.
func (c *ProgressController) Complete(message string) error {
	return c.finish(StatusCompleted, message, 100)
}

// Fail marks the notification failed and removes it from the active list.
func (c *ProgressController) Fail(message string) error {
	return c.finish(StatusFailed, message, -1)
}

// Cancel marks the notification cancelled and removes it from the active list.
func (c *ProgressController) Cancel() error {
	return c.finish(StatusCancelled, "", -1)
}

func (c *ProgressController) finish(status Status, message string, progress float64) error {
	patch := Update{Status: &status}
	if message != "" {
		patch.Message = &message
	}
	if progress >= 0 {
		patch.Progress = &progress
	}
	if err := c.service.store.Update(c.id, patch); err != nil {
		return err
	}
	return c.service.store.Remove(c.id)
}

// LoadingController drives a single in-flight loading notification.
type LoadingController struct {
	id      string
	service *Service
}

// ID returns the controlled notification id.
func (c *LoadingController) ID() string { return c.id }

// UpdateMessage replaces the loading message.
func (c *LoadingController) UpdateMessage(message string) error {
	return c.service.store.Update(c.id, Update{Message: &message})
}

// Complete marks the notification completed and removes it from the active list.
func (c *LoadingController) Complete(message string) error {
	return c.finish(StatusCompleted, message)
}

// Fail marks the notification failed and removes it from the active list.
func (c *LoadingController) Fail(message string) error {
	return c.finish(StatusFailed, message)
}

// Cancel marks the notification cancelled and removes it from the active list.
func (c *LoadingController) Cancel() error {
	return c.finish(StatusCancelled, "")
}

func (c *LoadingController) finish(status Status, message string) error {
	patch := Update{Status: &status}
	if message != "" {
		patch.Message = &message
	}
	if err := c.service.store.Update(c.id, patch); err != nil {
		return err
	}
	return c.service.store.Remove(c.id)
}
