// Package notify provides the notification domain model, the observable
// notification store, and the service facade used to create and drive
// notifications.
package notify

import (
	"fmt"
	"time"
)

// Type is the severity of a notification.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// IsValid checks if the notification type is valid.
func (t Type) IsValid() bool {
	switch t {
	case TypeSuccess, TypeError, TypeWarning, TypeInfo:
		return true
	default:
		return false
	}
}

// String returns the string representation of the type.
func (t Type) String() string {
	return string(t)
}

// Variant determines a notification's display and lifecycle behavior.
type Variant string

const (
	// VariantToast auto-dismisses after its duration.
	VariantToast Variant = "toast"
	// VariantProgress tracks a running operation with a progress value.
	VariantProgress Variant = "progress"
	// VariantPersistent remains until explicitly dismissed.
	VariantPersistent Variant = "persistent"
	// VariantSilent goes straight to history without display.
	VariantSilent Variant = "silent"
	// VariantLoading tracks a running operation without progress.
	VariantLoading Variant = "loading"
)

// IsValid checks if the variant is valid.
func (v Variant) IsValid() bool {
	switch v {
	case VariantToast, VariantProgress, VariantPersistent, VariantSilent, VariantLoading:
		return true
	default:
		return false
	}
}

// String returns the string representation of the variant.
func (v Variant) String() string {
	return string(v)
}

// Transient reports whether the variant represents an in-flight operation.
// Transient notifications enter history only once they reach a terminal
// status; all other variants are recorded immediately.
func (v Variant) Transient() bool {
	return v == VariantProgress || v == VariantLoading
}

// ProgressMode selects how progress is presented.
type ProgressMode string

const (
	ProgressPercentage ProgressMode = "percentage"
	ProgressFraction   ProgressMode = "fraction"
	ProgressTextOnly   ProgressMode = "text-only"
)

// Status is the lifecycle state of a notification.
type Status string

const (
	StatusActive    Status = "active"
	StatusDismissed Status = "dismissed"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// IsValid checks if the status is valid.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusDismissed, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status ends a notification's lifecycle.
func (s Status) Terminal() bool {
	switch s {
	case StatusDismissed, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Notification is a single notification. Which optional fields are
// meaningful depends on the variant: Progress, Current, and Total apply
// to the progress variant, Duration to toasts.
type Notification struct {
	ID           string        `json:"id"`
	Type         Type          `json:"type"`
	Variant      Variant       `json:"variant"`
	Title        string        `json:"title"`
	Message      string        `json:"message"`
	Timestamp    time.Time     `json:"timestamp"`
	Progress     float64       `json:"progress,omitempty"`
	ProgressMode ProgressMode  `json:"progressMode,omitempty"`
	Current      int           `json:"current,omitempty"`
	Total        int           `json:"total,omitempty"`
	Cancellable  bool          `json:"cancellable,omitempty"`
	Duration     time.Duration `json:"duration,omitempty"`
	Closable     bool          `json:"closable,omitempty"`
	Read         bool          `json:"read,omitempty"`
	Status       Status        `json:"status,omitempty"`
}

// Validate validates the notification and returns an error if invalid.
func (n *Notification) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("notification ID cannot be empty")
	}
	if !n.Type.IsValid() {
		return fmt.Errorf("invalid notification type: %s", n.Type)
	}
	if !n.Variant.IsValid() {
		return fmt.Errorf("invalid notification variant: %s", n.Variant)
	}
	if n.Status != "" && !n.Status.IsValid() {
		return fmt.Errorf("invalid notification status: %s", n.Status)
	}
	if n.Timestamp.IsZero() {
		return fmt.Errorf("notification timestamp cannot be zero")
	}
	if n.Title == "" && n.Message == "" {
		return fmt.Errorf("notification must have a title or a message")
	}
	return nil
}

// Record is the durable form of a notification once recorded in history.
type Record struct {
	Notification
	DismissedAt  *time.Time `json:"dismissedAt,omitempty"`
	ShowInCenter bool       `json:"showInCenter,omitempty"`
}

// ParseType parses a string into a Type.
func ParseType(t string) (Type, error) {
	nt := Type(t)
	if !nt.IsValid() {
		return "", fmt.Errorf("invalid notification type: %s", t)
	}
	return nt, nil
}

// ParseVariant parses a string into a Variant.
func ParseVariant(v string) (Variant, error) {
	nv := Variant(v)
	if !nv.IsValid() {
		return "", fmt.Errorf("invalid notification variant: %s", v)
	}
	return nv, nil
}

// ParseStatus parses a string into a Status.
func ParseStatus(s string) (Status, error) {
	ns := Status(s)
	if !ns.IsValid() {
		return "", fmt.Errorf("invalid notification status: %s", s)
	}
	return ns, nil
}
