package notify

import "time"

// Default capacity and timing limits.
const (
	DefaultMaxActive  = 3
	DefaultMaxHistory = 100
	DefaultDuration   = 5 * time.Second
)

// Config bounds the notification center.
type Config struct {
	// MaxActive caps the number of simultaneously displayed notifications.
	MaxActive int `json:"maxActive"`
	// MaxHistory bounds the history log.
	MaxHistory int `json:"maxHistory"`
	// DefaultDuration is the toast auto-dismiss delay when none is given.
	DefaultDuration time.Duration `json:"defaultDuration"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		MaxActive:       DefaultMaxActive,
		MaxHistory:      DefaultMaxHistory,
		DefaultDuration: DefaultDuration,
	}
}

// normalize fills zero fields with defaults.
func (c Config) normalize() Config {
	if c.MaxActive <= 0 {
		c.MaxActive = DefaultMaxActive
	}
	if c.MaxHistory <= 0 {
		c.MaxHistory = DefaultMaxHistory
	}
	if c.DefaultDuration <= 0 {
		c.DefaultDuration = DefaultDuration
	}
	return c
}

// State is the observable notification-center state.
//
// Invariant: UnreadCount equals the number of history records with
// Read == false after every mutation that touches history.
type State struct {
	// Active holds currently displayed notifications, oldest first.
	Active []Notification `json:"active"`
	// History holds past notifications, newest first, bounded by
	// Config.MaxHistory.
	History []Record `json:"history"`
	// UnreadCount is the number of unread history records.
	UnreadCount int `json:"unreadCount"`
	// CenterOpen reports whether the notification center panel is open.
	CenterOpen bool `json:"centerOpen"`
	// Config holds the center's capacity and timing limits.
	Config Config `json:"config"`
}

// countUnread returns the number of unread records.
func countUnread(history []Record) int {
	count := 0
	for _, record := range history {
		if !record.Read {
			count++
		}
	}
	return count
}
