package bus

import (
	"time"

	"github.com/bitfun/appstate/internal/logging"
)

// Default limits for a new Bus.
const (
	DefaultMaxListeners   = 100
	DefaultHistoryLimit   = 1000
	DefaultWaitForTimeout = 5 * time.Second
)

// Options configures a Bus.
type Options struct {
	// MaxListeners caps the number of handlers per event.
	MaxListeners int
	// HistoryLimit bounds the emit history; zero disables recording.
	HistoryLimit int
	// DefaultTimeout is used by WaitFor when no timeout is given.
	DefaultTimeout time.Duration
	// Logger receives handler failure diagnostics.
	Logger logging.Logger
}

// Option mutates Options.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		MaxListeners:   DefaultMaxListeners,
		HistoryLimit:   DefaultHistoryLimit,
		DefaultTimeout: DefaultWaitForTimeout,
	}
}

// WithMaxListeners sets the per-event handler limit.
func WithMaxListeners(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxListeners = n
		}
	}
}

// WithHistoryLimit sets the emit history bound.
func WithHistoryLimit(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.HistoryLimit = n
		}
	}
}

// WithDefaultTimeout sets the default WaitFor timeout.
func WithDefaultTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.DefaultTimeout = d
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l logging.Logger) Option {
	return func(o *Options) { o.Logger = l }
}
