// Package bus provides a process-wide publish/subscribe event hub.
package bus

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bitfun/appstate/internal/logging"
)

var (
	// ErrBusClosed indicates the bus has been closed and can no longer be used.
	ErrBusClosed = errors.New("event bus is closed")
	// ErrEmptyEventName indicates an empty event name was given.
	ErrEmptyEventName = errors.New("event name cannot be empty")
	// ErrNilHandler indicates a nil handler was given.
	ErrNilHandler = errors.New("event handler cannot be nil")
	// ErrTooManyListeners indicates the per-event listener limit was reached.
	ErrTooManyListeners = errors.New("too many listeners for event")
	// ErrWaitTimeout indicates WaitFor timed out before the event occurred.
	ErrWaitTimeout = errors.New("timed out waiting for event")
)

// HandlerErrorEvent is emitted when a handler panics during dispatch.
// The payload is a HandlerError.
const HandlerErrorEvent = "event:handler:error"

// Handler processes an emitted event payload.
type Handler func(data any)

// HandlerError is the payload of HandlerErrorEvent.
type HandlerError struct {
	Event string
	Err   error
}

// Subscription identifies a registered handler so it can be removed.
type Subscription struct {
	event string
	id    uint64
	once  bool
}

// Event returns the event name the subscription was registered for.
func (s *Subscription) Event() string { return s.event }

type registration struct {
	id      uint64
	handler Handler
}

// Bus is a synchronous publish/subscribe hub with a bounded event history.
type Bus struct {
	mu        sync.Mutex
	listeners map[string][]registration
	once      map[string][]registration
	history   []Metadata
	nextID    uint64
	closed    bool
	opts      Options
	logger    logging.Logger
}

// New creates a Bus with the given options.
func New(opts ...Option) *Bus {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.Logger
	if logger == nil {
		logger = logging.Noop()
	}
	return &Bus{
		listeners: make(map[string][]registration),
		once:      make(map[string][]registration),
		opts:      o,
		logger:    logger,
	}
}

// On registers a persistent handler for event.
// The returned Subscription can be passed to Off.
func (b *Bus) On(event string, handler Handler) (*Subscription, error) {
	return b.register(event, handler, false)
}

// Once registers a handler invoked at most once, then auto-removed.
func (b *Bus) Once(event string, handler Handler) (*Subscription, error) {
	return b.register(event, handler, true)
}

func (b *Bus) register(event string, handler Handler, once bool) (*Subscription, error) {
	if event == "" {
		return nil, ErrEmptyEventName
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBusClosed
	}
	if len(b.listeners[event])+len(b.once[event]) >= b.opts.MaxListeners {
		return nil, fmt.Errorf("%w: %s (max %d)", ErrTooManyListeners, event, b.opts.MaxListeners)
	}

	b.nextID++
	reg := registration{id: b.nextID, handler: handler}
	if once {
		b.once[event] = append(b.once[event], reg)
	} else {
		b.listeners[event] = append(b.listeners[event], reg)
	}
	return &Subscription{event: event, id: reg.id, once: once}, nil
}

// Off removes a previously registered handler.
// It is a no-op for nil, unknown, or already removed subscriptions.
func (b *Bus) Off(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[sub.event] = removeRegistration(b.listeners[sub.event], sub.id)
	b.once[sub.event] = removeRegistration(b.once[sub.event], sub.id)
	// Delete the event key when no listeners remain
	if len(b.listeners[sub.event]) == 0 {
		delete(b.listeners, sub.event)
	}
	if len(b.once[sub.event]) == 0 {
		delete(b.once, sub.event)
	}
}

func removeRegistration(regs []registration, id uint64) []registration {
	for i, reg := range regs {
		if reg.id == id {
			return append(regs[:i], regs[i+1:]...)
		}
	}
	return regs
}

// Emit records the event and synchronously invokes all persistent and
// once handlers registered for it. Once handlers are cleared before
// invocation. Returns whether any listener existed at emit time.
//
// A panicking handler never propagates to the emitter: the panic is
// recovered, logged, and re-emitted as HandlerErrorEvent.
func (b *Bus) Emit(event string, data any, sender string) (bool, error) {
	if event == "" {
		return false, ErrEmptyEventName
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return false, ErrBusClosed
	}
	b.recordLocked(Metadata{
		Name:      event,
		Timestamp: time.Now(),
		Sender:    sender,
		Data:      data,
	})

	persistent := append([]registration(nil), b.listeners[event]...)
	onceRegs := b.once[event]
	delete(b.once, event)
	b.mu.Unlock()

	handled := len(persistent) > 0 || len(onceRegs) > 0
	for _, reg := range persistent {
		b.invoke(event, reg.handler, data)
	}
	for _, reg := range onceRegs {
		b.invoke(event, reg.handler, data)
	}
	return handled, nil
}

// invoke runs a single handler, isolating panics from the dispatch loop.
func (b *Bus) invoke(event string, handler Handler, data any) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("handler for %q panicked: %v", event, r)
			b.logger.Error("event handler failed", "event", event, "error", err)
			// Re-emitting for the diagnostic event itself would recurse forever.
			if event != HandlerErrorEvent {
				_, _ = b.Emit(HandlerErrorEvent, HandlerError{Event: event, Err: err}, "bus")
			}
		}
	}()
	handler(data)
}

// WaitFor blocks until the next occurrence of event, the timeout elapses,
// or ctx is done. A zero timeout uses the bus default.
func (b *Bus) WaitFor(ctx context.Context, event string, timeout time.Duration) (any, error) {
	if timeout <= 0 {
		timeout = b.opts.DefaultTimeout
	}
	ch := make(chan any, 1)
	sub, err := b.Once(event, func(data any) {
		ch <- data
	})
	if err != nil {
		return nil, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case data := <-ch:
		return data, nil
	case <-timer.C:
		b.Off(sub)
		return nil, fmt.Errorf("%w: %s after %s", ErrWaitTimeout, event, timeout)
	case <-ctx.Done():
		b.Off(sub)
		return nil, ctx.Err()
	}
}

// RemoveAllListeners removes all handlers for the given events,
// or every handler when no event is given.
func (b *Bus) RemoveAllListeners(events ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(events) == 0 {
		b.listeners = make(map[string][]registration)
		b.once = make(map[string][]registration)
		return
	}
	for _, event := range events {
		delete(b.listeners, event)
		delete(b.once, event)
	}
}

// ListenerCount returns the number of handlers registered for event.
func (b *Bus) ListenerCount(event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners[event]) + len(b.once[event])
}

// EventNames returns the sorted names of events with at least one handler.
func (b *Bus) EventNames() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	seen := make(map[string]bool, len(b.listeners)+len(b.once))
	for name := range b.listeners {
		seen[name] = true
	}
	for name := range b.once {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close removes all listeners and history and marks the bus unusable.
// Any later registration or emit returns ErrBusClosed.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBusClosed
	}
	b.closed = true
	b.listeners = make(map[string][]registration)
	b.once = make(map[string][]registration)
	b.history = nil
	return nil
}
