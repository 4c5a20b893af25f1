// Package store provides a generic observable state container with
// optional key-filtered persistence.
package store

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/bitfun/appstate/internal/bus"
	"github.com/bitfun/appstate/internal/logging"
)

// ErrStoreClosed indicates the store has been closed and can no longer be used.
var ErrStoreClosed = errors.New("store is closed")

// ChangeEvent is emitted on the configured bus after every committed update.
// The payload is a Change.
const ChangeEvent = "state:change"

// Change describes a committed state update.
type Change struct {
	Action string
	Keys   []string
}

// ValidationError rejects a proposed state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid state: %s", e.Reason)
	}
	return fmt.Sprintf("invalid state: %s: %s", e.Field, e.Reason)
}

// ValidateFunc inspects a proposed state and returns nil when it is
// acceptable. Validation is pure: it must not mutate the state.
type ValidateFunc[T any] func(next T) *ValidationError

// Transform adjusts a proposed state before it is committed. Transforms
// run in registration order, each receiving the previous transform's
// output and returning the next state. A transform cannot stall an
// update; at worst it returns its input unchanged.
type Transform[T any] func(action string, prev, next T) T

// Listener observes committed states.
type Listener[T any] func(state T)

// Unsubscribe removes a listener registered with Subscribe.
type Unsubscribe func()

// Store holds a value of type T and notifies subscribers on every commit.
type Store[T any] struct {
	mu         sync.Mutex
	state      T
	validate   ValidateFunc[T]
	transforms []Transform[T]
	persist    *Persistence
	listeners  map[uint64]Listener[T]
	nextID     uint64
	closed     bool
	logger     logging.Logger
	bus        *bus.Bus
}

// New creates a store holding initial. When persistence is configured,
// a previously persisted snapshot is merged over initial before the
// store becomes visible; a failed load logs and keeps initial.
func New[T any](initial T, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		state:     initial,
		listeners: make(map[uint64]Listener[T]),
		logger:    logging.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.persist != nil {
		if loaded, ok := loadSnapshot(s.persist, initial, s.logger); ok {
			s.state = loaded
		}
	}
	return s
}

// State returns a copy of the current state. The copy shares any
// reference-typed fields with the internal state.
func (s *Store[T]) State() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		var zero T
		return zero, ErrStoreClosed
	}
	return s.state, nil
}

// Set computes the next state from the current one, validates it, runs
// the transform pipeline, commits, persists, and notifies subscribers.
// The action tags the update for transforms and change events.
func (s *Store[T]) Set(action string, update func(prev T) T) error {
	if update == nil {
		return fmt.Errorf("store: update function cannot be nil")
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStoreClosed
	}

	prev := s.state
	next := update(prev)

	if s.validate != nil {
		if verr := s.validate(next); verr != nil {
			s.mu.Unlock()
			return verr
		}
	}

	for _, transform := range s.transforms {
		next = transform(action, prev, next)
	}

	s.state = next
	changed := changedFields(prev, next)

	if s.persist != nil {
		if err := saveSnapshot(s.persist, next); err != nil {
			// State stays committed in memory; persistence is best effort.
			s.logger.Error("state persistence failed", "key", s.persist.Key, "error", err)
		}
	}

	listeners := make([]Listener[T], 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	eventBus := s.bus
	s.mu.Unlock()

	for _, listener := range listeners {
		s.notify(listener, next)
	}
	if eventBus != nil {
		_, _ = eventBus.Emit(ChangeEvent, Change{Action: action, Keys: changed}, "store")
	}
	return nil
}

// notify runs a single listener, isolating panics from the commit path.
func (s *Store[T]) notify(listener Listener[T], state T) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("store listener panicked", "panic", fmt.Sprint(r))
		}
	}()
	listener(state)
}

// Subscribe registers a listener invoked after every commit.
func (s *Store[T]) Subscribe(listener Listener[T]) (Unsubscribe, error) {
	if listener == nil {
		return nil, fmt.Errorf("store: listener cannot be nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	s.nextID++
	id := s.nextID
	s.listeners[id] = listener
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}, nil
}

// Close clears all listeners and marks the store unusable. Every later
// State, Set, Subscribe, or Select call fails with ErrStoreClosed.
func (s *Store[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	s.closed = true
	s.listeners = make(map[uint64]Listener[T])
	return nil
}

// Select applies a projection to the current state.
func Select[T, R any](s *Store[T], selector func(T) R) (R, error) {
	var zero R
	if selector == nil {
		return zero, fmt.Errorf("store: selector cannot be nil")
	}
	state, err := s.State()
	if err != nil {
		return zero, err
	}
	return selector(state), nil
}

// changedFields reports the names of top-level struct fields that differ
// between prev and next. Field names follow the JSON tag when present.
// For non-struct states a single "value" entry is reported on change.
func changedFields[T any](prev, next T) []string {
	pv := reflect.ValueOf(prev)
	nv := reflect.ValueOf(next)
	if pv.Kind() != reflect.Struct {
		if !reflect.DeepEqual(prev, next) {
			return []string{"value"}
		}
		return nil
	}

	var changed []string
	t := pv.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if !reflect.DeepEqual(pv.Field(i).Interface(), nv.Field(i).Interface()) {
			changed = append(changed, fieldKey(field))
		}
	}
	return changed
}

// fieldKey returns the JSON key for a struct field.
func fieldKey(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return field.Name
	}
	if name, _, found := strings.Cut(tag, ","); found {
		if name != "" {
			return name
		}
		return field.Name
	}
	return tag
}
