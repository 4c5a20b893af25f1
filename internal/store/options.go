package store

import (
	"github.com/bitfun/appstate/internal/bus"
	"github.com/bitfun/appstate/internal/logging"
)

// Option configures a Store at construction time.
type Option[T any] func(*Store[T])

// WithValidate sets the state validator.
func WithValidate[T any](validate ValidateFunc[T]) Option[T] {
	return func(s *Store[T]) { s.validate = validate }
}

// WithTransforms appends transforms to the commit pipeline.
func WithTransforms[T any](transforms ...Transform[T]) Option[T] {
	return func(s *Store[T]) { s.transforms = append(s.transforms, transforms...) }
}

// WithPersistence configures snapshot persistence.
func WithPersistence[T any](p Persistence) Option[T] {
	return func(s *Store[T]) { s.persist = &p }
}

// WithLogger sets the diagnostic logger.
func WithLogger[T any](logger logging.Logger) Option[T] {
	return func(s *Store[T]) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBus sets the bus receiving ChangeEvent emissions.
func WithBus[T any](b *bus.Bus) Option[T] {
	return func(s *Store[T]) { s.bus = b }
}
