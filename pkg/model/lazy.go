package model

import "sync"

// Lazy is a deferred computation evaluated at most once.
// The zero value is not usable; construct with [NewLazy] or [Eager].
type Lazy[T any] struct {
	get func() (T, error)
}

// NewLazy wraps f so that it runs on the first call to Get only.
// Concurrent callers block until the first evaluation finishes.
func NewLazy[T any](f func() (T, error)) *Lazy[T] {
	return &Lazy[T]{get: sync.OnceValues(f)}
}

// Eager returns an already evaluated Lazy holding v.
func Eager[T any](v T) *Lazy[T] {
	return &Lazy[T]{get: func() (T, error) { return v, nil }}
}

// Get forces the computation and returns its result.
// A nil receiver yields the zero value and no error.
func (l *Lazy[T]) Get() (T, error) {
	if l == nil {
		var zero T
		return zero, nil
	}
	return l.get()
}
