package tabula

import (
	"iter"
	"slices"
)

// Source is the canonical traversal every aggregator consumes: an ordered
// sequence of elements plus an optional error probe checked once the
// sequence is exhausted. Sources preserve the order of what they wrap.
type Source[T any] struct {
	seq iter.Seq[T]
	err func() error
}

// All returns the element sequence.
func (s Source[T]) All() iter.Seq[T] {
	if s.seq == nil {
		return func(func(T) bool) {}
	}
	return s.seq
}

// Err reports a failure of the underlying iterator, wrapped in ErrSource.
func (s Source[T]) Err() error {
	if s.err == nil {
		return nil
	}
	if err := s.err(); err != nil {
		return newSourceError(err)
	}
	return nil
}

// Collection is any container that can report its size and enumerate its
// elements in a stable order.
type Collection[T any] interface {
	Len() int
	All() iter.Seq[T]
}

// Iterator is a manually driven cursor in the style of sql.Rows or
// bufio.Scanner. If it also has an Err() error method, that error is
// surfaced after traversal.
type Iterator[T any] interface {
	Next() bool
	Value() T
}

// Of wraps a single instance as a one-element source.
func Of[T any](v T) Source[T] {
	return Source[T]{seq: func(yield func(T) bool) { yield(v) }}
}

// FromSlice wraps a slice. Arrays are passed as arr[:].
func FromSlice[T any](s []T) Source[T] {
	return Source[T]{seq: slices.Values(s)}
}

// FromCollection wraps a Collection.
func FromCollection[T any](c Collection[T]) Source[T] {
	if c == nil {
		return Source[T]{}
	}
	return Source[T]{seq: c.All()}
}

// FromSeq wraps a lazily evaluated sequence.
func FromSeq[T any](seq iter.Seq[T]) Source[T] {
	return Source[T]{seq: seq}
}

// FromIterator wraps a manually driven iterator.
func FromIterator[T any](it Iterator[T]) Source[T] {
	if it == nil {
		return Source[T]{}
	}
	src := Source[T]{seq: func(yield func(T) bool) {
		for it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}}
	if e, ok := it.(interface{ Err() error }); ok {
		src.err = e.Err
	}
	return src
}

// FromPull wraps a pull function returning false once exhausted.
func FromPull[T any](next func() (T, bool)) Source[T] {
	if next == nil {
		return Source[T]{}
	}
	return Source[T]{seq: func(yield func(T) bool) {
		for {
			v, ok := next()
			if !ok || !yield(v) {
				return
			}
		}
	}}
}

// FromChan drains a channel until it is closed. A nil channel is empty.
func FromChan[T any](ch <-chan T) Source[T] {
	if ch == nil {
		return Source[T]{}
	}
	return Source[T]{seq: func(yield func(T) bool) {
		for v := range ch {
			if !yield(v) {
				return
			}
		}
	}}
}
