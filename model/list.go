package model

import "iter"

// List is an ordered, growable sequence. Rows within a layout, keys within a
// row and layouts within a keyboard are all kept in one.
type List[T any] struct {
	items []T
}

// NewList creates a list holding the given items in order.
func NewList[T any](items ...T) *List[T] {
	l := &List[T]{items: make([]T, 0, len(items))}
	l.items = append(l.items, items...)

	return l
}

func (l *List[T]) Append(item T) {
	l.items = append(l.items, item)
}

func (l *List[T]) Len() int {
	if l == nil {
		return 0
	}

	return len(l.items)
}

// Nth returns the n-th item. The second result is false when n is out of range.
func (l *List[T]) Nth(n int) (T, bool) {
	var zero T

	if l == nil || n < 0 || n >= len(l.items) {
		return zero, false
	}

	return l.items[n], true
}

func (l *List[T]) First() (T, bool) {
	return l.Nth(0)
}

func (l *List[T]) Last() (T, bool) {
	return l.Nth(l.Len() - 1)
}

// All iterates over the items in insertion order.
func (l *List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if l == nil {
			return
		}

		for i, item := range l.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Each calls fn for every item in insertion order.
func (l *List[T]) Each(fn func(T)) {
	for _, item := range l.All() {
		fn(item)
	}
}
