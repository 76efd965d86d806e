// Package recent keeps most-recently-used value lists (textures, flats,
// thing types) for editor convenience.
package recent

import "golang.org/x/exp/slices"

// DefaultSize is the capacity used when a non-positive size is given.
const DefaultSize = 16

// List is a bounded most-recently-used list without duplicates.
type List[T comparable] struct {
	items []T
	size  int
}

// New creates a list holding at most size values.
func New[T comparable](size int) *List[T] {
	if size <= 0 {
		size = DefaultSize
	}
	return &List[T]{size: size}
}

// Insert moves v to the front, evicting the oldest value when full.
func (l *List[T]) Insert(v T) {
	if i := slices.Index(l.items, v); i >= 0 {
		l.items = slices.Delete(l.items, i, i+1)
	} else if len(l.items) >= l.size {
		l.items = l.items[:l.size-1]
	}
	l.items = slices.Insert(l.items, 0, v)
}

// Items returns the values, most recent first.
func (l *List[T]) Items() []T {
	return slices.Clone(l.items)
}

// Len returns the number of values held.
func (l *List[T]) Len() int {
	return len(l.items)
}

// Clear empties the list.
func (l *List[T]) Clear() {
	l.items = l.items[:0]
}
