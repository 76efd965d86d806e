// Package selection tracks a set of selected map objects of one kind.
//
// A Set registered on the document bus keeps its indices in step with the
// store: inserts push later indices up, deletes drop the removed index and
// pull later ones down.
package selection

import (
	"golang.org/x/exp/slices"

	"github.com/dshills/mapedit/internal/engine/level"
)

// Set is an ordered set of indices of a single kind.
type Set struct {
	kind  level.ObjType
	items []int
}

// New creates an empty selection of the given kind.
func New(kind level.ObjType) *Set {
	return &Set{kind: kind}
}

// Kind returns the kind of object selected.
func (s *Set) Kind() level.ObjType { return s.kind }

// Count returns the number of selected objects.
func (s *Set) Count() int { return len(s.items) }

// Empty reports whether nothing is selected.
func (s *Set) Empty() bool { return len(s.items) == 0 }

// First returns the lowest selected index, or -1.
func (s *Set) First() int {
	if len(s.items) == 0 {
		return -1
	}
	return s.items[0]
}

// Items returns the selected indices in ascending order.
func (s *Set) Items() []int {
	return slices.Clone(s.items)
}

// Get reports whether n is selected.
func (s *Set) Get(n int) bool {
	_, ok := slices.BinarySearch(s.items, n)
	return ok
}

// Set selects n.
func (s *Set) Set(n int) {
	i, ok := slices.BinarySearch(s.items, n)
	if !ok {
		s.items = slices.Insert(s.items, i, n)
	}
}

// Clear deselects n.
func (s *Set) Clear(n int) {
	if i, ok := slices.BinarySearch(s.items, n); ok {
		s.items = slices.Delete(s.items, i, i+1)
	}
}

// Toggle flips the selection state of n.
func (s *Set) Toggle(n int) {
	if s.Get(n) {
		s.Clear(n)
	} else {
		s.Set(n)
	}
}

// ClearAll deselects everything.
func (s *Set) ClearAll() {
	s.items = s.items[:0]
}

// ChangeType empties the set and switches its kind.
func (s *Set) ChangeType(kind level.ObjType) {
	s.kind = kind
	s.ClearAll()
}

// SetAll selects indices [0, count).
func (s *Set) SetAll(count int) {
	s.items = s.items[:0]
	for i := 0; i < count; i++ {
		s.items = append(s.items, i)
	}
}

func (s *Set) NotifyBegin() {}
func (s *Set) NotifyEnd()   {}

func (s *Set) NotifyInsert(kind level.ObjType, index int) {
	if kind != s.kind {
		return
	}
	i, _ := slices.BinarySearch(s.items, index)
	for ; i < len(s.items); i++ {
		s.items[i]++
	}
}

func (s *Set) NotifyDelete(kind level.ObjType, index int) {
	if kind != s.kind {
		return
	}
	i, ok := slices.BinarySearch(s.items, index)
	if ok {
		s.items = slices.Delete(s.items, i, i+1)
	}
	for ; i < len(s.items); i++ {
		s.items[i]--
	}
}

func (s *Set) NotifyChange(level.ObjType, int, level.Field) {}
