// Package notify fans structural edits out to dependent subsystems.
//
// Listeners (clipboard, selection, map caches, UI list boxes) each keep
// their own positional indices into the geometry store and must hear about
// every insert, delete and field change, including cascaded ones, at the
// same granularity as the store itself. The Bus calls them synchronously in
// a fixed slot order.
package notify

import (
	"sort"

	"github.com/dshills/mapedit/internal/engine/level"
)

// Listener receives the begin/edit/end callbacks of every batch.
type Listener interface {
	NotifyBegin()
	NotifyInsert(kind level.ObjType, index int)
	NotifyDelete(kind level.ObjType, index int)
	NotifyChange(kind level.ObjType, index int, field level.Field)
	NotifyEnd()
}

// Slot fixes the call order between listener families.
type Slot int

// Listener families, in call order.
const (
	SlotClipboard Slot = iota
	SlotSelection
	SlotMapStuff
	SlotObjectBox
)

// String returns the slot name.
func (s Slot) String() string {
	switch s {
	case SlotClipboard:
		return "clipboard"
	case SlotSelection:
		return "selection"
	case SlotMapStuff:
		return "mapstuff"
	case SlotObjectBox:
		return "objectbox"
	default:
		return "unknown"
	}
}

type entry struct {
	id       uint64
	slot     Slot
	listener Listener
}

// Subscription represents an active listener registration.
type Subscription struct {
	id  uint64
	bus *Bus
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s.bus != nil {
		s.bus.unsubscribe(s.id)
		s.bus = nil
	}
}

// Bus is an ordered listener registry.
type Bus struct {
	entries []entry

	// Next subscription ID
	nextID uint64
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{}
}

// Register adds l to a slot. Listeners in the same slot are called in
// registration order.
func (b *Bus) Register(slot Slot, l Listener) *Subscription {
	b.nextID++
	e := entry{id: b.nextID, slot: slot, listener: l}

	i := sort.Search(len(b.entries), func(i int) bool {
		return b.entries[i].slot > slot
	})
	b.entries = append(b.entries, entry{})
	copy(b.entries[i+1:], b.entries[i:])
	b.entries[i] = e

	return &Subscription{id: e.id, bus: b}
}

func (b *Bus) unsubscribe(id uint64) {
	for i, e := range b.entries {
		if e.id == id {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered listeners.
func (b *Bus) Len() int {
	return len(b.entries)
}

// Each calls fn for every listener in call order.
func (b *Bus) Each(fn func(Listener)) {
	for _, e := range b.snapshot() {
		fn(e.listener)
	}
}

// snapshot lets listeners unsubscribe from inside a callback.
func (b *Bus) snapshot() []entry {
	out := make([]entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Begin announces the start of a batch.
func (b *Bus) Begin() {
	for _, e := range b.snapshot() {
		e.listener.NotifyBegin()
	}
}

// Insert announces that a record was inserted at index.
func (b *Bus) Insert(kind level.ObjType, index int) {
	for _, e := range b.snapshot() {
		e.listener.NotifyInsert(kind, index)
	}
}

// Delete announces that the record at index is being removed.
func (b *Bus) Delete(kind level.ObjType, index int) {
	for _, e := range b.snapshot() {
		e.listener.NotifyDelete(kind, index)
	}
}

// Change announces that one field of a record changed.
func (b *Bus) Change(kind level.ObjType, index int, field level.Field) {
	for _, e := range b.snapshot() {
		e.listener.NotifyChange(kind, index, field)
	}
}

// End announces the end of a batch.
func (b *Bus) End() {
	for _, e := range b.snapshot() {
		e.listener.NotifyEnd()
	}
}

// Funcs adapts optional functions to a Listener. Nil fields are skipped.
type Funcs struct {
	Begin  func()
	Insert func(kind level.ObjType, index int)
	Delete func(kind level.ObjType, index int)
	Change func(kind level.ObjType, index int, field level.Field)
	End    func()
}

func (f Funcs) NotifyBegin() {
	if f.Begin != nil {
		f.Begin()
	}
}

func (f Funcs) NotifyInsert(kind level.ObjType, index int) {
	if f.Insert != nil {
		f.Insert(kind, index)
	}
}

func (f Funcs) NotifyDelete(kind level.ObjType, index int) {
	if f.Delete != nil {
		f.Delete(kind, index)
	}
}

func (f Funcs) NotifyChange(kind level.ObjType, index int, field level.Field) {
	if f.Change != nil {
		f.Change(kind, index, field)
	}
}

func (f Funcs) NotifyEnd() {
	if f.End != nil {
		f.End()
	}
}
