package engine

import (
	"github.com/dshills/mapedit/internal/engine/level"
)

// basis is the history.Target of a Document: every raw store mutation,
// whether first applied, undone or redone, flags the batch as changed and
// reaches the listeners.
//
// Listeners hear about an insert once the record is in place, and about a
// delete while the record is still there.
type basis struct {
	d *Document
}

func (b basis) RawInsert(kind level.ObjType, index int, rec level.Record) {
	b.d.didChange = true
	b.d.store.RawInsert(kind, index, rec)
	b.d.bus.Insert(kind, index)
}

func (b basis) RawDelete(kind level.ObjType, index int) level.Record {
	b.d.didChange = true
	b.d.bus.Delete(kind, index)
	return b.d.store.RawDelete(kind, index)
}

func (b basis) RawChange(kind level.ObjType, index int, field level.Field, value int) int {
	b.d.didChange = true
	old := b.d.store.RawChange(kind, index, field, value)
	b.d.bus.Change(kind, index, field)
	return old
}
