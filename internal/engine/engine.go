package engine

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/google/uuid"

	"github.com/dshills/mapedit/internal/config"
	"github.com/dshills/mapedit/internal/engine/checksum"
	"github.com/dshills/mapedit/internal/engine/history"
	"github.com/dshills/mapedit/internal/engine/level"
	"github.com/dshills/mapedit/internal/engine/notify"
	"github.com/dshills/mapedit/internal/engine/recent"
	"github.com/dshills/mapedit/internal/engine/strtab"
)

// Re-export commonly used types for convenience.
type (
	// ObjType is one of the five record kinds.
	ObjType = level.ObjType

	// Field addresses one scalar of a record.
	Field = level.Field

	// Listener receives edit notifications.
	Listener = notify.Listener

	// Slot fixes the order in which listeners are called.
	Slot = notify.Slot

	// OperationInfo describes one undo or redo group.
	OperationInfo = history.OperationInfo
)

// LocalsClearer is implemented by listeners that hold document-local
// references which must be dropped when the document is cleared.
type LocalsClearer interface {
	ClearLocals()
}

// Selection is the view of a selection set used to label groups.
type Selection interface {
	Kind() level.ObjType
	Count() int
	First() int
}

// Document owns one map: its records, intern table, history and listeners.
type Document struct {
	id uuid.UUID

	store *level.Store
	strs  *strtab.Table
	hist  *history.History
	bus   *notify.Bus
	host  Host
	cfg   config.Config

	maxUndo *int

	// didChange is set by any raw mutation in the current batch.
	didChange   bool
	madeChanges bool

	RecentThings   *recent.List[int]
	RecentTextures *recent.List[string]
	RecentFlats    *recent.List[string]
}

// New creates an empty document.
func New(opts ...Option) *Document {
	d := &Document{
		id:    uuid.New(),
		store: level.NewStore(),
		strs:  strtab.New(),
		bus:   notify.New(),
		host:  nopHost{},
		cfg:   config.Default(),
	}

	for _, opt := range opts {
		opt(d)
	}

	maxUndo := d.cfg.History.MaxUndo
	if d.maxUndo != nil {
		maxUndo = *d.maxUndo
	}
	d.hist = history.NewHistory(maxUndo)

	d.RecentThings = recent.New[int](d.cfg.Recent.Size)
	d.RecentTextures = recent.New[string](d.cfg.Recent.Size)
	d.RecentFlats = recent.New[string](d.cfg.Recent.Size)

	glog.V(2).Infof("[engine]new document %s (max undo %d)\n", d.id, maxUndo)
	return d
}

// ID identifies the document.
func (d *Document) ID() uuid.UUID {
	return d.id
}

// Store returns the geometry store. Mutating it directly bypasses history
// and notification; use it for bulk load and save only.
func (d *Document) Store() *level.Store {
	return d.store
}

// Strings returns the intern table.
func (d *Document) Strings() *strtab.Table {
	return d.strs
}

// History returns the undo history.
func (d *Document) History() *history.History {
	return d.hist
}

// Bus returns the notification bus.
func (d *Document) Bus() *notify.Bus {
	return d.bus
}

// Config returns the configuration the document was created with.
func (d *Document) Config() config.Config {
	return d.cfg
}

// Host returns the feedback collaborator.
func (d *Document) Host() Host {
	return d.host
}

// Subscribe registers a listener in the given slot.
func (d *Document) Subscribe(slot Slot, l Listener) *notify.Subscription {
	return d.bus.Register(slot, l)
}

// Intern returns the offset of a texture or flat name.
func (d *Document) Intern(s string) int {
	return d.strs.Add(s)
}

// InternShort interns at most maxLen bytes of s.
func (d *Document) InternShort(s string, maxLen int) int {
	return d.strs.AddShort(s, maxLen)
}

// Lookup returns the name behind an intern offset.
func (d *Document) Lookup(offset int) string {
	return d.strs.Get(offset)
}

// InTransaction reports whether a transaction is open.
func (d *Document) InTransaction() bool {
	return d.hist.IsOpen()
}

// MadeChanges reports whether any committed batch changed the map since the
// document was created or last marked saved.
func (d *Document) MadeChanges() bool {
	return d.madeChanges
}

// MarkSaved clears the dirty flag.
func (d *Document) MarkSaved() {
	d.madeChanges = false
}

func (d *Document) target() history.Target {
	return basis{d: d}
}

func (d *Document) beginBatch() {
	d.didChange = false
	d.bus.Begin()
}

func (d *Document) endBatch() {
	if d.didChange {
		d.madeChanges = true
		d.host.RedrawMap()
	}
	d.bus.End()
}

// Begin opens a transaction. Any redo state is discarded.
func (d *Document) Begin() {
	d.hist.Begin()
	d.beginBatch()
}

// End closes the transaction and records it for undo unless it is empty.
func (d *Document) End() {
	g := d.hist.End()
	if g != nil {
		glog.V(2).Infof("[engine]commit %q (%d ops)\n", g.Message(), g.Len())
	}
	d.endBatch()
}

// Abort closes the transaction without recording it. Unless keepChanges is
// set its edits are rolled back first. Kept edits stay applied but cannot be
// undone, and an aborted batch never marks the document dirty.
func (d *Document) Abort(keepChanges bool) {
	glog.V(2).Infof("[engine]abort (keep %v)\n", keepChanges)
	d.hist.Abort(keepChanges, d.target())
	d.didChange = false
	d.endBatch()
}

// Message sets the label of the open transaction.
func (d *Document) Message(format string, args ...any) {
	g := d.hist.Current()
	if g == nil {
		level.Bugf(history.ErrNoTransaction, "Message called without a previous Begin")
	}
	g.SetMessage(fmt.Sprintf(format, args...))
}

// MessageForSel labels the open transaction after a selection, giving
// "moved thing #3" for one object or "moved 3 things" for several.
// An empty selection leaves the label alone.
func (d *Document) MessageForSel(verb string, sel Selection, suffix string) {
	total := sel.Count()
	if total < 1 {
		return
	}
	if total == 1 {
		d.Message("%s %s #%d%s", verb, sel.Kind().Name(false), sel.First(), suffix)
		return
	}
	d.Message("%s %d %s%s", verb, total, sel.Kind().Name(true), suffix)
}

// Transaction runs fn between Begin and End, labelled msg. If fn returns an
// error the transaction is rolled back and the error returned.
func (d *Document) Transaction(msg string, fn func() error) error {
	d.Begin()
	if msg != "" {
		d.Message("%s", msg)
	}
	if err := fn(); err != nil {
		d.Abort(false)
		return err
	}
	d.End()
	return nil
}

// Undo reverts the most recent transaction. It returns false, and beeps,
// when there is nothing to undo.
func (d *Document) Undo() bool {
	d.mustBeClosed("Undo")

	g, ok := d.hist.PeekUndo()
	if !ok {
		d.host.Beep("No operation to undo")
		return false
	}

	d.beginBatch()
	d.host.Status("Undo: " + g.Message())
	glog.V(2).Infof("[engine]undo %q\n", g.Message())
	if _, err := d.hist.Undo(d.target()); err != nil {
		level.Bugf(err, "Undo")
	}
	d.endBatch()
	return true
}

// Redo re-applies the most recently undone transaction. It returns false,
// and beeps, when there is nothing to redo.
func (d *Document) Redo() bool {
	d.mustBeClosed("Redo")

	g, ok := d.hist.PeekRedo()
	if !ok {
		d.host.Beep("No operation to redo")
		return false
	}

	d.beginBatch()
	d.host.Status("Redo: " + g.Message())
	glog.V(2).Infof("[engine]redo %q\n", g.Message())
	if _, err := d.hist.Redo(d.target()); err != nil {
		level.Bugf(err, "Redo")
	}
	d.endBatch()
	return true
}

// ClearAll empties the map and both history stacks. The intern table is
// kept, since clipboards may still hold offsets into it; their references
// to this document's records are dropped through ClearLocals.
func (d *Document) ClearAll() {
	d.mustBeClosed("ClearAll")

	d.store.Clear()
	d.hist.Clear()

	d.bus.Each(func(l notify.Listener) {
		if c, ok := l.(LocalsClearer); ok {
			c.ClearLocals()
		}
	})

	glog.V(2).Infof("[engine]cleared document %s\n", d.id)
}

// Load replaces the map with the records filled in by fill, which receives
// an empty store. History is cleared first. If fill fails, or leaves a
// dangling reference, the document is left empty.
func (d *Document) Load(fill func(st *level.Store) error) error {
	d.ClearAll()

	fresh := level.NewStore()
	if err := fill(fresh); err != nil {
		return err
	}
	if err := fresh.Check(); err != nil {
		return err
	}
	*d.store = *fresh
	d.MarkSaved()

	glog.V(2).Infof("[engine]loaded document %s\n", d.id)
	return nil
}

// CheckValue reports whether value may be stored in a field without
// breaking a reference or naming an unknown string.
func (d *Document) CheckValue(kind level.ObjType, field level.Field, value int) error {
	if level.IsTextureField(kind, field) {
		if value < 0 || value >= d.strs.Len() {
			return fmt.Errorf("%s %s: bad string offset %d", kind.Name(false), level.FieldName(kind, field), value)
		}
		return nil
	}
	return d.store.CheckRef(kind, field, value)
}

// Checksum returns the content hash of the map.
func (d *Document) Checksum() uint64 {
	return checksum.Of(d.store, d.strs)
}

// Validate checks that every reference addresses a live record.
func (d *Document) Validate() error {
	return d.store.Check()
}

func (d *Document) mustBeClosed(op string) {
	if d.hist.IsOpen() {
		level.Bugf(ErrTransactionOpen, "%s called between Begin and End", op)
	}
}
