package command

import (
	"io"

	"github.com/golang/glog"

	"github.com/dshills/mapedit/internal/clipboard"
	"github.com/dshills/mapedit/internal/engine"
	"github.com/dshills/mapedit/internal/engine/level"
	"github.com/dshills/mapedit/internal/engine/notify"
	"github.com/dshills/mapedit/internal/mapcache"
	"github.com/dshills/mapedit/internal/replace"
	"github.com/dshills/mapedit/internal/selection"
)

// Session bundles a document with the collaborators commands work on.
type Session struct {
	Doc    *engine.Document
	Sel    *selection.Set
	Clip   *clipboard.Clipboard
	Finder *replace.Finder
	Cache  *mapcache.Cache
	Out    io.Writer

	// Mode is the current edit mode.
	Mode level.ObjType

	Stats *BatchStats

	subs []*notify.Subscription
}

// NewSession creates the collaborators for doc and registers them on its
// bus, one per slot.
func NewSession(doc *engine.Document, out io.Writer) *Session {
	if out == nil {
		out = io.Discard
	}
	s := &Session{
		Doc:   doc,
		Sel:   selection.New(level.Things),
		Clip:  clipboard.New(),
		Cache: mapcache.New(doc.Store()),
		Out:   out,
		Mode:  level.Things,
		Stats: &BatchStats{},
	}
	s.Finder = replace.New(doc, s.Sel)

	s.subs = append(s.subs,
		doc.Subscribe(notify.SlotClipboard, s.Clip),
		doc.Subscribe(notify.SlotSelection, s.Sel),
		doc.Subscribe(notify.SlotMapStuff, s.Cache),
		doc.Subscribe(notify.SlotObjectBox, s.Stats),
	)
	return s
}

// Close unregisters the session's listeners.
func (s *Session) Close() {
	for _, sub := range s.subs {
		sub.Unsubscribe()
	}
	s.subs = nil
}

// SetMode switches edit mode, clearing the selection.
func (s *Session) SetMode(m level.ObjType) {
	s.Mode = m
	s.Sel.ChangeType(m)
}

// Edit runs fn inside the open transaction, or in a new one labelled label.
func (s *Session) Edit(label string, fn func() error) error {
	if s.Doc.InTransaction() {
		return fn()
	}
	return s.Doc.Transaction(label, fn)
}

// BatchStats counts the edits of the last batch.
type BatchStats struct {
	Inserts, Deletes, Changes int
	Batches                   int
}

func (b *BatchStats) NotifyBegin() {
	b.Inserts, b.Deletes, b.Changes = 0, 0, 0
}

func (b *BatchStats) NotifyInsert(level.ObjType, int) { b.Inserts++ }
func (b *BatchStats) NotifyDelete(level.ObjType, int) { b.Deletes++ }

func (b *BatchStats) NotifyChange(level.ObjType, int, level.Field) { b.Changes++ }

func (b *BatchStats) NotifyEnd() {
	b.Batches++
	if b.Inserts+b.Deletes+b.Changes > 0 {
		glog.V(1).Infof("[command]batch %d: %d inserts, %d deletes, %d changes\n",
			b.Batches, b.Inserts, b.Deletes, b.Changes)
	}
}
