package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/dshills/mapedit/internal/config"
	"github.com/dshills/mapedit/internal/engine/history"
	"github.com/dshills/mapedit/internal/engine/level"
	"github.com/dshills/mapedit/internal/engine/notify"
)

// ============================================================================
// Helpers
// ============================================================================

type recorder struct {
	name   string
	events *[]string
}

func (r recorder) log(format string, args ...any) {
	*r.events = append(*r.events, r.name+":"+fmt.Sprintf(format, args...))
}

func (r recorder) NotifyBegin() { r.log("begin") }
func (r recorder) NotifyEnd()   { r.log("end") }

func (r recorder) NotifyInsert(kind level.ObjType, index int) {
	r.log("insert %s %d", kind, index)
}

func (r recorder) NotifyDelete(kind level.ObjType, index int) {
	r.log("delete %s %d", kind, index)
}

func (r recorder) NotifyChange(kind level.ObjType, index int, field level.Field) {
	r.log("change %s %d %s", kind, index, level.FieldName(kind, field))
}

type testHost struct {
	status  []string
	beeps   []string
	redraws int
}

func (h *testHost) Status(msg string) { h.status = append(h.status, msg) }
func (h *testHost) Beep(msg string)   { h.beeps = append(h.beeps, msg) }
func (h *testHost) RedrawMap()        { h.redraws++ }

func expectBug(t *testing.T, want error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic with %v", want)
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, r)
		}
	}()
	fn()
}

// square builds four vertices, a sector, four one-sided linedefs and their
// sidedefs in one committed transaction.
func square(t *testing.T, d *Document) {
	t.Helper()
	d.Begin()
	d.Message("square")
	sec := d.NewSector()
	pts := [][2]int{{0, 0}, {128, 0}, {128, 128}, {0, 128}}
	for _, p := range pts {
		d.NewVertex(p[0], p[1])
	}
	for i := range pts {
		L := d.NewLineDef(level.Ref(i), level.Ref((i+1)%len(pts)))
		sd := d.NewSideDef(level.Ref(sec), false)
		d.ChangeLineDef(L, level.LineRight, sd)
	}
	d.End()
	assert.Equal(t, nil, d.Validate())
}

// ============================================================================
// Transactions
// ============================================================================

func TestNew(t *testing.T) {
	d := New()
	assert.Equal(t, 0, d.Store().Count(level.Things))
	assert.Equal(t, false, d.InTransaction())
	assert.Equal(t, false, d.MadeChanges())
	assert.Equal(t, "", d.Lookup(0))
}

func TestVertexCascadeUndo(t *testing.T) {
	d := New()
	d.Begin()
	d.NewVertex(0, 0)
	d.NewVertex(64, 0)
	d.NewLineDef(0, 1)
	d.End()

	before := d.Checksum()

	d.Begin()
	d.Delete(level.Vertices, 0)
	d.End()

	st := d.Store()
	assert.Equal(t, 1, st.Count(level.Vertices))
	assert.Equal(t, 0, st.Count(level.LineDefs))
	assert.Equal(t, 64, st.Vertex(0).X)

	assert.Equal(t, true, d.Undo())
	assert.Equal(t, 2, st.Count(level.Vertices))
	assert.Equal(t, 1, st.Count(level.LineDefs))
	assert.Equal(t, level.Ref(0), st.LineDef(0).Start)
	assert.Equal(t, level.Ref(1), st.LineDef(0).End)
	assert.Equal(t, before, d.Checksum())
}

func TestUndoRedoSymmetry(t *testing.T) {
	d := New()
	square(t, d)
	s0 := d.Checksum()

	d.Begin()
	d.Message("mangle")
	d.Delete(level.Vertices, 1)
	d.ChangeSector(0, level.SectorFloorH, 32)
	d.Delete(level.SideDefs, 0)
	d.End()
	s1 := d.Checksum()
	assert.NotEqual(t, s0, s1)
	assert.Equal(t, nil, d.Validate())

	assert.Equal(t, true, d.Undo())
	assert.Equal(t, s0, d.Checksum())
	assert.Equal(t, nil, d.Validate())

	assert.Equal(t, true, d.Redo())
	assert.Equal(t, s1, d.Checksum())

	assert.Equal(t, true, d.Undo())
	assert.Equal(t, s0, d.Checksum())
}

func TestSectorCascade(t *testing.T) {
	d := New()
	square(t, d)
	st := d.Store()

	d.Begin()
	d.Delete(level.Sectors, 0)
	d.End()

	assert.Equal(t, 0, st.Count(level.Sectors))
	assert.Equal(t, 0, st.Count(level.SideDefs))
	assert.Equal(t, 4, st.Count(level.LineDefs))
	for _, L := range st.LineDefs {
		assert.Equal(t, level.NoRef, L.Right)
		assert.Equal(t, level.NoRef, L.Left)
	}
	assert.Equal(t, nil, d.Validate())

	d.Undo()
	assert.Equal(t, 4, st.Count(level.SideDefs))
	for i, L := range st.LineDefs {
		assert.Equal(t, level.Ref(i), L.Right)
	}
}

func TestVertexCascadeKeepsSideDefs(t *testing.T) {
	d := New()
	square(t, d)
	st := d.Store()

	d.Begin()
	d.Delete(level.Vertices, 0)
	d.End()

	// lines 0 and 3 touch vertex 0
	assert.Equal(t, 2, st.Count(level.LineDefs))
	assert.Equal(t, 4, st.Count(level.SideDefs))
	assert.Equal(t, 3, st.Count(level.Vertices))
	assert.Equal(t, nil, d.Validate())
}

func TestEmptyTransactionElided(t *testing.T) {
	d := New()
	square(t, d)
	top, _ := d.History().PeekUndo()

	d.Begin()
	d.End()

	assert.Equal(t, 1, d.History().UndoCount())
	got, _ := d.History().PeekUndo()
	assert.Equal(t, top, got)
}

func TestBeginClearsRedo(t *testing.T) {
	d := New()
	square(t, d)
	d.Undo()
	assert.Equal(t, true, d.History().CanRedo())

	d.Begin()
	assert.Equal(t, false, d.History().CanRedo())
	d.End()

	assert.Equal(t, false, d.Redo())
}

func TestAbort(t *testing.T) {
	d := New()
	square(t, d)
	d.MarkSaved()
	sum := d.Checksum()

	d.Begin()
	d.Delete(level.Vertices, 2)
	d.NewThing(10, 10)
	d.Abort(false)

	assert.Equal(t, sum, d.Checksum())
	assert.Equal(t, 1, d.History().UndoCount())
	assert.Equal(t, false, d.MadeChanges())

	d.Begin()
	n := d.NewThing(10, 10)
	d.Abort(true)

	assert.Equal(t, 0, n)
	assert.Equal(t, 1, d.Store().Count(level.Things))
	assert.Equal(t, 1, d.History().UndoCount())
	assert.Equal(t, false, d.MadeChanges())
}

func TestTransaction(t *testing.T) {
	d := New()
	errBoom := errors.New("boom")

	err := d.Transaction("add thing", func() error {
		d.NewThing(0, 0)
		return nil
	})
	assert.Equal(t, nil, err)
	g, _ := d.History().PeekUndo()
	assert.Equal(t, "add thing", g.Message())

	err = d.Transaction("fail", func() error {
		d.NewThing(1, 1)
		return errBoom
	})
	assert.Equal(t, errBoom, err)
	assert.Equal(t, 1, d.Store().Count(level.Things))
}

// ============================================================================
// Notifications
// ============================================================================

func TestNotificationOrder(t *testing.T) {
	var events []string
	d := New()
	d.Subscribe(notify.SlotObjectBox, recorder{"box", &events})
	d.Subscribe(notify.SlotClipboard, recorder{"clip", &events})
	d.Subscribe(notify.SlotSelection, recorder{"sel", &events})

	d.Begin()
	d.NewObject(level.Vertices)
	d.End()

	want := []string{
		"clip:begin", "sel:begin", "box:begin",
		"clip:insert vertex 0", "sel:insert vertex 0", "box:insert vertex 0",
		"clip:end", "sel:end", "box:end",
	}
	assert.Equal(t, want, events)
}

func TestCascadeNotifications(t *testing.T) {
	d := New()
	d.Begin()
	d.NewVertex(0, 0)
	d.NewVertex(1, 0)
	d.NewVertex(2, 0)
	d.NewLineDef(0, 1)
	d.NewLineDef(1, 2)
	sd := d.NewSideDef(0, false)
	d.NewSector()
	d.ChangeLineDef(0, level.LineRight, sd)
	d.ChangeLineDef(1, level.LineLeft, sd)
	d.End()

	var events []string
	d.Subscribe(notify.SlotSelection, recorder{"sel", &events})

	d.Begin()
	d.Delete(level.SideDefs, 0)
	d.Delete(level.Vertices, 1)
	d.End()

	want := []string{
		"sel:begin",
		"sel:change linedef 1 left",
		"sel:change linedef 0 right",
		"sel:delete sidedef 0",
		"sel:delete linedef 1",
		"sel:delete linedef 0",
		"sel:delete vertex 1",
		"sel:end",
	}
	assert.Equal(t, want, events)

	events = events[:0]
	d.Undo()
	assert.Equal(t, "sel:insert vertex 1", events[1])
	assert.Equal(t, "sel:change linedef 1 left", events[len(events)-2])
}

func TestDirtyAndRedraw(t *testing.T) {
	h := &testHost{}
	d := New(WithHost(h))

	d.Begin()
	d.End()
	assert.Equal(t, false, d.MadeChanges())
	assert.Equal(t, 0, h.redraws)

	d.Begin()
	d.NewThing(0, 0)
	d.End()
	assert.Equal(t, true, d.MadeChanges())
	assert.Equal(t, 1, h.redraws)

	d.MarkSaved()
	d.Undo()
	assert.Equal(t, true, d.MadeChanges())
	assert.Equal(t, 2, h.redraws)
}

// ============================================================================
// Messages
// ============================================================================

type fakeSel struct {
	kind  level.ObjType
	items []int
}

func (s fakeSel) Kind() level.ObjType { return s.kind }
func (s fakeSel) Count() int          { return len(s.items) }
func (s fakeSel) First() int {
	if len(s.items) == 0 {
		return -1
	}
	return s.items[0]
}

func TestMessages(t *testing.T) {
	h := &testHost{}
	d := New(WithHost(h))

	d.Begin()
	d.NewThing(0, 0)
	d.End()
	d.Undo()
	assert.Equal(t, "Undo: [something]", h.status[0])
	d.Redo()
	assert.Equal(t, "Redo: [something]", h.status[1])

	d.Begin()
	d.MessageForSel("moved", fakeSel{level.Things, []int{3}}, "")
	assert.Equal(t, "moved thing #3", d.History().Current().Message())
	d.MessageForSel("deleted", fakeSel{level.Vertices, []int{1, 2, 5}}, " (merged)")
	assert.Equal(t, "deleted 3 vertices (merged)", d.History().Current().Message())
	d.MessageForSel("ignored", fakeSel{level.Things, nil}, "")
	assert.Equal(t, "deleted 3 vertices (merged)", d.History().Current().Message())
	d.End()
}

func TestUndoNothingBeeps(t *testing.T) {
	h := &testHost{}
	d := New(WithHost(h))

	assert.Equal(t, false, d.Undo())
	assert.Equal(t, false, d.Redo())
	assert.Equal(t, []string{"No operation to undo", "No operation to redo"}, h.beeps)
}

// ============================================================================
// Contract violations
// ============================================================================

func TestContractPanics(t *testing.T) {
	d := New()
	square(t, d)

	expectBug(t, history.ErrNoTransaction, func() { d.End() })
	expectBug(t, history.ErrNoTransaction, func() { d.Abort(false) })
	expectBug(t, history.ErrNoTransaction, func() { d.NewObject(level.Things) })
	expectBug(t, history.ErrNoTransaction, func() { d.Delete(level.Vertices, 0) })
	expectBug(t, level.ErrIndexOutOfRange, func() { d.ChangeVertex(9, level.VertexX, 1) })
	expectBug(t, level.ErrBadField, func() { d.ChangeVertex(0, level.Field(2), 1) })

	d.Begin()
	expectBug(t, history.ErrNestedTransaction, func() { d.Begin() })
	expectBug(t, ErrTransactionOpen, func() { d.Undo() })
	expectBug(t, ErrTransactionOpen, func() { d.ClearAll() })
	d.End()
}

// ============================================================================
// Clear, recent lists, defaults
// ============================================================================

type clearer struct {
	notify.Funcs
	cleared int
}

func (c *clearer) ClearLocals() { c.cleared++ }

func TestClearAll(t *testing.T) {
	d := New()
	square(t, d)
	d.Store().HeaderData = []byte("MAP01")
	tex := d.Intern("STARTAN3")

	c := &clearer{}
	d.Subscribe(notify.SlotClipboard, c)

	d.ClearAll()

	for _, kind := range level.AllObjTypes {
		assert.Equal(t, 0, d.Store().Count(kind))
	}
	assert.Equal(t, 0, len(d.Store().HeaderData))
	assert.Equal(t, false, d.History().CanUndo())
	assert.Equal(t, "STARTAN3", d.Lookup(tex))
	assert.Equal(t, 1, c.cleared)
}

func TestRecentLists(t *testing.T) {
	d := New()
	square(t, d)

	d.Begin()
	d.NewThing(0, 0)
	d.ChangeThing(0, level.ThingType, 3001)
	d.ChangeSideDef(0, level.SideMidTex, d.Intern("BROWN1"))
	d.ChangeSector(0, level.SectorCeilTex, d.Intern("CEIL5_1"))
	d.End()

	assert.Equal(t, []int{3001}, d.RecentThings.Items())
	assert.Equal(t, []string{"BROWN1"}, d.RecentTextures.Items())
	assert.Equal(t, []string{"CEIL5_1"}, d.RecentFlats.Items())
}

func TestDefaultsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Defaults.CeilingHeight = 256
	cfg.Defaults.WallTexture = "STONE2"
	cfg.Defaults.Thing = 3004
	d := New(WithConfig(cfg), WithMaxUndo(2))

	d.Begin()
	sec := d.NewSector()
	one := d.NewSideDef(level.Ref(sec), false)
	two := d.NewSideDef(level.Ref(sec), true)
	th := d.NewThing(5, 6)
	d.End()

	st := d.Store()
	assert.Equal(t, 256, st.Sector(sec).CeilH)
	assert.Equal(t, 176, st.Sector(sec).Light)
	assert.Equal(t, "FLAT1", d.Lookup(st.Sector(sec).FloorTex))
	assert.Equal(t, "STONE2", d.Lookup(st.SideDef(one).MidTex))
	assert.Equal(t, "-", d.Lookup(st.SideDef(two).MidTex))
	assert.Equal(t, "STONE2", d.Lookup(st.SideDef(two).UpperTex))
	assert.Equal(t, 3004, st.Thing(th).Type)
	assert.Equal(t, 2, d.History().MaxEntries())
}

func TestMaxUndoAgesOut(t *testing.T) {
	d := New(WithMaxUndo(2))
	for i := 0; i < 4; i++ {
		d.Begin()
		d.NewThing(i, i)
		d.End()
	}
	assert.Equal(t, 2, d.History().UndoCount())
	assert.Equal(t, true, d.Undo())
	assert.Equal(t, true, d.Undo())
	assert.Equal(t, false, d.Undo())
	assert.Equal(t, 2, d.Store().Count(level.Things))
}

func TestLoad(t *testing.T) {
	d := New()
	square(t, d)
	assert.Equal(t, true, d.History().CanUndo())

	err := d.Load(func(st *level.Store) error {
		assert.Equal(t, 0, st.Count(level.Vertices))
		st.Vertices = []*level.Vertex{{X: 0, Y: 0}, {X: 64, Y: 0}}
		st.LineDefs = []*level.LineDef{{Start: 0, End: 1, Right: level.NoRef, Left: level.NoRef}}
		return nil
	})
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, d.Store().Count(level.Vertices))
	assert.Equal(t, 1, d.Store().Count(level.LineDefs))
	assert.Equal(t, false, d.History().CanUndo())
	assert.Equal(t, false, d.MadeChanges())

	// a dangling reference is refused and nothing half-loaded is kept
	err = d.Load(func(st *level.Store) error {
		st.LineDefs = []*level.LineDef{{Start: 0, End: 5, Right: level.NoRef, Left: level.NoRef}}
		return nil
	})
	if !errors.Is(err, level.ErrBadReference) {
		t.Fatalf("Load() error = %v, want ErrBadReference", err)
	}
	assert.Equal(t, 0, d.Store().Count(level.LineDefs))
	assert.Equal(t, nil, d.Validate())
}

func TestCheckValue(t *testing.T) {
	d := New()
	square(t, d)
	st := d.Store()
	nv, ns := st.Count(level.Vertices), st.Count(level.SideDefs)

	ok := []struct {
		kind  level.ObjType
		field level.Field
		value int
	}{
		{level.LineDefs, level.LineStart, nv - 1},
		{level.LineDefs, level.LineRight, ns - 1},
		{level.LineDefs, level.LineLeft, int(level.NoRef)},
		{level.SideDefs, level.SideSector, 0},
		{level.SideDefs, level.SideMidTex, d.Intern("BROWN1")},
		{level.Things, level.ThingX, -5000},
	}
	for _, c := range ok {
		assert.Equal(t, nil, d.CheckValue(c.kind, c.field, c.value))
	}

	bad := []struct {
		kind  level.ObjType
		field level.Field
		value int
	}{
		{level.LineDefs, level.LineStart, nv},
		{level.LineDefs, level.LineEnd, int(level.NoRef)},
		{level.LineDefs, level.LineLeft, ns},
		{level.SideDefs, level.SideSector, 7},
		{level.SideDefs, level.SideSector, int(level.NoRef)},
	}
	for _, c := range bad {
		err := d.CheckValue(c.kind, c.field, c.value)
		if !errors.Is(err, level.ErrBadReference) {
			t.Errorf("CheckValue(%s, %d, %d) = %v, want ErrBadReference", c.kind, c.field, c.value, err)
		}
	}

	if err := d.CheckValue(level.Sectors, level.SectorFloorTex, d.Strings().Len()); err == nil {
		t.Error("CheckValue accepted a string offset past the table")
	}
}
