package clipboard

import (
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/dshills/mapedit/internal/engine"
	"github.com/dshills/mapedit/internal/engine/level"
	"github.com/dshills/mapedit/internal/engine/notify"
	"github.com/dshills/mapedit/internal/selection"
)

// room builds a square sector at the origin.
func room(t *testing.T, d *engine.Document) {
	t.Helper()
	d.Begin()
	sec := d.NewSector()
	pts := [][2]int{{0, 0}, {64, 0}, {64, 64}, {0, 64}}
	for _, p := range pts {
		d.NewVertex(p[0], p[1])
	}
	for i := range pts {
		L := d.NewLineDef(level.Ref(i), level.Ref((i+1)%4))
		d.ChangeLineDef(L, level.LineRight, d.NewSideDef(level.Ref(sec), false))
	}
	d.End()
}

func setup(t *testing.T) (*engine.Document, *Clipboard) {
	t.Helper()
	d := engine.New()
	c := New()
	d.Subscribe(notify.SlotClipboard, c)
	room(t, d)
	return d, c
}

func sel(kind level.ObjType, items ...int) *selection.Set {
	s := selection.New(kind)
	for _, n := range items {
		s.Set(n)
	}
	return s
}

func TestCopyPasteThings(t *testing.T) {
	d, c := setup(t)
	d.Begin()
	d.NewThing(10, 20)
	d.End()

	assert.Equal(t, nil, c.Copy(d.Store(), sel(level.Things, 0)))
	got, err := c.Paste(d, 100, 0)
	assert.Equal(t, nil, err)
	assert.Equal(t, []int{1}, got)
	assert.Equal(t, 110, d.Store().Thing(1).X)
	assert.Equal(t, 2001, d.Store().Thing(1).Type)

	g, _ := d.History().PeekUndo()
	assert.Equal(t, "pasted 1 thing", g.Message())
}

func TestCopyPasteLines(t *testing.T) {
	d, c := setup(t)
	st := d.Store()

	assert.Equal(t, nil, c.Copy(st, sel(level.LineDefs, 0, 1)))
	got, err := c.Paste(d, 0, 128)
	assert.Equal(t, nil, err)
	assert.Equal(t, []int{4, 5}, got)

	// three shared vertices, two sides on the original sector
	assert.Equal(t, 7, st.Count(level.Vertices))
	assert.Equal(t, 6, st.Count(level.SideDefs))
	assert.Equal(t, 1, st.Count(level.Sectors))
	assert.Equal(t, st.LineDef(4).End, st.LineDef(5).Start)
	assert.Equal(t, level.Ref(0), st.SideDef(int(st.LineDef(5).Right)).Sector)
	assert.Equal(t, 128, st.Vertex(int(st.LineDef(4).Start)).Y)
	assert.Equal(t, nil, d.Validate())
}

func TestCopyPasteSector(t *testing.T) {
	d, c := setup(t)
	st := d.Store()

	assert.Equal(t, nil, c.Copy(st, sel(level.Sectors, 0)))
	got, err := c.Paste(d, 256, 0)
	assert.Equal(t, nil, err)
	assert.Equal(t, []int{1}, got)
	assert.Equal(t, 8, st.Count(level.LineDefs))
	assert.Equal(t, level.Ref(1), st.SideDef(7).Sector)
	assert.Equal(t, nil, d.Validate())

	d.Undo()
	assert.Equal(t, 1, st.Count(level.Sectors))
	assert.Equal(t, 4, st.Count(level.LineDefs))
}

func TestLocalSectorShifts(t *testing.T) {
	d := engine.New()
	room(t, d)

	// not subscribed: notifications are driven by hand
	c := New()
	assert.Equal(t, nil, c.Copy(d.Store(), sel(level.LineDefs, 2)))

	c.NotifyInsert(level.Sectors, 0)
	assert.Equal(t, level.Ref(1), c.sides[0].side.Sector)

	c.NotifyDelete(level.Sectors, 0)
	assert.Equal(t, level.Ref(0), c.sides[0].side.Sector)

	c.NotifyInsert(level.Sectors, 1)
	assert.Equal(t, level.Ref(0), c.sides[0].side.Sector)

	c.NotifyDelete(level.Sectors, 0)
	assert.Equal(t, 1, c.LostSides())
}

func TestLostSectorPaste(t *testing.T) {
	d, c := setup(t)
	st := d.Store()

	assert.Equal(t, nil, c.Copy(st, sel(level.LineDefs, 2)))

	d.Begin()
	d.Delete(level.Sectors, 0)
	d.End()
	assert.Equal(t, 1, c.LostSides())

	_, err := c.Paste(d, 0, 0)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, st.Count(level.Sectors))
	assert.Equal(t, nil, d.Validate())
}

func TestClearLocalsSurvivesClearAll(t *testing.T) {
	d, c := setup(t)
	st := d.Store()
	tex := st.SideDef(0).MidTex

	assert.Equal(t, nil, c.Copy(st, sel(level.LineDefs, 0)))
	d.ClearAll()
	assert.Equal(t, 1, c.LostSides())

	_, err := c.Paste(d, 0, 0)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, st.Count(level.Sectors))
	assert.Equal(t, "GRAY1", d.Lookup(st.SideDef(0).MidTex))
	assert.Equal(t, tex, st.SideDef(0).MidTex)
}

func TestEmpty(t *testing.T) {
	d, c := setup(t)

	_, err := c.Paste(d, 0, 0)
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("Paste() error = %v, want ErrEmpty", err)
	}
	err = c.Copy(d.Store(), sel(level.Things))
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("Copy() error = %v, want ErrEmpty", err)
	}
}
