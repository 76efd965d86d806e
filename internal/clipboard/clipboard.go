// Package clipboard copies map objects out of a document and pastes them back.
//
// Copied linedefs keep their sidedefs' sectors as references into the
// document ("local" references) unless the sectors themselves were copied.
// The clipboard listens on the document bus so those references follow
// sector inserts and deletes; a reference to a deleted sector becomes lost,
// and lost sides are pasted onto a single fresh sector.
//
// Texture names are kept as intern offsets, which stay valid because the
// document never clears its intern table.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/golang/glog"

	"github.com/dshills/mapedit/internal/engine"
	"github.com/dshills/mapedit/internal/engine/level"
)

// ErrEmpty is returned when there is nothing to copy or paste.
var ErrEmpty = errors.New("clipboard is empty")

// Source is a set of objects to copy.
type Source interface {
	Kind() level.ObjType
	Items() []int
}

type clipSide struct {
	side level.SideDef

	// local sides refer to a document sector, or NoRef once it is lost;
	// others index Clipboard.sectors.
	local bool
}

// Clipboard holds copied objects.
type Clipboard struct {
	kind  level.ObjType
	count int

	things  []level.Thing
	verts   []level.Vertex
	sectors []level.Sector
	sides   []clipSide
	lines   []level.LineDef
}

// New creates an empty clipboard.
func New() *Clipboard {
	return &Clipboard{}
}

// Empty reports whether nothing has been copied.
func (c *Clipboard) Empty() bool {
	return c.count == 0
}

// Kind returns the kind of the copied objects.
func (c *Clipboard) Kind() level.ObjType {
	return c.kind
}

// Count returns the number of copied objects of the primary kind.
func (c *Clipboard) Count() int {
	return c.count
}

// Reset empties the clipboard.
func (c *Clipboard) Reset() {
	*c = Clipboard{}
}

// Copy replaces the clipboard contents with the objects in src.
func (c *Clipboard) Copy(st *level.Store, src Source) error {
	items := src.Items()
	if len(items) == 0 {
		return ErrEmpty
	}

	c.Reset()
	c.kind = src.Kind()
	c.count = len(items)

	switch c.kind {
	case level.Things:
		for _, n := range items {
			c.things = append(c.things, *st.Thing(n))
		}

	case level.Vertices:
		for _, n := range items {
			c.verts = append(c.verts, *st.Vertex(n))
		}

	case level.LineDefs:
		c.copyLines(st, items, nil)

	case level.Sectors:
		secMap := make(map[level.Ref]level.Ref)
		for _, n := range items {
			secMap[level.Ref(n)] = level.Ref(len(c.sectors))
			c.sectors = append(c.sectors, *st.Sector(n))
		}
		var lines []int
		for n := range st.LineDefs {
			for _, sec := range items {
				if st.TouchesSector(n, level.Ref(sec)) {
					lines = append(lines, n)
					break
				}
			}
		}
		c.copyLines(st, lines, secMap)

	default:
		c.Reset()
		return fmt.Errorf("copy %s: %w", src.Kind(), level.ErrBadObjType)
	}

	glog.V(2).Infof("[clipboard]copied %d %s\n", c.count, c.kind.Name(true))
	return nil
}

// copyLines copies linedefs with their vertices and sidedefs. Sides facing
// a sector in secMap are bound to the copied sector.
func (c *Clipboard) copyLines(st *level.Store, lines []int, secMap map[level.Ref]level.Ref) {
	vertMap := make(map[level.Ref]level.Ref)
	sideMap := make(map[level.Ref]level.Ref)

	vert := func(v level.Ref) level.Ref {
		if nv, ok := vertMap[v]; ok {
			return nv
		}
		nv := level.Ref(len(c.verts))
		c.verts = append(c.verts, *st.Vertex(int(v)))
		vertMap[v] = nv
		return nv
	}
	side := func(sd level.Ref) level.Ref {
		if !sd.IsSet() {
			return level.NoRef
		}
		if ns, ok := sideMap[sd]; ok {
			return ns
		}
		cs := clipSide{side: *st.SideDef(int(sd)), local: true}
		if sec, ok := secMap[cs.side.Sector]; ok {
			cs.side.Sector = sec
			cs.local = false
		}
		ns := level.Ref(len(c.sides))
		c.sides = append(c.sides, cs)
		sideMap[sd] = ns
		return ns
	}

	for _, n := range lines {
		L := *st.LineDef(n)
		L.Start = vert(L.Start)
		L.End = vert(L.End)
		L.Right = side(L.Right)
		L.Left = side(L.Left)
		c.lines = append(c.lines, L)
	}
}

// Paste inserts the clipboard contents offset by (dx, dy) in one
// transaction and returns the new indices of the primary kind.
func (c *Clipboard) Paste(doc *engine.Document, dx, dy int) ([]int, error) {
	if c.Empty() {
		return nil, ErrEmpty
	}

	var created []int
	label := fmt.Sprintf("pasted %d %s", c.count, c.kind.Name(c.count != 1))
	err := doc.Transaction(label, func() error {
		st := doc.Store()
		switch c.kind {
		case level.Things:
			for _, T := range c.things {
				n := doc.NewObject(level.Things)
				rec := st.Thing(n)
				*rec = T
				rec.X += dx
				rec.Y += dy
				created = append(created, n)
			}

		case level.Vertices:
			for _, V := range c.verts {
				created = append(created, doc.NewVertex(V.X+dx, V.Y+dy))
			}

		case level.LineDefs, level.Sectors:
			secs, lines := c.pasteLines(doc, dx, dy)
			if c.kind == level.Sectors {
				created = secs
			} else {
				created = lines
			}
		}
		return nil
	})
	return created, err
}

func (c *Clipboard) pasteLines(doc *engine.Document, dx, dy int) (secs, lines []int) {
	st := doc.Store()

	verts := make([]level.Ref, len(c.verts))
	for i, V := range c.verts {
		verts[i] = level.Ref(doc.NewVertex(V.X+dx, V.Y+dy))
	}

	for _, S := range c.sectors {
		n := doc.NewObject(level.Sectors)
		*st.Sector(n) = S
		secs = append(secs, n)
	}

	lost := level.NoRef
	sides := make([]level.Ref, len(c.sides))
	for i, cs := range c.sides {
		sec := cs.side.Sector
		switch {
		case !cs.local:
			sec = level.Ref(secs[sec])
		case !sec.IsSet():
			if !lost.IsSet() {
				lost = level.Ref(doc.NewSector())
			}
			sec = lost
		}
		n := doc.NewObject(level.SideDefs)
		rec := st.SideDef(n)
		*rec = cs.side
		rec.Sector = sec
		sides[i] = level.Ref(n)
	}

	mapSide := func(r level.Ref) level.Ref {
		if !r.IsSet() {
			return level.NoRef
		}
		return sides[r]
	}

	for _, L := range c.lines {
		n := doc.NewObject(level.LineDefs)
		rec := st.LineDef(n)
		*rec = L
		rec.Start = verts[L.Start]
		rec.End = verts[L.End]
		rec.Right = mapSide(L.Right)
		rec.Left = mapSide(L.Left)
		lines = append(lines, n)
	}
	return secs, lines
}

// LostSides returns how many copied sides no longer have a sector.
func (c *Clipboard) LostSides() int {
	lost := 0
	for _, cs := range c.sides {
		if cs.local && !cs.side.Sector.IsSet() {
			lost++
		}
	}
	return lost
}

func (c *Clipboard) NotifyBegin() {}
func (c *Clipboard) NotifyEnd()   {}

func (c *Clipboard) NotifyInsert(kind level.ObjType, index int) {
	if kind != level.Sectors {
		return
	}
	at := level.Ref(index)
	for i := range c.sides {
		cs := &c.sides[i]
		if cs.local && cs.side.Sector.IsSet() && cs.side.Sector >= at {
			cs.side.Sector++
		}
	}
}

func (c *Clipboard) NotifyDelete(kind level.ObjType, index int) {
	if kind != level.Sectors {
		return
	}
	at := level.Ref(index)
	for i := range c.sides {
		cs := &c.sides[i]
		if !cs.local || !cs.side.Sector.IsSet() {
			continue
		}
		switch {
		case cs.side.Sector == at:
			cs.side.Sector = level.NoRef
		case cs.side.Sector > at:
			cs.side.Sector--
		}
	}
}

func (c *Clipboard) NotifyChange(level.ObjType, int, level.Field) {}

// ClearLocals marks every document sector reference lost. Called when the
// document is cleared while the clipboard survives.
func (c *Clipboard) ClearLocals() {
	for i := range c.sides {
		if c.sides[i].local {
			c.sides[i].side.Sector = level.NoRef
		}
	}
}
