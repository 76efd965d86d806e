package engine

import (
	"github.com/dshills/mapedit/internal/engine/history"
	"github.com/dshills/mapedit/internal/engine/level"
)

// NewObject appends a blank record of the given kind and returns its index.
func (d *Document) NewObject(kind level.ObjType) int {
	if !kind.Valid() {
		level.Bugf(level.ErrBadObjType, "NewObject: %d", kind)
	}
	index := d.store.Count(kind)
	d.hist.Add(history.NewInsertOperation(kind, index, level.NewRecord(kind)), d.target())
	return index
}

// Delete removes a record together with whatever depends on it.
//
// Dependents are handled first, from the highest index down: deleting a
// sidedef unbinds it from linedefs, deleting a vertex deletes the linedefs
// using it, and deleting a sector deletes its sidedefs. A vertex cascade
// leaves the linedefs' sidedefs in place.
func (d *Document) Delete(kind level.ObjType, index int) {
	d.mustHave("Delete", kind, index)
	if !d.hist.IsOpen() {
		level.Bugf(history.ErrNoTransaction, "Delete called without a previous Begin")
	}

	ref := level.Ref(index)
	switch kind {
	case level.SideDefs:
		for n := len(d.store.LineDefs) - 1; n >= 0; n-- {
			L := d.store.LineDefs[n]
			if L.Right == ref {
				d.ChangeLineDef(n, level.LineRight, int(level.NoRef))
			}
			if L.Left == ref {
				d.ChangeLineDef(n, level.LineLeft, int(level.NoRef))
			}
		}

	case level.Vertices:
		for n := len(d.store.LineDefs) - 1; n >= 0; n-- {
			L := d.store.LineDefs[n]
			if L.Start == ref || L.End == ref {
				d.Delete(level.LineDefs, n)
			}
		}

	case level.Sectors:
		for n := len(d.store.SideDefs) - 1; n >= 0; n-- {
			if d.store.SideDefs[n].Sector == ref {
				d.Delete(level.SideDefs, n)
			}
		}
	}

	d.hist.Add(history.NewDeleteOperation(kind, index), d.target())
}

// Change stores value into one field of a record. It always reports true.
func (d *Document) Change(kind level.ObjType, index int, field level.Field, value int) bool {
	d.hist.Add(history.NewChangeOperation(kind, index, field, value), d.target())
	return true
}

// ChangeThing changes one field of a thing, remembering thing types.
func (d *Document) ChangeThing(n int, field level.Field, value int) bool {
	d.mustHaveField("ChangeThing", level.Things, n, field)
	if field == level.ThingType {
		d.RecentThings.Insert(value)
	}
	return d.Change(level.Things, n, field, value)
}

// ChangeVertex changes one coordinate of a vertex.
func (d *Document) ChangeVertex(n int, field level.Field, value int) bool {
	d.mustHaveField("ChangeVertex", level.Vertices, n, field)
	return d.Change(level.Vertices, n, field, value)
}

// ChangeSector changes one field of a sector, remembering flats.
func (d *Document) ChangeSector(n int, field level.Field, value int) bool {
	d.mustHaveField("ChangeSector", level.Sectors, n, field)
	if field == level.SectorFloorTex || field == level.SectorCeilTex {
		d.RecentFlats.Insert(d.strs.Get(value))
	}
	return d.Change(level.Sectors, n, field, value)
}

// ChangeSideDef changes one field of a sidedef, remembering textures.
func (d *Document) ChangeSideDef(n int, field level.Field, value int) bool {
	d.mustHaveField("ChangeSideDef", level.SideDefs, n, field)
	if field == level.SideLowerTex || field == level.SideUpperTex || field == level.SideMidTex {
		d.RecentTextures.Insert(d.strs.Get(value))
	}
	return d.Change(level.SideDefs, n, field, value)
}

// ChangeLineDef changes one field of a linedef.
func (d *Document) ChangeLineDef(n int, field level.Field, value int) bool {
	d.mustHaveField("ChangeLineDef", level.LineDefs, n, field)
	return d.Change(level.LineDefs, n, field, value)
}

// SetChange dispatches to the typed mutator for kind.
func (d *Document) SetChange(kind level.ObjType, index int, field level.Field, value int) bool {
	switch kind {
	case level.Things:
		return d.ChangeThing(index, field, value)
	case level.Vertices:
		return d.ChangeVertex(index, field, value)
	case level.Sectors:
		return d.ChangeSector(index, field, value)
	case level.SideDefs:
		return d.ChangeSideDef(index, field, value)
	case level.LineDefs:
		return d.ChangeLineDef(index, field, value)
	}
	level.Bugf(level.ErrBadObjType, "SetChange: %d", kind)
	return false
}

// NewThing appends a thing of the default type at (x, y).
func (d *Document) NewThing(x, y int) int {
	n := d.NewObject(level.Things)
	T := d.store.Thing(n)
	T.X, T.Y = x, y
	T.Type = d.cfg.Defaults.Thing
	T.Options = level.MTFEasy | level.MTFMedium | level.MTFHard
	return n
}

// NewVertex appends a vertex at (x, y).
func (d *Document) NewVertex(x, y int) int {
	n := d.NewObject(level.Vertices)
	V := d.store.Vertex(n)
	V.X, V.Y = x, y
	return n
}

// NewSector appends a sector with default heights, flats and light.
func (d *Document) NewSector() int {
	n := d.NewObject(level.Sectors)
	d.SectorDefaults(d.store.Sector(n))
	return n
}

// NewSideDef appends a sidedef facing sec with default textures.
func (d *Document) NewSideDef(sec level.Ref, twoSided bool) int {
	n := d.NewObject(level.SideDefs)
	sd := d.store.SideDef(n)
	d.SideDefDefaults(sd, twoSided, -1)
	sd.Sector = sec
	return n
}

// NewLineDef appends a linedef from start to end with no sides.
func (d *Document) NewLineDef(start, end level.Ref) int {
	n := d.NewObject(level.LineDefs)
	L := d.store.LineDef(n)
	L.Start, L.End = start, end
	return n
}

// SectorDefaults fills a freshly created sector from the configuration.
func (d *Document) SectorDefaults(sec *level.Sector) {
	def := d.cfg.Defaults
	sec.FloorH = def.FloorHeight
	sec.CeilH = def.CeilingHeight
	sec.FloorTex = d.strs.Add(def.FloorTexture)
	sec.CeilTex = d.strs.Add(def.CeilingTexture)
	sec.Light = def.LightLevel
}

// SideDefDefaults fills a freshly created sidedef. tex < 0 selects the
// default wall texture; a two-sided middle is left as "-".
func (d *Document) SideDefDefaults(sd *level.SideDef, twoSided bool, tex int) {
	if tex < 0 {
		tex = d.strs.Add(d.cfg.Defaults.WallTexture)
	}
	sd.LowerTex = tex
	sd.UpperTex = tex
	if twoSided {
		sd.MidTex = d.strs.Add("-")
	} else {
		sd.MidTex = tex
	}
}

func (d *Document) mustHave(op string, kind level.ObjType, index int) {
	if !kind.Valid() {
		level.Bugf(level.ErrBadObjType, "%s: %d", op, kind)
	}
	if !d.store.Has(kind, index) {
		level.Bugf(level.ErrIndexOutOfRange, "%s: %s #%d", op, kind, index)
	}
}

func (d *Document) mustHaveField(op string, kind level.ObjType, index int, field level.Field) {
	d.mustHave(op, kind, index)
	if int(field) >= level.NumFields(kind) {
		level.Bugf(level.ErrBadField, "%s: %s field %d", op, kind, field)
	}
}
