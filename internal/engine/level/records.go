package level

import (
	"math"
	"strings"
)

// Field addresses one scalar of a record. Ids restart at zero for each kind.
type Field uint8

// Thing fields.
const (
	ThingX Field = iota
	ThingY
	ThingAngle
	ThingType
	ThingOptions
	ThingZ
	ThingTID
	ThingSpecial
	ThingArg1
	ThingArg2
	ThingArg3
	ThingArg4
	ThingArg5
)

// Vertex fields.
const (
	VertexX Field = iota
	VertexY
)

// Sector fields.
const (
	SectorFloorH Field = iota
	SectorCeilH
	SectorFloorTex
	SectorCeilTex
	SectorLight
	SectorType
	SectorTag
)

// SideDef fields.
const (
	SideXOffset Field = iota
	SideYOffset
	SideUpperTex
	SideLowerTex
	SideMidTex
	SideSector
)

// LineDef fields.
const (
	LineStart Field = iota
	LineEnd
	LineRight
	LineLeft
	LineFlags
	LineType
	LineTag
	LineArg2
	LineArg3
	LineArg4
	LineArg5
)

// Thing option flags.
const (
	MTFEasy    = 1
	MTFMedium  = 2
	MTFHard    = 4
	MTFAmbush  = 8
	MTFNotSP   = 16
	MTFNotDM   = 32
	MTFNotCoop = 64
)

// Sides of a linedef.
const (
	SideRight = 1
	SideLeft  = -1
)

var fieldNames = [numObjTypes][]string{
	Things:   {"x", "y", "angle", "type", "options", "z", "tid", "special", "arg1", "arg2", "arg3", "arg4", "arg5"},
	LineDefs: {"start", "end", "right", "left", "flags", "type", "tag", "arg2", "arg3", "arg4", "arg5"},
	SideDefs: {"xoff", "yoff", "upper", "lower", "mid", "sector"},
	Vertices: {"x", "y"},
	Sectors:  {"floorh", "ceilh", "floortex", "ceiltex", "light", "type", "tag"},
}

// NumFields returns how many fields a record of the given kind has.
func NumFields(kind ObjType) int {
	if !kind.Valid() {
		return 0
	}
	return len(fieldNames[kind])
}

// FieldName returns the short name of a field, or "" if it does not exist.
func FieldName(kind ObjType, f Field) string {
	if int(f) >= NumFields(kind) {
		return ""
	}
	return fieldNames[kind][f]
}

// ParseField looks up a field by its short name.
func ParseField(kind ObjType, name string) (Field, bool) {
	if !kind.Valid() {
		return 0, false
	}
	name = strings.ToLower(name)
	for i, n := range fieldNames[kind] {
		if n == name {
			return Field(i), true
		}
	}
	return 0, false
}

// IsTextureField reports whether the field holds an interned texture or flat name.
func IsTextureField(kind ObjType, f Field) bool {
	switch kind {
	case Sectors:
		return f == SectorFloorTex || f == SectorCeilTex
	case SideDefs:
		return f == SideUpperTex || f == SideLowerTex || f == SideMidTex
	}
	return false
}

// RefTarget reports which kind a reference field points at. optional is set
// when the field may hold NoRef.
func RefTarget(kind ObjType, f Field) (target ObjType, optional, ok bool) {
	switch kind {
	case LineDefs:
		switch f {
		case LineStart, LineEnd:
			return Vertices, false, true
		case LineRight, LineLeft:
			return SideDefs, true, true
		}
	case SideDefs:
		if f == SideSector {
			return Sectors, false, true
		}
	}
	return 0, false, false
}

// Record is implemented by the five record types.
type Record interface {
	Kind() ObjType
	Get(f Field) int
	Set(f Field, v int)
}

// NewRecord returns a blank record of the given kind. Linedef sides start absent.
func NewRecord(kind ObjType) Record {
	switch kind {
	case Things:
		return &Thing{}
	case Vertices:
		return &Vertex{}
	case Sectors:
		return &Sector{}
	case SideDefs:
		return &SideDef{}
	case LineDefs:
		return &LineDef{Right: NoRef, Left: NoRef}
	}
	Bugf(ErrBadObjType, "NewRecord: %d", kind)
	return nil
}

func badField(kind ObjType, f Field) {
	Bugf(ErrBadField, "%s field %d", kind, f)
}

// Thing is a map object: monster, item, player start.
type Thing struct {
	X, Y    int
	Angle   int
	Type    int
	Options int

	// Hexen extensions
	Z       int
	TID     int
	Special int
	Arg1    int
	Arg2    int
	Arg3    int
	Arg4    int
	Arg5    int
}

func (t *Thing) Kind() ObjType { return Things }

func (t *Thing) field(f Field) *int {
	switch f {
	case ThingX:
		return &t.X
	case ThingY:
		return &t.Y
	case ThingAngle:
		return &t.Angle
	case ThingType:
		return &t.Type
	case ThingOptions:
		return &t.Options
	case ThingZ:
		return &t.Z
	case ThingTID:
		return &t.TID
	case ThingSpecial:
		return &t.Special
	case ThingArg1:
		return &t.Arg1
	case ThingArg2:
		return &t.Arg2
	case ThingArg3:
		return &t.Arg3
	case ThingArg4:
		return &t.Arg4
	case ThingArg5:
		return &t.Arg5
	}
	badField(Things, f)
	return nil
}

func (t *Thing) Get(f Field) int    { return *t.field(f) }
func (t *Thing) Set(f Field, v int) { *t.field(f) = v }

// Vertex is a point in map space.
type Vertex struct {
	X, Y int
}

func (v *Vertex) Kind() ObjType { return Vertices }

func (v *Vertex) Get(f Field) int {
	switch f {
	case VertexX:
		return v.X
	case VertexY:
		return v.Y
	}
	badField(Vertices, f)
	return 0
}

func (v *Vertex) Set(f Field, val int) {
	switch f {
	case VertexX:
		v.X = val
	case VertexY:
		v.Y = val
	default:
		badField(Vertices, f)
	}
}

// Sector is an area with floor and ceiling. Textures are intern offsets.
type Sector struct {
	FloorH   int
	CeilH    int
	FloorTex int
	CeilTex  int
	Light    int
	Type     int
	Tag      int
}

func (s *Sector) Kind() ObjType { return Sectors }

func (s *Sector) field(f Field) *int {
	switch f {
	case SectorFloorH:
		return &s.FloorH
	case SectorCeilH:
		return &s.CeilH
	case SectorFloorTex:
		return &s.FloorTex
	case SectorCeilTex:
		return &s.CeilTex
	case SectorLight:
		return &s.Light
	case SectorType:
		return &s.Type
	case SectorTag:
		return &s.Tag
	}
	badField(Sectors, f)
	return nil
}

func (s *Sector) Get(f Field) int    { return *s.field(f) }
func (s *Sector) Set(f Field, v int) { *s.field(f) = v }

// SideDef is one face of a linedef. Textures are intern offsets.
type SideDef struct {
	XOffset  int
	YOffset  int
	UpperTex int
	LowerTex int
	MidTex   int
	Sector   Ref
}

func (s *SideDef) Kind() ObjType { return SideDefs }

func (s *SideDef) Get(f Field) int {
	if f == SideSector {
		return int(s.Sector)
	}
	return *s.field(f)
}

func (s *SideDef) Set(f Field, v int) {
	if f == SideSector {
		s.Sector = Ref(v)
		return
	}
	*s.field(f) = v
}

func (s *SideDef) field(f Field) *int {
	switch f {
	case SideXOffset:
		return &s.XOffset
	case SideYOffset:
		return &s.YOffset
	case SideUpperTex:
		return &s.UpperTex
	case SideLowerTex:
		return &s.LowerTex
	case SideMidTex:
		return &s.MidTex
	}
	badField(SideDefs, f)
	return nil
}

// LineDef is a wall between two vertices.
type LineDef struct {
	Start Ref
	End   Ref
	Right Ref
	Left  Ref
	Flags int
	Type  int
	Tag   int // doubles as arg1 in Hexen format
	Arg2  int
	Arg3  int
	Arg4  int
	Arg5  int
}

func (l *LineDef) Kind() ObjType { return LineDefs }

func (l *LineDef) ref(f Field) *Ref {
	switch f {
	case LineStart:
		return &l.Start
	case LineEnd:
		return &l.End
	case LineRight:
		return &l.Right
	case LineLeft:
		return &l.Left
	}
	return nil
}

func (l *LineDef) field(f Field) *int {
	switch f {
	case LineFlags:
		return &l.Flags
	case LineType:
		return &l.Type
	case LineTag:
		return &l.Tag
	case LineArg2:
		return &l.Arg2
	case LineArg3:
		return &l.Arg3
	case LineArg4:
		return &l.Arg4
	case LineArg5:
		return &l.Arg5
	}
	badField(LineDefs, f)
	return nil
}

func (l *LineDef) Get(f Field) int {
	if r := l.ref(f); r != nil {
		return int(*r)
	}
	return *l.field(f)
}

func (l *LineDef) Set(f Field, v int) {
	if r := l.ref(f); r != nil {
		*r = Ref(v)
		return
	}
	*l.field(f) = v
}

// IsOneSided reports whether the line has a right side only.
func (l *LineDef) IsOneSided() bool {
	return l.Right.IsSet() && !l.Left.IsSet()
}

// WhatSideDef returns the sidedef on the given side (SideRight or SideLeft).
func (l *LineDef) WhatSideDef(side int) Ref {
	switch side {
	case SideRight:
		return l.Right
	case SideLeft:
		return l.Left
	}
	Bugf(ErrBadField, "bad side: %d", side)
	return NoRef
}

// Distance returns the Euclidean distance between two vertices.
func Distance(a, b *Vertex) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
