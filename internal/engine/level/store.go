package level

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Store is the single source of truth for map geometry.
//
// The arrays are exported for bulk load and save. Everything else should go
// through the raw primitives so reference fields stay consistent.
type Store struct {
	Things   []*Thing
	Vertices []*Vertex
	Sectors  []*Sector
	SideDefs []*SideDef
	LineDefs []*LineDef

	HeaderData   []byte
	BehaviorData []byte
	ScriptsData  []byte
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Count returns the number of live records of a kind.
func (s *Store) Count(kind ObjType) int {
	switch kind {
	case Things:
		return len(s.Things)
	case Vertices:
		return len(s.Vertices)
	case Sectors:
		return len(s.Sectors)
	case SideDefs:
		return len(s.SideDefs)
	case LineDefs:
		return len(s.LineDefs)
	}
	Bugf(ErrBadObjType, "Count: %d", kind)
	return 0
}

// Has reports whether index addresses a live record of the kind.
func (s *Store) Has(kind ObjType, index int) bool {
	return index >= 0 && index < s.Count(kind)
}

// Get returns the record at index.
func (s *Store) Get(kind ObjType, index int) Record {
	s.mustHave("Get", kind, index)
	switch kind {
	case Things:
		return s.Things[index]
	case Vertices:
		return s.Vertices[index]
	case Sectors:
		return s.Sectors[index]
	case SideDefs:
		return s.SideDefs[index]
	default:
		return s.LineDefs[index]
	}
}

// Thing returns thing n.
func (s *Store) Thing(n int) *Thing {
	s.mustHave("Thing", Things, n)
	return s.Things[n]
}

// Vertex returns vertex n.
func (s *Store) Vertex(n int) *Vertex {
	s.mustHave("Vertex", Vertices, n)
	return s.Vertices[n]
}

// Sector returns sector n.
func (s *Store) Sector(n int) *Sector {
	s.mustHave("Sector", Sectors, n)
	return s.Sectors[n]
}

// SideDef returns sidedef n.
func (s *Store) SideDef(n int) *SideDef {
	s.mustHave("SideDef", SideDefs, n)
	return s.SideDefs[n]
}

// LineDef returns linedef n.
func (s *Store) LineDef(n int) *LineDef {
	s.mustHave("LineDef", LineDefs, n)
	return s.LineDefs[n]
}

func (s *Store) mustHave(op string, kind ObjType, index int) {
	if !s.Has(kind, index) {
		Bugf(ErrIndexOutOfRange, "%s: %s #%d (count %d)", op, kind, index, s.Count(kind))
	}
}

// RawInsert places rec at index, shifting later records up by one, then
// bumps every reference to this kind that is >= index.
func (s *Store) RawInsert(kind ObjType, index int, rec Record) {
	if index < 0 || index > s.Count(kind) {
		Bugf(ErrIndexOutOfRange, "RawInsert: %s #%d (count %d)", kind, index, s.Count(kind))
	}
	if rec == nil || rec.Kind() != kind {
		Bugf(ErrKindMismatch, "RawInsert: %s #%d", kind, index)
	}

	switch kind {
	case Things:
		s.Things = slices.Insert(s.Things, index, rec.(*Thing))

	case LineDefs:
		s.LineDefs = slices.Insert(s.LineDefs, index, rec.(*LineDef))

	case Vertices:
		s.Vertices = slices.Insert(s.Vertices, index, rec.(*Vertex))
		// appended at the end: nothing can refer to it yet
		if index+1 < len(s.Vertices) {
			at := Ref(index)
			for _, L := range s.LineDefs {
				shiftUp(&L.Start, at)
				shiftUp(&L.End, at)
			}
		}

	case SideDefs:
		s.SideDefs = slices.Insert(s.SideDefs, index, rec.(*SideDef))
		if index+1 < len(s.SideDefs) {
			at := Ref(index)
			for _, L := range s.LineDefs {
				shiftUp(&L.Right, at)
				shiftUp(&L.Left, at)
			}
		}

	case Sectors:
		s.Sectors = slices.Insert(s.Sectors, index, rec.(*Sector))
		if index+1 < len(s.Sectors) {
			at := Ref(index)
			for _, S := range s.SideDefs {
				shiftUp(&S.Sector, at)
			}
		}
	}
}

// RawDelete removes and returns the record at index, shifting later records
// down, then lowers every reference to this kind that is > index.
func (s *Store) RawDelete(kind ObjType, index int) Record {
	s.mustHave("RawDelete", kind, index)

	switch kind {
	case Things:
		rec := s.Things[index]
		s.Things = remove(s.Things, index)
		return rec

	case LineDefs:
		rec := s.LineDefs[index]
		s.LineDefs = remove(s.LineDefs, index)
		return rec

	case Vertices:
		rec := s.Vertices[index]
		s.Vertices = remove(s.Vertices, index)
		if index < len(s.Vertices) {
			at := Ref(index)
			for _, L := range s.LineDefs {
				shiftDown(&L.Start, at)
				shiftDown(&L.End, at)
			}
		}
		return rec

	case SideDefs:
		rec := s.SideDefs[index]
		s.SideDefs = remove(s.SideDefs, index)
		if index < len(s.SideDefs) {
			at := Ref(index)
			for _, L := range s.LineDefs {
				shiftDown(&L.Right, at)
				shiftDown(&L.Left, at)
			}
		}
		return rec

	default:
		rec := s.Sectors[index]
		s.Sectors = remove(s.Sectors, index)
		if index < len(s.Sectors) {
			at := Ref(index)
			for _, S := range s.SideDefs {
				shiftDown(&S.Sector, at)
			}
		}
		return rec
	}
}

// RawChange stores value into one field and returns the previous value.
func (s *Store) RawChange(kind ObjType, index int, field Field, value int) int {
	rec := s.Get(kind, index)
	if int(field) >= NumFields(kind) {
		badField(kind, field)
	}
	old := rec.Get(field)
	rec.Set(field, value)
	return old
}

// Clear drops every record and the three byte blobs.
func (s *Store) Clear() {
	s.Things = nil
	s.Vertices = nil
	s.Sectors = nil
	s.SideDefs = nil
	s.LineDefs = nil

	s.HeaderData = nil
	s.BehaviorData = nil
	s.ScriptsData = nil
}

// Check verifies that every reference addresses a live record.
func (s *Store) Check() error {
	nv, ns, nsec := len(s.Vertices), len(s.SideDefs), len(s.Sectors)
	for i, L := range s.LineDefs {
		if !L.Start.IsSet() || !L.Start.Valid(nv) {
			return fmt.Errorf("linedef #%d start %d: %w", i, L.Start, ErrBadReference)
		}
		if !L.End.IsSet() || !L.End.Valid(nv) {
			return fmt.Errorf("linedef #%d end %d: %w", i, L.End, ErrBadReference)
		}
		if !L.Right.Valid(ns) {
			return fmt.Errorf("linedef #%d right %d: %w", i, L.Right, ErrBadReference)
		}
		if !L.Left.Valid(ns) {
			return fmt.Errorf("linedef #%d left %d: %w", i, L.Left, ErrBadReference)
		}
	}
	for i, S := range s.SideDefs {
		if !S.Sector.IsSet() || !S.Sector.Valid(nsec) {
			return fmt.Errorf("sidedef #%d sector %d: %w", i, S.Sector, ErrBadReference)
		}
	}
	return nil
}

// CheckRef reports whether v may be stored in a field of the kind without
// leaving a dangling reference. Non-reference fields accept any value.
func (s *Store) CheckRef(kind ObjType, f Field, v int) error {
	target, optional, ok := RefTarget(kind, f)
	if !ok {
		return nil
	}
	if optional && Ref(v) == NoRef {
		return nil
	}
	if !s.Has(target, v) {
		return fmt.Errorf("%s %s %d: no %s #%d: %w", kind.Name(false), FieldName(kind, f), v, target.Name(false), v, ErrBadReference)
	}
	return nil
}

// TouchesSector reports whether either side of line n faces sector sec.
func (s *Store) TouchesSector(n int, sec Ref) bool {
	L := s.LineDef(n)
	if L.Right.IsSet() && s.SideDef(int(L.Right)).Sector == sec {
		return true
	}
	if L.Left.IsSet() && s.SideDef(int(L.Left)).Sector == sec {
		return true
	}
	return false
}

// WhatSector returns the sector on one side of line n, or NoRef.
func (s *Store) WhatSector(n int, side int) Ref {
	sd := s.LineDef(n).WhatSideDef(side)
	if !sd.IsSet() {
		return NoRef
	}
	return s.SideDef(int(sd)).Sector
}

// LineLength returns the length of line n.
func (s *Store) LineLength(n int) float64 {
	L := s.LineDef(n)
	return Distance(s.Vertex(int(L.Start)), s.Vertex(int(L.End)))
}

func remove[T any](arr []*T, index int) []*T {
	arr = slices.Delete(arr, index, index+1)
	// drop the stale tail pointer left by Delete
	tail := arr[len(arr):cap(arr)]
	if len(tail) > 0 {
		tail[0] = nil
	}
	return arr
}
