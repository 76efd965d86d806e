package level

import (
	"errors"
	"reflect"
	"testing"

	"github.com/go-playground/assert/v2"
)

// newSquare builds four vertices, four one-sided lines, four sidedefs and
// one sector, plus a thing in the middle.
func newSquare() *Store {
	s := NewStore()
	s.Vertices = []*Vertex{{0, 0}, {64, 0}, {64, 64}, {0, 64}}
	s.Sectors = []*Sector{{FloorH: 0, CeilH: 128, Light: 160}}
	for i := 0; i < 4; i++ {
		s.SideDefs = append(s.SideDefs, &SideDef{Sector: 0})
		s.LineDefs = append(s.LineDefs, &LineDef{
			Start: Ref(i),
			End:   Ref((i + 1) % 4),
			Right: Ref(i),
			Left:  NoRef,
		})
	}
	s.Things = []*Thing{{X: 32, Y: 32, Type: 1}}
	return s
}

// snapshot deep-copies the record values for comparison.
func snapshot(s *Store) []any {
	var out []any
	for _, t := range s.Things {
		out = append(out, *t)
	}
	for _, v := range s.Vertices {
		out = append(out, *v)
	}
	for _, sec := range s.Sectors {
		out = append(out, *sec)
	}
	for _, sd := range s.SideDefs {
		out = append(out, *sd)
	}
	for _, L := range s.LineDefs {
		out = append(out, *L)
	}
	return out
}

func expectBug(t *testing.T, want error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic with %v", want)
		}
		err, ok := r.(*BugError)
		if !ok {
			t.Fatalf("panic value %T, want *BugError", r)
		}
		if !errors.Is(err, want) {
			t.Errorf("panic %v, want %v", err, want)
		}
	}()
	fn()
}

func TestRawInsertDeleteRoundTrip(t *testing.T) {
	for _, kind := range AllObjTypes {
		for _, index := range []int{0, 1} {
			s := newSquare()
			before := snapshot(s)

			s.RawInsert(kind, index, NewRecord(kind))
			if err := s.Check(); err != nil && kind != SideDefs && kind != LineDefs {
				t.Errorf("%s insert at %d broke refs: %v", kind, index, err)
			}
			s.RawDelete(kind, index)

			if got := snapshot(s); !reflect.DeepEqual(got, before) {
				t.Errorf("%s round trip at %d changed the store", kind, index)
			}
		}
	}
}

func TestRawInsertVertexShiftsLineRefs(t *testing.T) {
	s := newSquare()
	s.RawInsert(Vertices, 2, &Vertex{X: 99, Y: 99})

	want := [][2]Ref{{0, 1}, {1, 3}, {3, 4}, {4, 0}}
	for i, L := range s.LineDefs {
		assert.Equal(t, want[i], [2]Ref{L.Start, L.End})
	}
	assert.Equal(t, 99, s.Vertex(2).X)
	assert.Equal(t, nil, s.Check())
}

func TestRawDeleteVertexShiftsLineRefs(t *testing.T) {
	s := newSquare()
	// drop the lines touching vertex 1 first, as the cascade would
	s.RawDelete(LineDefs, 1)
	s.RawDelete(LineDefs, 0)
	s.RawDelete(Vertices, 1)

	want := [][2]Ref{{1, 2}, {2, 0}}
	for i, L := range s.LineDefs {
		assert.Equal(t, want[i], [2]Ref{L.Start, L.End})
	}
}

func TestRawInsertSideDefKeepsNoRef(t *testing.T) {
	s := newSquare()
	s.RawInsert(SideDefs, 0, &SideDef{Sector: 0})

	for i, L := range s.LineDefs {
		assert.Equal(t, Ref(i+1), L.Right)
		assert.Equal(t, NoRef, L.Left)
	}
}

func TestRawSectorShift(t *testing.T) {
	s := newSquare()
	s.RawInsert(Sectors, 0, &Sector{CeilH: 64})
	for _, sd := range s.SideDefs {
		assert.Equal(t, Ref(1), sd.Sector)
	}
	rec := s.RawDelete(Sectors, 0)
	assert.Equal(t, 64, rec.(*Sector).CeilH)
	for _, sd := range s.SideDefs {
		assert.Equal(t, Ref(0), sd.Sector)
	}
}

func TestRawAppendSkipsShift(t *testing.T) {
	s := newSquare()
	s.RawInsert(Vertices, 4, &Vertex{})
	for i, L := range s.LineDefs {
		assert.Equal(t, Ref(i), L.Start)
	}
}

func TestRawDeleteReturnsSameRecord(t *testing.T) {
	s := newSquare()
	th := s.Things[0]
	rec := s.RawDelete(Things, 0)
	if rec != Record(th) {
		t.Error("RawDelete must hand back the stored record")
	}
	assert.Equal(t, 0, s.Count(Things))
}

func TestRawChangeSwaps(t *testing.T) {
	s := newSquare()
	old := s.RawChange(Things, 0, ThingType, 3004)
	assert.Equal(t, 1, old)
	assert.Equal(t, 3004, s.Thing(0).Type)

	old = s.RawChange(LineDefs, 2, LineLeft, 1)
	assert.Equal(t, -1, old)
	assert.Equal(t, Ref(1), s.LineDef(2).Left)
}

func TestStoreContractViolations(t *testing.T) {
	s := newSquare()
	expectBug(t, ErrIndexOutOfRange, func() { s.RawInsert(Things, 3, &Thing{}) })
	expectBug(t, ErrIndexOutOfRange, func() { s.RawDelete(Vertices, 4) })
	expectBug(t, ErrIndexOutOfRange, func() { s.RawDelete(Vertices, -1) })
	expectBug(t, ErrKindMismatch, func() { s.RawInsert(Things, 0, &Vertex{}) })
	expectBug(t, ErrBadField, func() { s.RawChange(Vertices, 0, Field(2), 1) })
	expectBug(t, ErrBadObjType, func() { s.Count(ObjType(42)) })
}

func TestCheck(t *testing.T) {
	s := newSquare()
	assert.Equal(t, nil, s.Check())

	s.LineDefs[0].Left = 7
	if err := s.Check(); !errors.Is(err, ErrBadReference) {
		t.Errorf("Check() = %v, want ErrBadReference", err)
	}
}

func TestLineHelpers(t *testing.T) {
	s := newSquare()
	assert.Equal(t, true, s.TouchesSector(0, 0))
	assert.Equal(t, false, s.TouchesSector(0, 1))
	assert.Equal(t, Ref(0), s.WhatSector(0, SideRight))
	assert.Equal(t, NoRef, s.WhatSector(0, SideLeft))
	assert.Equal(t, 64.0, s.LineLength(1))
	assert.Equal(t, true, s.LineDef(0).IsOneSided())
}

func TestParseFieldAndKind(t *testing.T) {
	tests := []struct {
		kind string
		name string
		want Field
		ok   bool
	}{
		{"thing", "type", ThingType, true},
		{"linedefs", "left", LineLeft, true},
		{"sector", "FLOORTEX", SectorFloorTex, true},
		{"sidedef", "sector", SideSector, true},
		{"vertex", "z", 0, false},
	}
	for _, tt := range tests {
		kind, ok := ParseObjType(tt.kind)
		if !ok {
			t.Fatalf("ParseObjType(%q) failed", tt.kind)
		}
		f, ok := ParseField(kind, tt.name)
		if ok != tt.ok || (ok && f != tt.want) {
			t.Errorf("ParseField(%s, %q) = %d, %v", kind, tt.name, f, ok)
		}
	}
	assert.Equal(t, "vertices", Vertices.Name(true))
	assert.Equal(t, 13, NumFields(Things))
}
