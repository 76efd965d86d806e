// Package checksum computes a content hash of a map for change detection.
package checksum

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/dshills/mapedit/internal/engine/level"
)

// Strings resolves intern offsets to texture names.
type Strings interface {
	Get(offset int) string
}

// Sum is a running, order-dependent hash.
type Sum struct {
	d   *xxhash.Digest
	buf [4]byte
}

// New starts an empty hash.
func New() *Sum {
	return &Sum{d: xxhash.New()}
}

// AddInt folds an integer into the hash.
func (s *Sum) AddInt(v int) {
	binary.LittleEndian.PutUint32(s.buf[:], uint32(int32(v)))
	s.d.Write(s.buf[:])
}

// AddString folds a string, with a terminator so "AB"+"C" differs from "A"+"BC".
func (s *Sum) AddString(str string) {
	s.d.WriteString(str)
	s.d.Write([]byte{0})
}

// Value returns the current hash.
func (s *Sum) Value() uint64 {
	return s.d.Sum64()
}

// Level folds every thing and every linedef into s.
//
// Lines pull in their vertices, sides and sectors, so unused vertices,
// sidedefs and sectors do not count, and a sector is hashed once per side
// facing it.
func Level(s *Sum, st *level.Store, strs Strings) {
	for _, T := range st.Things {
		thing(s, T)
	}
	for _, L := range st.LineDefs {
		lineDef(s, st, strs, L)
	}
}

// Of returns the checksum of a whole store.
func Of(st *level.Store, strs Strings) uint64 {
	s := New()
	Level(s, st, strs)
	return s.Value()
}

func thing(s *Sum, T *level.Thing) {
	s.AddInt(T.X)
	s.AddInt(T.Y)
	s.AddInt(T.Angle)
	s.AddInt(T.Type)
	s.AddInt(T.Options)
}

func vertex(s *Sum, V *level.Vertex) {
	s.AddInt(V.X)
	s.AddInt(V.Y)
}

func sector(s *Sum, strs Strings, sec *level.Sector) {
	s.AddInt(sec.FloorH)
	s.AddInt(sec.CeilH)
	s.AddInt(sec.Light)
	s.AddInt(sec.Type)
	s.AddInt(sec.Tag)

	s.AddString(strs.Get(sec.FloorTex))
	s.AddString(strs.Get(sec.CeilTex))
}

func sideDef(s *Sum, st *level.Store, strs Strings, sd *level.SideDef) {
	s.AddInt(sd.XOffset)
	s.AddInt(sd.YOffset)

	s.AddString(strs.Get(sd.LowerTex))
	s.AddString(strs.Get(sd.MidTex))
	s.AddString(strs.Get(sd.UpperTex))

	sector(s, strs, st.Sector(int(sd.Sector)))
}

func lineDef(s *Sum, st *level.Store, strs Strings, L *level.LineDef) {
	s.AddInt(L.Flags)
	s.AddInt(L.Type)
	s.AddInt(L.Tag)

	vertex(s, st.Vertex(int(L.Start)))
	vertex(s, st.Vertex(int(L.End)))

	if L.Right.IsSet() {
		sideDef(s, st, strs, st.SideDef(int(L.Right)))
	}
	if L.Left.IsSet() {
		sideDef(s, st, strs, st.SideDef(int(L.Left)))
	}
}
