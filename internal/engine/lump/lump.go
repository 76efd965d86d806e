// Package lump converts the geometry store to and from Doom format map lumps.
package lump

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/golang/glog"
	"golang.org/x/exp/constraints"

	"github.com/dshills/mapedit/internal/engine/level"
)

// Lump names, in map order.
const (
	Header   = "HEADER"
	Things   = "THINGS"
	LineDefs = "LINEDEFS"
	SideDefs = "SIDEDEFS"
	Vertexes = "VERTEXES"
	Sectors  = "SECTORS"
	Behavior = "BEHAVIOR"
	Scripts  = "SCRIPTS"
)

// Names lists the lumps handled by Decode and Encode.
var Names = []string{Header, Things, LineDefs, SideDefs, Vertexes, Sectors, Behavior, Scripts}

var (
	// ErrBadLumpSize indicates a lump whose length is not a whole number of records.
	ErrBadLumpSize = errors.New("bad lump size")

	// ErrOverflow indicates a value that does not fit its on-disk field.
	ErrOverflow = errors.New("value out of range")
)

// Strings interns fixed-width texture names.
type Strings interface {
	AddShort(s string, maxLen int) int
	Get(offset int) string
}

// Lumps maps lump names to their raw contents.
type Lumps map[string][]byte

// String8 is a NUL-padded eight byte name.
type String8 [8]byte

// String converts String8 to string
func (s String8) String() string {
	i := bytes.IndexByte(s[:], 0)
	if i == -1 {
		i = len(s)
	}
	return string(s[0:i])
}

func makeString8(s string) (String8, error) {
	var out String8
	if len(s) > len(out) {
		return out, fmt.Errorf("name %q: %w", s, ErrOverflow)
	}
	copy(out[:], s)
	return out, nil
}

type binThing struct {
	X       int16
	Y       int16
	Angle   int16
	Type    int16
	Options int16
}

type binLine struct {
	VertexStart, VertexEnd int16
	Flags                  int16
	Type                   int16
	SectorTag              int16
	SideR, SideL           int16
}

type binSide struct {
	XOffset       int16
	YOffset       int16
	UpperTexture  String8
	LowerTexture  String8
	MiddleTexture String8
	SectorNum     int16
}

type binVertex struct {
	X, Y int16
}

type binSector struct {
	FloorHeight    int16
	CeilingHeight  int16
	FloorTexture   String8
	CeilingTexture String8
	LightLevel     int16
	Type           int16
	TagNum         int16
}

func toInt16[T constraints.Integer](v T, what string) (int16, error) {
	if int64(v) < -32768 || int64(v) > 32767 {
		return 0, fmt.Errorf("%s %d: %w", what, v, ErrOverflow)
	}
	return int16(v), nil
}

func readRecords[T any](lumps Lumps, name string) ([]T, error) {
	data := lumps[name]
	var zero T
	size := binary.Size(zero)
	if len(data)%size != 0 {
		return nil, fmt.Errorf("%s: %d bytes: %w", name, len(data), ErrBadLumpSize)
	}
	out := make([]T, len(data)/size)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, out); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

func writeRecords[T any](recs []T) []byte {
	var buf bytes.Buffer
	// writes to a bytes.Buffer of fixed-size structs cannot fail
	_ = binary.Write(&buf, binary.LittleEndian, recs)
	return buf.Bytes()
}

// Decode replaces the contents of st with the given lumps. Missing lumps
// decode as empty. Every reference is checked before st is touched, so on
// error st keeps its old contents.
func Decode(st *level.Store, strs Strings, lumps Lumps) error {
	things, err := readRecords[binThing](lumps, Things)
	if err != nil {
		return err
	}
	lines, err := readRecords[binLine](lumps, LineDefs)
	if err != nil {
		return err
	}
	sides, err := readRecords[binSide](lumps, SideDefs)
	if err != nil {
		return err
	}
	verts, err := readRecords[binVertex](lumps, Vertexes)
	if err != nil {
		return err
	}
	sectors, err := readRecords[binSector](lumps, Sectors)
	if err != nil {
		return err
	}

	// build aside so a failed check leaves st untouched
	fresh := level.NewStore()

	fresh.Things = make([]*level.Thing, len(things))
	for i, t := range things {
		fresh.Things[i] = &level.Thing{
			X:       int(t.X),
			Y:       int(t.Y),
			Angle:   int(t.Angle),
			Type:    int(t.Type),
			Options: int(t.Options),
		}
	}

	fresh.Vertices = make([]*level.Vertex, len(verts))
	for i, v := range verts {
		fresh.Vertices[i] = &level.Vertex{X: int(v.X), Y: int(v.Y)}
	}

	fresh.Sectors = make([]*level.Sector, len(sectors))
	for i, s := range sectors {
		fresh.Sectors[i] = &level.Sector{
			FloorH:   int(s.FloorHeight),
			CeilH:    int(s.CeilingHeight),
			FloorTex: strs.AddShort(s.FloorTexture.String(), 8),
			CeilTex:  strs.AddShort(s.CeilingTexture.String(), 8),
			Light:    int(s.LightLevel),
			Type:     int(s.Type),
			Tag:      int(s.TagNum),
		}
	}

	fresh.SideDefs = make([]*level.SideDef, len(sides))
	for i, s := range sides {
		fresh.SideDefs[i] = &level.SideDef{
			XOffset:  int(s.XOffset),
			YOffset:  int(s.YOffset),
			UpperTex: strs.AddShort(s.UpperTexture.String(), 8),
			LowerTex: strs.AddShort(s.LowerTexture.String(), 8),
			MidTex:   strs.AddShort(s.MiddleTexture.String(), 8),
			Sector:   level.Ref(s.SectorNum),
		}
	}

	fresh.LineDefs = make([]*level.LineDef, len(lines))
	for i, l := range lines {
		fresh.LineDefs[i] = &level.LineDef{
			Start: level.Ref(l.VertexStart),
			End:   level.Ref(l.VertexEnd),
			Right: sideRef(l.SideR),
			Left:  sideRef(l.SideL),
			Flags: int(l.Flags),
			Type:  int(l.Type),
			Tag:   int(l.SectorTag),
		}
	}

	fresh.HeaderData = clone(lumps[Header])
	fresh.BehaviorData = clone(lumps[Behavior])
	fresh.ScriptsData = clone(lumps[Scripts])

	if err := fresh.Check(); err != nil {
		return err
	}
	*st = *fresh

	glog.V(1).Infof("[lump]read %d things, %d linedefs, %d sidedefs, %d vertices, %d sectors\n",
		len(things), len(lines), len(sides), len(verts), len(sectors))

	return nil
}

// any negative side number means no side
func sideRef(n int16) level.Ref {
	if n < 0 {
		return level.NoRef
	}
	return level.Ref(n)
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

// Encode renders st as lumps. It fails on values that do not fit the
// 16-bit fields or texture names longer than eight bytes.
func Encode(st *level.Store, strs Strings) (Lumps, error) {
	var err error
	conv := func(v int, what string) int16 {
		if err != nil {
			return 0
		}
		var n int16
		n, err = toInt16(v, what)
		return n
	}
	name := func(offset int) String8 {
		if err != nil {
			return String8{}
		}
		var s String8
		s, err = makeString8(strs.Get(offset))
		return s
	}

	things := make([]binThing, len(st.Things))
	for i, T := range st.Things {
		things[i] = binThing{
			X:       conv(T.X, "thing x"),
			Y:       conv(T.Y, "thing y"),
			Angle:   conv(T.Angle, "thing angle"),
			Type:    conv(T.Type, "thing type"),
			Options: conv(T.Options, "thing options"),
		}
	}

	lines := make([]binLine, len(st.LineDefs))
	for i, L := range st.LineDefs {
		lines[i] = binLine{
			VertexStart: conv(int(L.Start), "linedef start"),
			VertexEnd:   conv(int(L.End), "linedef end"),
			Flags:       conv(L.Flags, "linedef flags"),
			Type:        conv(L.Type, "linedef type"),
			SectorTag:   conv(L.Tag, "linedef tag"),
			SideR:       conv(int(L.Right), "linedef right"),
			SideL:       conv(int(L.Left), "linedef left"),
		}
	}

	sides := make([]binSide, len(st.SideDefs))
	for i, S := range st.SideDefs {
		sides[i] = binSide{
			XOffset:       conv(S.XOffset, "sidedef x offset"),
			YOffset:       conv(S.YOffset, "sidedef y offset"),
			UpperTexture:  name(S.UpperTex),
			LowerTexture:  name(S.LowerTex),
			MiddleTexture: name(S.MidTex),
			SectorNum:     conv(int(S.Sector), "sidedef sector"),
		}
	}

	verts := make([]binVertex, len(st.Vertices))
	for i, V := range st.Vertices {
		verts[i] = binVertex{X: conv(V.X, "vertex x"), Y: conv(V.Y, "vertex y")}
	}

	sectors := make([]binSector, len(st.Sectors))
	for i, S := range st.Sectors {
		sectors[i] = binSector{
			FloorHeight:    conv(S.FloorH, "sector floor"),
			CeilingHeight:  conv(S.CeilH, "sector ceiling"),
			FloorTexture:   name(S.FloorTex),
			CeilingTexture: name(S.CeilTex),
			LightLevel:     conv(S.Light, "sector light"),
			Type:           conv(S.Type, "sector type"),
			TagNum:         conv(S.Tag, "sector tag"),
		}
	}

	if err != nil {
		return nil, err
	}

	lumps := Lumps{
		Header:   clone(st.HeaderData),
		Things:   writeRecords(things),
		LineDefs: writeRecords(lines),
		SideDefs: writeRecords(sides),
		Vertexes: writeRecords(verts),
		Sectors:  writeRecords(sectors),
	}
	if len(st.BehaviorData) > 0 {
		lumps[Behavior] = clone(st.BehaviorData)
	}
	if len(st.ScriptsData) > 0 {
		lumps[Scripts] = clone(st.ScriptsData)
	}
	return lumps, nil
}
