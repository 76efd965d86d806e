package level

import "strings"

// ObjType identifies one of the five record kinds.
type ObjType uint8

// Record kinds.
const (
	Things ObjType = iota
	LineDefs
	SideDefs
	Vertices
	Sectors

	numObjTypes
)

// AllObjTypes lists every kind in declaration order.
var AllObjTypes = []ObjType{Things, LineDefs, SideDefs, Vertices, Sectors}

// Valid reports whether t names a known kind.
func (t ObjType) Valid() bool {
	return t < numObjTypes
}

// String returns the singular name of the kind.
func (t ObjType) String() string {
	return t.Name(false)
}

// Name returns the singular or plural name of the kind, as shown to users.
func (t ObjType) Name(plural bool) string {
	switch t {
	case Things:
		if plural {
			return "things"
		}
		return "thing"
	case LineDefs:
		if plural {
			return "linedefs"
		}
		return "linedef"
	case SideDefs:
		if plural {
			return "sidedefs"
		}
		return "sidedef"
	case Vertices:
		if plural {
			return "vertices"
		}
		return "vertex"
	case Sectors:
		if plural {
			return "sectors"
		}
		return "sector"
	default:
		return "XXX"
	}
}

// ParseObjType accepts singular or plural kind names, case-insensitively.
func ParseObjType(s string) (ObjType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range AllObjTypes {
		if s == t.Name(false) || s == t.Name(true) {
			return t, true
		}
	}
	switch s {
	case "line", "lines":
		return LineDefs, true
	case "side", "sides":
		return SideDefs, true
	case "vert", "verts":
		return Vertices, true
	}
	return 0, false
}
