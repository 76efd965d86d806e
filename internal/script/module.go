package script

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/mapedit/internal/engine/level"
)

func (s *State) register() {
	L := s.L
	mod := L.NewTable()

	L.SetField(mod, "begin", L.NewFunction(s.begin))
	L.SetField(mod, "finish", L.NewFunction(s.finish))
	L.SetField(mod, "abort", L.NewFunction(s.abort))
	L.SetField(mod, "message", L.NewFunction(s.message))
	L.SetField(mod, "undo", L.NewFunction(s.undo))
	L.SetField(mod, "redo", L.NewFunction(s.redo))
	L.SetField(mod, "new", L.NewFunction(s.newObject))
	L.SetField(mod, "delete", L.NewFunction(s.deleteObject))
	L.SetField(mod, "set", L.NewFunction(s.set))
	L.SetField(mod, "get", L.NewFunction(s.get))
	L.SetField(mod, "count", L.NewFunction(s.count))
	L.SetField(mod, "checksum", L.NewFunction(s.checksum))
	L.SetField(mod, "intern", L.NewFunction(s.intern))
	L.SetField(mod, "lookup", L.NewFunction(s.lookup))
	L.SetField(mod, "cmd", L.NewFunction(s.cmd))

	L.SetGlobal("map", mod)
}

func (s *State) checkKind(n int) level.ObjType {
	name := s.L.CheckString(n)
	kind, ok := level.ParseObjType(name)
	if !ok {
		s.L.ArgError(n, fmt.Sprintf("unknown kind %q", name))
	}
	return kind
}

func (s *State) checkIndex(n int, kind level.ObjType) int {
	idx := s.L.CheckInt(n)
	if !s.sess.Doc.Store().Has(kind, idx) {
		s.L.ArgError(n, fmt.Sprintf("no %s #%d", kind, idx))
	}
	return idx
}

func (s *State) checkField(n int, kind level.ObjType) level.Field {
	name := s.L.CheckString(n)
	field, ok := level.ParseField(kind, name)
	if !ok {
		s.L.ArgError(n, fmt.Sprintf("%s has no field %q", kind, name))
	}
	return field
}

// edit runs fn in the open transaction or a fresh one.
func (s *State) edit(label string, fn func()) {
	err := s.sess.Edit(label, func() error {
		fn()
		return nil
	})
	if err != nil {
		s.L.RaiseError("%v", err)
	}
}

// begin([message])
func (s *State) begin(L *lua.LState) int {
	if s.sess.Doc.InTransaction() {
		L.RaiseError("begin: transaction already open")
		return 0
	}
	s.sess.Doc.Begin()
	if msg := L.OptString(1, ""); msg != "" {
		s.sess.Doc.Message("%s", msg)
	}
	return 0
}

// finish() closes the transaction.
func (s *State) finish(L *lua.LState) int {
	if !s.sess.Doc.InTransaction() {
		L.RaiseError("finish: no transaction open")
		return 0
	}
	s.sess.Doc.End()
	return 0
}

// abort([keep])
func (s *State) abort(L *lua.LState) int {
	if !s.sess.Doc.InTransaction() {
		L.RaiseError("abort: no transaction open")
		return 0
	}
	s.sess.Doc.Abort(L.OptBool(1, false))
	return 0
}

func (s *State) message(L *lua.LState) int {
	msg := L.CheckString(1)
	if !s.sess.Doc.InTransaction() {
		L.RaiseError("message: no transaction open")
		return 0
	}
	s.sess.Doc.Message("%s", msg)
	return 0
}

// undo() -> bool
func (s *State) undo(L *lua.LState) int {
	if s.sess.Doc.InTransaction() {
		L.RaiseError("undo: transaction open")
		return 0
	}
	L.Push(lua.LBool(s.sess.Doc.Undo()))
	return 1
}

// redo() -> bool
func (s *State) redo(L *lua.LState) int {
	if s.sess.Doc.InTransaction() {
		L.RaiseError("redo: transaction open")
		return 0
	}
	L.Push(lua.LBool(s.sess.Doc.Redo()))
	return 1
}

// new(kind, ...) -> index
//
//	new("thing", x, y)
//	new("vertex", x, y)
//	new("sector")
//	new("sidedef", sector [, two_sided])
//	new("linedef", start, end)
func (s *State) newObject(L *lua.LState) int {
	doc := s.sess.Doc
	kind := s.checkKind(1)

	var n int
	switch kind {
	case level.Things, level.Vertices:
		x, y := L.OptInt(2, 0), L.OptInt(3, 0)
		s.edit("added "+kind.Name(false), func() {
			if kind == level.Things {
				n = doc.NewThing(x, y)
			} else {
				n = doc.NewVertex(x, y)
			}
		})

	case level.Sectors:
		s.edit("added sector", func() { n = doc.NewSector() })

	case level.SideDefs:
		sec := s.checkIndex(2, level.Sectors)
		two := L.OptBool(3, false)
		s.edit("added sidedef", func() { n = doc.NewSideDef(level.Ref(sec), two) })

	case level.LineDefs:
		start := s.checkIndex(2, level.Vertices)
		end := s.checkIndex(3, level.Vertices)
		s.edit("added linedef", func() { n = doc.NewLineDef(level.Ref(start), level.Ref(end)) })
	}

	L.Push(lua.LNumber(n))
	return 1
}

// delete(kind, index)
func (s *State) deleteObject(L *lua.LState) int {
	kind := s.checkKind(1)
	n := s.checkIndex(2, kind)
	s.edit(fmt.Sprintf("deleted %s #%d", kind, n), func() {
		s.sess.Doc.Delete(kind, n)
	})
	return 0
}

// set(kind, index, field, value). Texture fields take a name or an offset;
// reference fields take -1 or nil for none and must address a live record.
func (s *State) set(L *lua.LState) int {
	kind := s.checkKind(1)
	n := s.checkIndex(2, kind)
	field := s.checkField(3, kind)

	var value int
	switch v := L.CheckAny(4).(type) {
	case lua.LString:
		if !level.IsTextureField(kind, field) {
			L.ArgError(4, "number expected")
			return 0
		}
		value = s.sess.Doc.InternShort(strings.ToUpper(string(v)), 8)
	case lua.LNumber:
		value = int(v)
	default:
		if v != lua.LNil {
			L.ArgError(4, "number or string expected")
			return 0
		}
		value = int(level.NoRef)
	}
	if err := s.sess.Doc.CheckValue(kind, field, value); err != nil {
		L.ArgError(4, err.Error())
		return 0
	}

	label := fmt.Sprintf("edited %s of %s #%d", level.FieldName(kind, field), kind, n)
	s.edit(label, func() {
		s.sess.Doc.SetChange(kind, n, field, value)
	})
	return 0
}

// get(kind, index, field) -> number or texture name
func (s *State) get(L *lua.LState) int {
	kind := s.checkKind(1)
	n := s.checkIndex(2, kind)
	field := s.checkField(3, kind)

	v := s.sess.Doc.Store().Get(kind, n).Get(field)
	if level.IsTextureField(kind, field) {
		L.Push(lua.LString(s.sess.Doc.Lookup(v)))
	} else {
		L.Push(lua.LNumber(v))
	}
	return 1
}

// count(kind) -> number
func (s *State) count(L *lua.LState) int {
	kind := s.checkKind(1)
	L.Push(lua.LNumber(s.sess.Doc.Store().Count(kind)))
	return 1
}

// checksum() -> hex string
func (s *State) checksum(L *lua.LState) int {
	L.Push(lua.LString(fmt.Sprintf("%016x", s.sess.Doc.Checksum())))
	return 1
}

// intern(name) -> offset
func (s *State) intern(L *lua.LState) int {
	L.Push(lua.LNumber(s.sess.Doc.Intern(L.CheckString(1))))
	return 1
}

// lookup(offset) -> name
func (s *State) lookup(L *lua.LState) int {
	off := L.CheckInt(1)
	if off < 0 || off >= s.sess.Doc.Strings().Len() {
		L.ArgError(1, fmt.Sprintf("bad string offset %d", off))
		return 0
	}
	L.Push(lua.LString(s.sess.Doc.Lookup(off)))
	return 1
}

// cmd(line) runs an editor command line.
func (s *State) cmd(L *lua.LState) int {
	line := L.CheckString(1)
	if s.reg == nil {
		L.RaiseError("cmd: no commands available")
		return 0
	}
	if err := s.reg.ExecLine(s.sess, line); err != nil {
		L.RaiseError("cmd: %v", err)
	}
	return 0
}
