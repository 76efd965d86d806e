// Package script runs Lua scripts against an editing session.
//
// Scripts see a global table "map" whose functions edit the document:
//
//	map.begin("build room")
//	local v1 = map.new("vertex", 0, 0)
//	local v2 = map.new("vertex", 64, 0)
//	map.new("linedef", v1, v2)
//	map.finish()
//
// Indices are zero based, as in the map itself. Edits made outside
// begin/finish get a transaction each. A script that fails with a
// transaction open has that transaction rolled back.
//
// Only the base, table, string and math libraries are opened.
package script

import (
	"errors"
	"fmt"

	"github.com/golang/glog"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/mapedit/internal/command"
)

// ErrStateClosed is returned when running code on a closed State.
var ErrStateClosed = errors.New("lua state is closed")

// State is a Lua interpreter bound to a session. It is not safe for
// concurrent use.
type State struct {
	L *lua.LState

	sess *command.Session
	reg  *command.Registry

	closed bool
}

// New creates a State over sess. reg, if not nil, backs map.cmd.
func New(sess *command.Session, reg *command.Registry) *State {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	s := &State{L: L, sess: sess, reg: reg}
	s.register()
	return s
}

func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// DoString runs a chunk of Lua code.
func (s *State) DoString(code string) error {
	return s.run("string", func() error { return s.L.DoString(code) })
}

// DoFile runs a Lua file.
func (s *State) DoFile(path string) error {
	return s.run(path, func() error { return s.L.DoFile(path) })
}

func (s *State) run(name string, fn func() error) (err error) {
	if s.closed {
		return ErrStateClosed
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
		if err != nil && s.sess.Doc.InTransaction() {
			glog.Warningf("[script]%s failed inside a transaction, rolling back\n", name)
			s.sess.Doc.Abort(false)
		}
	}()
	glog.V(1).Infof("[script]running %s\n", name)
	return fn()
}

// Close releases the interpreter.
func (s *State) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.L.Close()
}
