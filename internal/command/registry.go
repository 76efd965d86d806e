package command

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/dshills/mapedit/internal/engine/level"
)

var (
	// ErrUnknownCommand indicates no command is registered under a name.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrWrongContext indicates a command run outside its required edit mode.
	ErrWrongContext = errors.New("command not available in this mode")

	// ErrBadArgs indicates missing or malformed command arguments.
	ErrBadArgs = errors.New("bad arguments")
)

// Context is the edit mode a command requires.
type Context int

// Contexts. ContextNone commands run in any mode.
const (
	ContextNone Context = iota
	ContextThings
	ContextLineDefs
	ContextSectors
	ContextVertices
)

// Allows reports whether a command of this context may run in edit mode m.
func (c Context) Allows(m level.ObjType) bool {
	switch c {
	case ContextNone:
		return true
	case ContextThings:
		return m == level.Things
	case ContextLineDefs:
		return m == level.LineDefs
	case ContextSectors:
		return m == level.Sectors
	case ContextVertices:
		return m == level.Vertices
	}
	return false
}

// Func runs a command against a session.
type Func func(s *Session, args []string) error

// Command is a named editor command.
type Command struct {
	Name    string
	Func    Func
	Context Context
	Usage   string
}

// Registry manages commands by case-insensitive name.
type Registry struct {
	cmds map[string]*Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]*Command)}
}

// Register adds or replaces a command.
func (r *Registry) Register(name string, fn Func, ctx Context, usage string) {
	r.cmds[strings.ToLower(name)] = &Command{Name: name, Func: fn, Context: ctx, Usage: usage}
}

// Unregister removes a command.
func (r *Registry) Unregister(name string) {
	delete(r.cmds, strings.ToLower(name))
}

// Get returns the command registered under name, or nil.
func (r *Registry) Get(name string) *Command {
	return r.cmds[strings.ToLower(name)]
}

// Has returns true if a command is registered under name.
func (r *Registry) Has(name string) bool {
	return r.Get(name) != nil
}

// List returns all registered command names.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.cmds))
	for _, c := range r.cmds {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered commands.
func (r *Registry) Count() int {
	return len(r.cmds)
}

// Execute runs the named command with params.
func (r *Registry) Execute(s *Session, name string, params ...string) error {
	cmd := r.Get(name)
	if cmd == nil {
		return fmt.Errorf("%s: %w", name, ErrUnknownCommand)
	}
	if !cmd.Context.Allows(s.Mode) {
		return fmt.Errorf("%s in %s mode: %w", cmd.Name, s.Mode.Name(true), ErrWrongContext)
	}
	return cmd.Func(s, params)
}

// ExecLine splits a command line shell-style and executes it. Blank lines
// and lines starting with # are ignored.
func (r *Registry) ExecLine(s *Session, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	words, err := shellwords.Parse(line)
	if err != nil {
		return fmt.Errorf("%q: %w", line, err)
	}
	if len(words) == 0 {
		return nil
	}
	return r.Execute(s, words[0], words[1:]...)
}
