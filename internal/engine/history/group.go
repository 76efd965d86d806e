package history

import (
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
)

// MaxMessage is the size of a group label, terminator included.
const MaxMessage = 200

const defaultMessage = "[something]"

// Group is one transaction: an ordered list of operations replayed as a unit.
type Group struct {
	id      ulid.ULID
	ops     []*Operation
	dir     int
	message string
	created time.Time
}

// NewGroup creates an empty, open group.
func NewGroup() *Group {
	return &Group{
		id:      ulid.Make(),
		dir:     +1,
		message: defaultMessage,
		created: time.Now(),
	}
}

// ID identifies the group in history listings.
func (g *Group) ID() ulid.ULID { return g.id }

// Empty reports whether no operation was recorded.
func (g *Group) Empty() bool { return len(g.ops) == 0 }

// Len returns the number of recorded operations.
func (g *Group) Len() int { return len(g.ops) }

// Direction is +1 when the next ReApply runs forward, -1 when backward.
func (g *Group) Direction() int { return g.dir }

// AddApply records op and applies it immediately.
func (g *Group) AddApply(op *Operation, t Target) {
	g.ops = append(g.ops, op)
	op.Apply(t)
}

// End closes the group; the first ReApply afterwards is an undo.
func (g *Group) End() {
	g.dir = -1
}

// ReApply replays every operation, backward or forward according to the
// current direction, then reverses the direction.
func (g *Group) ReApply(t Target) {
	if g.dir > 0 {
		for _, op := range g.ops {
			op.Apply(t)
		}
	} else {
		for i := len(g.ops) - 1; i >= 0; i-- {
			g.ops[i].Apply(t)
		}
	}
	g.dir = -g.dir
}

// Destroy releases the records still owned by the operations, newest first.
func (g *Group) Destroy() {
	for i := len(g.ops) - 1; i >= 0; i-- {
		g.ops[i].Destroy()
	}
	g.ops = nil
}

// SetMessage sets the label, cut to fit MaxMessage.
func (g *Group) SetMessage(msg string) {
	if len(msg) > MaxMessage-1 {
		cut := MaxMessage - 1
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut]
	}
	g.message = msg
}

// Message returns the label.
func (g *Group) Message() string { return g.message }

// Info summarizes the group for display.
func (g *Group) Info() OperationInfo {
	return OperationInfo{
		ID:          g.id.String(),
		Description: g.message,
		Timestamp:   g.created,
		Operations:  len(g.ops),
	}
}

// OperationInfo provides read-only info about a group.
// Used for displaying undo/redo history to users.
type OperationInfo struct {
	ID          string    // Group identifier
	Description string    // Human-readable label
	Timestamp   time.Time // When the group was opened
	Operations  int       // Number of raw edits in the group
}
