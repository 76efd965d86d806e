package history

import (
	"errors"

	"github.com/golang/glog"

	"github.com/dshills/mapedit/internal/engine/level"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrNestedTransaction is a contract violation: Begin while a group is open.
	ErrNestedTransaction = errors.New("transaction already open")

	// ErrNoTransaction is a contract violation: End, Abort or an edit without Begin.
	ErrNoTransaction = errors.New("no transaction open")
)

// History owns the open group and the undo/redo stacks.
//
// Both stacks keep their most recent group at the end of the slice. At most
// one group is open at a time; there is no nesting.
type History struct {
	undoStack []*Group
	redoStack []*Group

	cur *Group

	// Configuration
	maxEntries int
}

// NewHistory creates a history. maxEntries <= 0 keeps every group.
func NewHistory(maxEntries int) *History {
	return &History{maxEntries: maxEntries}
}

// Begin opens a new group. Any redo state is destroyed: history does not branch.
func (h *History) Begin() *Group {
	if h.cur != nil {
		level.Bugf(ErrNestedTransaction, "Begin called twice without End")
	}

	h.clearRedo()
	h.cur = NewGroup()
	return h.cur
}

// Current returns the open group, or nil.
func (h *History) Current() *Group {
	return h.cur
}

// IsOpen reports whether a group is open.
func (h *History) IsOpen() bool {
	return h.cur != nil
}

// Add records op in the open group and applies it to t.
func (h *History) Add(op *Operation, t Target) {
	h.mustBeOpen("Add")
	h.cur.AddApply(op, t)
}

// End closes the open group and pushes it for undo. An empty group is
// dropped and End returns nil.
func (h *History) End() *Group {
	h.mustBeOpen("End")

	g := h.cur
	h.cur = nil
	g.End()

	if g.Empty() {
		return nil
	}

	h.undoStack = append(h.undoStack, g)
	h.trim()
	return g
}

// Abort closes the open group without recording it. Unless keepChanges is
// set, the group's edits are rolled back first; kept edits become
// unrecorded changes that cannot be undone.
func (h *History) Abort(keepChanges bool, t Target) {
	h.mustBeOpen("Abort")

	g := h.cur
	h.cur = nil
	g.End()

	if !keepChanges && !g.Empty() {
		g.ReApply(t)
	}

	g.Destroy()
}

// Undo reverts the most recent group and moves it to the redo stack.
func (h *History) Undo(t Target) (*Group, error) {
	if len(h.undoStack) == 0 {
		return nil, ErrNothingToUndo
	}

	g := h.undoStack[len(h.undoStack)-1]
	h.undoStack[len(h.undoStack)-1] = nil
	h.undoStack = h.undoStack[:len(h.undoStack)-1]

	g.ReApply(t)

	h.redoStack = append(h.redoStack, g)
	return g, nil
}

// Redo re-applies the most recently undone group.
func (h *History) Redo(t Target) (*Group, error) {
	if len(h.redoStack) == 0 {
		return nil, ErrNothingToRedo
	}

	g := h.redoStack[len(h.redoStack)-1]
	h.redoStack[len(h.redoStack)-1] = nil
	h.redoStack = h.redoStack[:len(h.redoStack)-1]

	g.ReApply(t)

	h.undoStack = append(h.undoStack, g)
	return g, nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo groups available.
func (h *History) UndoCount() int {
	return len(h.undoStack)
}

// RedoCount returns the number of redo groups available.
func (h *History) RedoCount() int {
	return len(h.redoStack)
}

// Clear destroys both stacks. The open group, if any, is left alone.
func (h *History) Clear() {
	h.clearUndo()
	h.clearRedo()
}

func (h *History) clearUndo() {
	for _, g := range h.undoStack {
		g.Destroy()
	}
	h.undoStack = nil
}

func (h *History) clearRedo() {
	if len(h.redoStack) > 0 {
		glog.V(2).Infof("[history]drop %d redo groups\n", len(h.redoStack))
	}
	for _, g := range h.redoStack {
		g.Destroy()
	}
	h.redoStack = nil
}

// trim ages out the oldest groups beyond maxEntries.
func (h *History) trim() {
	if h.maxEntries <= 0 || len(h.undoStack) <= h.maxEntries {
		return
	}
	excess := len(h.undoStack) - h.maxEntries
	for _, g := range h.undoStack[:excess] {
		g.Destroy()
	}
	h.undoStack = append(h.undoStack[:0], h.undoStack[excess:]...)
}

// UndoInfo lists the undo stack, most recent first.
func (h *History) UndoInfo() []OperationInfo {
	return listInfo(h.undoStack)
}

// RedoInfo lists the redo stack, most recent first.
func (h *History) RedoInfo() []OperationInfo {
	return listInfo(h.redoStack)
}

func listInfo(stack []*Group) []OperationInfo {
	result := make([]OperationInfo, 0, len(stack))
	for i := len(stack) - 1; i >= 0; i-- {
		result = append(result, stack[i].Info())
	}
	return result
}

// PeekUndo returns the group the next Undo would revert.
func (h *History) PeekUndo() (*Group, bool) {
	if len(h.undoStack) == 0 {
		return nil, false
	}
	return h.undoStack[len(h.undoStack)-1], true
}

// PeekRedo returns the group the next Redo would re-apply.
func (h *History) PeekRedo() (*Group, bool) {
	if len(h.redoStack) == 0 {
		return nil, false
	}
	return h.redoStack[len(h.redoStack)-1], true
}

// SetMaxEntries changes the undo depth. Excess groups are destroyed.
func (h *History) SetMaxEntries(max int) {
	h.maxEntries = max
	h.trim()
}

// MaxEntries returns the undo depth; zero means unlimited.
func (h *History) MaxEntries() int {
	return h.maxEntries
}

func (h *History) mustBeOpen(op string) {
	if h.cur == nil {
		level.Bugf(ErrNoTransaction, "%s called without a previous Begin", op)
	}
}
