package history

import (
	"errors"
	"fmt"

	"github.com/dshills/mapedit/internal/engine/level"
)

// ErrCorruptOperation indicates an operation destroyed in an impossible state.
var ErrCorruptOperation = errors.New("corrupt edit operation")

// Action is the current identity of an Operation.
type Action byte

// Operation actions.
const (
	ActionChange Action = 'c'
	ActionInsert Action = 'i'
	ActionDelete Action = 'd'
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionChange:
		return "change"
	case ActionInsert:
		return "insert"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Target receives the raw mutations of an Operation. *level.Store satisfies
// it directly; the engine wraps the store to fan out notifications.
type Target interface {
	RawInsert(kind level.ObjType, index int, rec level.Record)
	RawDelete(kind level.ObjType, index int) level.Record
	RawChange(kind level.ObjType, index int, field level.Field, value int) int
}

// Operation is a single reversible field-level edit.
//
// Apply is its own inverse. A change swaps Value with the stored field. An
// insert places Record and turns into a delete; a delete takes the record
// back and turns into an insert. Repeated Apply calls therefore alternate
// the visible effect.
type Operation struct {
	Action Action
	Kind   level.ObjType
	Field  level.Field
	Index  int

	// Record is held only while the operation is an insert.
	Record level.Record

	// Value is the pending value of a change.
	Value int
}

// NewInsertOperation creates an operation that will insert rec at index.
func NewInsertOperation(kind level.ObjType, index int, rec level.Record) *Operation {
	return &Operation{Action: ActionInsert, Kind: kind, Index: index, Record: rec}
}

// NewDeleteOperation creates an operation that will delete the record at index.
func NewDeleteOperation(kind level.ObjType, index int) *Operation {
	return &Operation{Action: ActionDelete, Kind: kind, Index: index}
}

// NewChangeOperation creates an operation that will store value into field.
func NewChangeOperation(kind level.ObjType, index int, field level.Field, value int) *Operation {
	return &Operation{Action: ActionChange, Kind: kind, Index: index, Field: field, Value: value}
}

// Apply performs the operation against t and flips it to its inverse.
func (op *Operation) Apply(t Target) {
	switch op.Action {
	case ActionChange:
		op.Value = t.RawChange(op.Kind, op.Index, op.Field, op.Value)

	case ActionDelete:
		op.Record = t.RawDelete(op.Kind, op.Index)
		op.Action = ActionInsert

	case ActionInsert:
		t.RawInsert(op.Kind, op.Index, op.Record)
		op.Record = nil
		op.Action = ActionDelete

	default:
		level.Bugf(ErrCorruptOperation, "Apply: action %q", byte(op.Action))
	}
}

// Destroy releases what the operation still owns. An insert holds a record
// that is no longer in the store and drops it; a delete must hold nothing.
func (op *Operation) Destroy() {
	switch op.Action {
	case ActionInsert:
		if op.Record == nil {
			level.Bugf(ErrCorruptOperation, "Destroy: insert of %s #%d without record", op.Kind, op.Index)
		}
		op.Record = nil
	case ActionDelete:
		if op.Record != nil {
			level.Bugf(ErrCorruptOperation, "Destroy: delete of %s #%d still holds a record", op.Kind, op.Index)
		}
	}
}

// Description returns a short human-readable form, e.g. "change linedef #4 type".
func (op *Operation) Description() string {
	if op.Action == ActionChange {
		return fmt.Sprintf("change %s #%d %s", op.Kind, op.Index, level.FieldName(op.Kind, op.Field))
	}
	return fmt.Sprintf("%s %s #%d", op.Action, op.Kind, op.Index)
}
