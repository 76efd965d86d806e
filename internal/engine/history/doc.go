// Package history provides undo/redo for map edits.
//
// # Operations
//
// An Operation is one raw edit of the geometry store: insert a record,
// delete a record, or change a single field. Applying an operation performs
// it and turns the operation into its own inverse, so the same value
// serves both undo and redo:
//
//	op := NewDeleteOperation(level.Vertices, 3)
//	op.Apply(store) // vertex 3 removed, op now inserts it back
//	op.Apply(store) // vertex restored, op deletes it again
//
// # Groups
//
// A Group is one transaction. Operations are applied as they are added.
// After End, ReApply walks the list backward (undo) and flips its
// direction, so the next ReApply walks forward (redo).
//
// # History
//
// The History type holds the open group and two stacks:
//
//	h := NewHistory(0) // unlimited
//	h.Begin()
//	h.Add(op, store)
//	h.End()
//
//	h.Undo(store)
//	h.Redo(store)
//
// Beginning a new group destroys the redo stack. Empty groups never reach
// the undo stack. Misuse (nested Begin, End without Begin) panics.
//
// # Ownership
//
// A deleted record lives on inside the operation that removed it until
// that operation is destroyed, i.e. until its group leaves both stacks.
package history
