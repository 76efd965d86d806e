// Package level holds the in-memory geometry of a map.
//
// A map is five parallel arrays of records: things, vertices, sidedefs,
// linedefs and sectors. Records refer to one another by position:
//
//   - a LineDef names its start and end Vertex
//   - a LineDef names an optional right and left SideDef (NoRef when absent)
//   - a SideDef names the Sector it faces
//
// Positions are not stable. Inserting or removing a record at index i
// renumbers every later record of that kind, so the Store walks the
// referencing arrays and patches every stored reference on each structural
// change. That bookkeeping lives in exactly one place per kind, in store.go.
//
// # Raw primitives
//
// The Store exposes three raw mutations:
//
//	st.RawInsert(kind, index, rec)          // shift up, patch refs >= index
//	rec := st.RawDelete(kind, index)        // shift down, patch refs > index
//	old := st.RawChange(kind, index, f, v)  // swap one field
//
// Raw primitives do no cascading and record no history. The engine package
// wraps them in undoable operations.
//
// # Fields
//
// Every scalar of every record is addressed by a small per-kind Field id so
// that a single "change" operation can describe an edit to any of them.
package level
