// Package engine provides the document mutation engine of the map editor.
//
// The engine package serves as the main facade, combining the geometry store,
// the string intern table, undo/redo history and change notification into
// one Document per open map.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - level: record types and the geometry store with its raw primitives
//   - strtab: interned texture and flat names
//   - history: self-inverting edit operations, undo groups and stacks
//   - notify: ordered fan-out of edits to selection, clipboard and caches
//   - checksum: content hash for change detection
//   - recent: recently used thing types, textures and flats
//
// # Transactions
//
// Every edit happens inside a transaction. Edits are applied immediately and
// recorded in the open group; End pushes the group for undo:
//
//	doc := engine.New()
//
//	doc.Begin()
//	v0 := doc.NewObject(level.Vertices)
//	v1 := doc.NewObject(level.Vertices)
//	doc.ChangeVertex(v1, level.VertexX, 64)
//	doc.Message("added %d vertices", 2)
//	doc.End()
//
//	doc.Undo() // both vertices gone
//	doc.Redo() // back again
//
// Deleting a record deletes or unbinds whatever refers to it, and those
// cascaded edits are recorded in the same group so Undo restores them too.
//
// # Concurrency
//
// A Document is not safe for concurrent use. It is driven synchronously from
// one goroutine; run one Document per map for independent sessions.
//
// # Contract violations
//
// Transaction misuse, out-of-range indices and unknown field ids are
// programming errors. They are logged and raised as panics carrying a
// *level.BugError. User-facing failures, such as nothing to undo, return
// false and are reported through the Host.
package engine
