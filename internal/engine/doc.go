// Package engine provides the document engine for gridstorm.
//
// The engine package serves as the main facade, combining the editor
// state, table commands and undo/redo history into a unified, thread-safe
// API suitable for hosts such as the dispatcher, Lua scripts and the
// command line.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - model: immutable document tree with schema, positions and edits
//   - transform: steps, step maps and position mapping
//   - state: editor state, transactions and selections
//   - history: undo/redo over inverted steps
//
// Table commands live in the table package and only depend on the
// sub-packages above; the engine runs them and records what they build.
//
// # Thread Safety
//
// All Engine operations are thread-safe. The engine uses a read-write mutex
// to allow concurrent reads while serializing writes. Because states and
// documents are immutable, a State obtained from the engine can be read
// without holding any lock.
//
// # Basic Usage
//
//	doc, _ := jsondoc.Decode(model.DefaultSchema(), data)
//	e := engine.New(doc)
//
//	// Select the top-left 2x2 block of the first table and merge it
//	e.SelectCells(0, 0, 0, 1, 1)
//	ok, err := e.Run(table.MergeCells)
//
//	// Undo the merge
//	e.Undo()
//
// Run returns false without an error when the command does not apply to
// the current selection, so hosts can treat "no-op" and "failed"
// differently.
//
// # Undo/Redo
//
// Every committed transaction that changes the document becomes a history
// entry. Group several commands into a single undo unit:
//
//	e.BeginUndoGroup("grow table")
//	e.Run(table.AddRowAfter)
//	e.Run(table.AddColumnAfter)
//	e.EndUndoGroup()
//
//	e.Undo() // Undoes both commands at once
//
// # Snapshots
//
// Named snapshots keep earlier documents around:
//
//	e.CreateSnapshot("before")
//	// ... edits ...
//	e.RestoreSnapshot("before") // recorded in history, so it can be undone
//
// # Read-Only Mode
//
// A read-only engine rejects commands and history operations:
//
//	e := engine.New(doc, engine.WithReadOnly())
//	_, err := e.Run(table.AddRowAfter)
//	// err == engine.ErrReadOnly
//
// # Error Handling
//
//   - ErrNothingToUndo: Undo stack is empty
//   - ErrNothingToRedo: Redo stack is empty
//   - ErrSnapshotNotFound: Requested snapshot does not exist
//   - ErrReadOnly: Write operation on read-only engine
package engine
