// Package history provides handlers for undo and redo.
//
// Actions in the "history" namespace:
//   - history.undo: undo the last change, repeated by count
//   - history.redo: redo the last undone change, repeated by count
//   - history.canUndo, history.canRedo: report availability
//   - history.info: report the undo and redo stack depths
//   - history.clear: drop the undo and redo stacks
//   - history.snapshot, history.restore, history.dropSnapshot: keep a
//     named copy of the document, bring it back as an undoable change,
//     forget it; each takes the snapshot name in "name"
package history
