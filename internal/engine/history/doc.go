// Package history keeps the undo and redo stacks of an engine.
//
// Every committed transaction becomes an Entry holding its steps, the
// inverted steps in undo order, and the selections on either side of the
// edit. The entry shares the transaction's ID so log lines and history can
// be matched up.
//
//	h := history.NewHistory(1000)
//	h.Push(history.NewEntry("addRowAfter", tr, before))
//	s, err = h.Undo(s)
//	s, err = h.Redo(s)
//
// Undo lands on the selection recorded before the edit, redo on the one
// recorded after it, so a cell selection survives the round trip.
//
// BeginGroup and EndGroup fold everything pushed between them into one
// entry. Groups nest and only the outermost EndGroup records anything;
// CancelGroup drops the collected entries.
package history
