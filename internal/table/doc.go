// Package table implements structural editing commands for tables: adding
// and removing rows and columns, merging and splitting cells, toggling
// header cells, setting cell attributes, moving between cells and deleting
// whole tables.
//
// # Geometry
//
// Every command works on the grid computed by package tablemap. The
// selection is turned into a Rect of grid slots by SelectedRect: a cell
// selection covers the rectangle between its anchor and head cells, a
// cursor covers the slots of the cell it sits in.
//
// # Commands
//
// A Command separates checking from building:
//
//	if cmd.Check(s) {
//		tr, err := cmd.Build(s)
//		...
//	}
//
// Build returns ErrNotApplicable exactly when Check returns false, so a
// host can show a command as available and rely on it to produce a
// transaction. Run adapts a Command to the check-or-dispatch convention
// used by key bindings and menus.
//
// # Positions
//
// Positions stored in a TableMap are relative to the start of the table's
// content; the Rect returned by SelectedRect carries TableStart to convert
// them. Commands issuing several steps translate every position computed
// against the original document through the transaction's mapping before
// using it.
package table
