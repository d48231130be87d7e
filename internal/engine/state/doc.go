// Package state holds the editor state: a document plus a selection, and
// the transactions that move one state to the next.
//
// Two selection kinds exist. A TextSelection spans text positions and is
// a cursor when its anchor equals its head. A CellSelection spans the
// rectangle of table cells between an anchor cell and a head cell; both
// are positions directly before a cell node.
package state
