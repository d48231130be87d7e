// Package table provides handlers for structural table editing.
//
// Every command in the table command registry is exposed as an action in
// the "table" namespace under its registry name:
//   - table.addColumnBefore, table.addColumnAfter, table.deleteColumn
//   - table.addRowBefore, table.addRowAfter, table.deleteRow
//   - table.mergeCells, table.splitCell
//   - table.toggleHeaderRow, table.toggleHeaderColumn, table.toggleHeaderCell
//   - table.setCellAttr (name, value)
//   - table.goToNextCell (direction)
//   - table.clearCells, table.deleteTable
//
// Action arguments are passed to the command factory unchanged. A repeat
// count runs the command that many times inside one undo group and stops
// early once the command no longer applies. In dry-run mode the handler
// only reports whether the command applies.
//
// # Selection and Queries
//
// The namespace also carries actions that never change the document:
//   - table.select (table, fromRow, fromCol, toRow, toCol): select a cell range
//   - table.cursor (table, row, col): place the cursor in a cell
//   - table.can (command, ...): report whether a command applies
//   - table.size (table): report the grid width and height
//   - table.cellText (table, row, col): report the text of a cell
package table
