// Package input defines the actions hosts send to the dispatcher.
//
// An Action names a command ("table.mergeCells", "history.undo") and
// carries its arguments. Actions come from the command line, batch edit
// files and Lua scripts; ParseAction reads the compact form used on the
// command line:
//
//	addColumnAfter
//	table.setCellAttr:name=background,value=#eee
//	table.goToNextCell:direction=-1
//
// Names without a namespace are placed in the "table" namespace.
package input
