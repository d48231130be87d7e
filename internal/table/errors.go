package table

import "errors"

var (
	// ErrNotApplicable is returned by Build when the command does not apply
	// to the state.
	ErrNotApplicable = errors.New("command not applicable")

	// ErrNotInTable is returned when the selection is not inside a table.
	ErrNotInTable = errors.New("selection is not in a table")

	// ErrUnknownCommand is returned by Lookup for unregistered names.
	ErrUnknownCommand = errors.New("unknown table command")

	// ErrInvalidArgs is returned when command arguments are missing or
	// have the wrong type.
	ErrInvalidArgs = errors.New("invalid command arguments")

	// ErrNoTable is returned when a document has no table at the requested
	// index.
	ErrNoTable = errors.New("no such table")

	// ErrOutsideGrid is returned for a row or column outside a table.
	ErrOutsideGrid = errors.New("position outside table grid")

	// ErrBrokenTable is returned when a table's structure does not match
	// its map.
	ErrBrokenTable = errors.New("table structure does not match its map")
)
