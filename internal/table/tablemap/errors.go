package tablemap

import "errors"

var (
	// ErrNotTable is returned when computing a map for a node whose type
	// does not have the table role.
	ErrNotTable = errors.New("node is not a table")

	// ErrNoCell is returned when no cell starts at the given offset.
	ErrNoCell = errors.New("no cell at offset")

	ErrTooLarge = errors.New("table grid too large")
)
