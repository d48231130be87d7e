package state

import "errors"

var (
	// ErrStaleTransaction is returned when applying a transaction that was
	// not started from the state's document.
	ErrStaleTransaction = errors.New("transaction does not start from this state")

	// ErrNotCellSelection is returned when cell positions do not point at
	// cells of the same table.
	ErrNotCellSelection = errors.New("positions do not point at cells of one table")
)
