package model

import "errors"

// Errors returned by model operations.
var (
	// ErrPositionOutOfRange indicates a position outside the document.
	ErrPositionOutOfRange = errors.New("position out of range")

	// ErrInvalidReplace indicates a replacement that does not fall on node
	// boundaries within a single parent.
	ErrInvalidReplace = errors.New("invalid replace")

	// ErrInvalidContent indicates content not allowed by the schema.
	ErrInvalidContent = errors.New("invalid content")

	// ErrUnknownType indicates a node type name missing from the schema.
	ErrUnknownType = errors.New("unknown node type")

	// ErrDuplicateType indicates a schema with two types of the same name.
	ErrDuplicateType = errors.New("duplicate node type")
)
