package engine

import (
	"github.com/dshills/gridstorm/internal/engine/history"
	"github.com/dshills/gridstorm/internal/engine/state"
)

// Default configuration values.
const (
	DefaultMaxUndoEntries = history.DefaultMaxEntries
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithSelection sets the initial selection. Without it the cursor starts
// at the first text position of the document.
func WithSelection(sel state.Selection) Option {
	return func(e *Engine) {
		e.initSelection = sel
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.maxUndoEntries = max
		}
	}
}

// WithReadOnly creates a read-only engine.
// Commands and history operations will return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}
