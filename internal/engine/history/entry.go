package history

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/gridstorm/internal/engine/state"
	"github.com/dshills/gridstorm/internal/engine/transform"
)

// Entry is one undoable unit of history.
type Entry struct {
	ID   uuid.UUID
	Name string

	// Steps are the applied steps, in order.
	Steps []transform.Step
	// Inverted undoes Steps when applied in order.
	Inverted []transform.Step

	SelectionBefore state.Selection
	SelectionAfter  state.Selection

	Timestamp time.Time
}

// NewEntry records a committed transaction. before is the selection of the
// state the transaction was built from.
func NewEntry(name string, tr *state.Transaction, before state.Selection) *Entry {
	steps := tr.Steps()
	docs := tr.Docs()
	inverted := make([]transform.Step, len(steps))
	for i, step := range steps {
		inverted[len(steps)-1-i] = step.Invert(docs[i])
	}
	return &Entry{
		ID:              tr.ID(),
		Name:            name,
		Steps:           append([]transform.Step(nil), steps...),
		Inverted:        inverted,
		SelectionBefore: before,
		SelectionAfter:  tr.Selection(),
		Timestamp:       tr.Time(),
	}
}

// Empty reports whether the entry changes nothing.
func (e *Entry) Empty() bool { return len(e.Steps) == 0 }

// Description returns a human-readable description.
func (e *Entry) Description() string {
	if e.Name == "" {
		return fmt.Sprintf("%d steps", len(e.Steps))
	}
	return e.Name
}

// Undo applies the inverted steps to s, which must hold the document the
// entry produced.
func (e *Entry) Undo(s *state.State) (*state.State, error) {
	return replay(s, e.Inverted, e.SelectionBefore)
}

// Redo applies the steps again to s, which must hold the document the
// entry started from.
func (e *Entry) Redo(s *state.State) (*state.State, error) {
	return replay(s, e.Steps, e.SelectionAfter)
}

func replay(s *state.State, steps []transform.Step, sel state.Selection) (*state.State, error) {
	tr := s.Tr()
	for _, step := range steps {
		if err := tr.Step(step); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReplayFailed, err)
		}
	}
	if sel != nil {
		tr.SetSelection(sel)
	}
	return s.Apply(tr)
}

// mergeEntries combines entries into one unit that undoes them all.
func mergeEntries(name string, entries []*Entry) *Entry {
	merged := &Entry{
		ID:              uuid.New(),
		Name:            name,
		SelectionBefore: entries[0].SelectionBefore,
		SelectionAfter:  entries[len(entries)-1].SelectionAfter,
		Timestamp:       entries[len(entries)-1].Timestamp,
	}
	for _, e := range entries {
		merged.Steps = append(merged.Steps, e.Steps...)
	}
	for i := len(entries) - 1; i >= 0; i-- {
		merged.Inverted = append(merged.Inverted, entries[i].Inverted...)
	}
	return merged
}

// OperationInfo describes a history entry for display.
type OperationInfo struct {
	ID          uuid.UUID
	Description string
	Steps       int
	Timestamp   time.Time
}

func (e *Entry) info() OperationInfo {
	return OperationInfo{
		ID:          e.ID,
		Description: e.Description(),
		Steps:       len(e.Steps),
		Timestamp:   e.Timestamp,
	}
}
