package history

import (
	"errors"
	"sync"

	"github.com/dshills/gridstorm/internal/engine/state"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrReplayFailed reports an entry whose steps do not fit the state
	// it was replayed against.
	ErrReplayFailed = errors.New("history replay failed")
)

// DefaultMaxEntries replaces a non-positive limit.
const DefaultMaxEntries = 1000

// History is a bounded undo stack with a redo stack and nestable
// grouping. It is safe for concurrent use.
type History struct {
	mu    sync.Mutex
	max   int
	undos []*Entry
	redos []*Entry

	// Open group: depth counts nested BeginGroup calls, pending collects
	// the entries pushed meanwhile.
	depth     int
	groupName string
	pending   []*Entry
}

func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{max: maxEntries}
}

// Push records e and clears the redo stack. Empty entries are dropped;
// inside a group e is held until the outermost EndGroup.
func (h *History) Push(e *Entry) {
	if e == nil || e.Empty() {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.depth > 0 {
		h.pending = append(h.pending, e)
		return
	}
	h.record(e)
}

func (h *History) record(e *Entry) {
	h.undos = append(h.undos, e)
	if over := len(h.undos) - h.max; over > 0 {
		h.undos = h.undos[over:]
	}
	h.redos = nil
}

// Undo replays the newest entry's inverted steps against s and moves the
// entry to the redo stack. A failed replay leaves both stacks unchanged.
func (h *History) Undo(s *state.State) (*state.State, error) {
	return h.move(&h.undos, &h.redos, ErrNothingToUndo, s, (*Entry).Undo)
}

// Redo replays the newest undone entry against s.
func (h *History) Redo(s *state.State) (*state.State, error) {
	return h.move(&h.redos, &h.undos, ErrNothingToRedo, s, (*Entry).Redo)
}

func (h *History) move(from, to *[]*Entry, empty error, s *state.State,
	replay func(*Entry, *state.State) (*state.State, error)) (*state.State, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(*from)
	if n == 0 {
		return nil, empty
	}
	e := (*from)[n-1]
	next, err := replay(e, s)
	if err != nil {
		return nil, err
	}
	*from = (*from)[:n-1]
	*to = append(*to, e)
	return next, nil
}

func (h *History) CanUndo() bool { return h.UndoCount() > 0 }
func (h *History) CanRedo() bool { return h.RedoCount() > 0 }

func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undos)
}

func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redos)
}

// BeginGroup opens a group. Everything pushed until the matching
// EndGroup undoes as one entry named after the outermost group.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.depth == 0 {
		h.groupName, h.pending = name, nil
	}
	h.depth++
}

// EndGroup closes the innermost open group. Unbalanced calls are ignored.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.depth == 0 {
		return
	}
	if h.depth--; h.depth > 0 {
		return
	}

	pending := h.pending
	h.pending = nil
	switch len(pending) {
	case 0:
	case 1:
		h.record(pending[0])
	default:
		h.record(mergeEntries(h.groupName, pending))
	}
}

// CancelGroup closes every open group and drops what it collected. The
// edits themselves stay applied; they just cannot be undone.
func (h *History) CancelGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.depth, h.pending = 0, nil
}

func (h *History) IsGrouping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.depth > 0
}

// Clear drops both stacks and any open group.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undos, h.redos = nil, nil
	h.depth, h.pending = 0, nil
}

// UndoInfo describes the undo stack, oldest first.
func (h *History) UndoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	info := make([]OperationInfo, len(h.undos))
	for i, e := range h.undos {
		info[i] = e.info()
	}
	return info
}

// PeekUndo describes the entry Undo would replay next.
func (h *History) PeekUndo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undos) == 0 {
		return OperationInfo{}, false
	}
	return h.undos[len(h.undos)-1].info(), true
}

func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.max
}
