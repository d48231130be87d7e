package handler

import "fmt"

// ResultStatus is the outcome class of a dispatch.
type ResultStatus uint8

const (
	StatusOK ResultStatus = iota
	// StatusNoOp means the action was valid but did not apply, for example
	// a merge with a single-cell selection.
	StatusNoOp
	StatusError
	// StatusCancelled means a pre-dispatch hook refused the action.
	StatusCancelled
)

var statusNames = [...]string{
	StatusOK:        "ok",
	StatusNoOp:      "no-op",
	StatusError:     "error",
	StatusCancelled: "cancelled",
}

func (s ResultStatus) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// Change is one commit made while handling an action.
type Change struct {
	// Command is the name of the table command that committed.
	Command string
	// Revision is the engine revision right after the commit.
	Revision uint64
}

// ViewUpdate tells a front end what to refresh after a dispatch.
type ViewUpdate struct {
	Redraw           bool
	ScrollIntoView   bool
	SelectionChanged bool
}

// Result is what a handler returns for one action. Results are values;
// the With methods return modified copies.
type Result struct {
	Status     ResultStatus
	Error      error
	Message    string
	Changes    []Change
	ViewUpdate ViewUpdate
	Data       map[string]any
}

func Success() Result { return Result{Status: StatusOK} }

func SuccessWithData(key string, value any) Result {
	return Success().WithData(key, value)
}

func NoOp() Result { return Result{Status: StatusNoOp} }

func NoOpWithMessage(msg string) Result {
	return Result{Status: StatusNoOp, Message: msg}
}

func Error(err error) Result { return Result{Status: StatusError, Error: err} }

// Errorf builds an error result; %w verbs wrap as in fmt.Errorf.
func Errorf(format string, args ...any) Result {
	return Error(fmt.Errorf(format, args...))
}

func Cancelled() Result { return Result{Status: StatusCancelled} }

func CancelledWithMessage(msg string) Result {
	return Result{Status: StatusCancelled, Message: msg}
}

func (r Result) IsOK() bool    { return r.Status == StatusOK }
func (r Result) IsError() bool { return r.Status == StatusError }

func (r Result) WithMessage(msg string) Result {
	r.Message = msg
	return r
}

// WithChange appends c. The Changes slice is copied so results sharing a
// backing array never see each other's appends.
func (r Result) WithChange(c Change) Result {
	changes := make([]Change, len(r.Changes), len(r.Changes)+1)
	copy(changes, r.Changes)
	r.Changes = append(changes, c)
	return r
}

// Revision is the revision of the last change, or zero when nothing
// committed.
func (r Result) Revision() uint64 {
	if n := len(r.Changes); n > 0 {
		return r.Changes[n-1].Revision
	}
	return 0
}

func (r Result) WithRedraw() Result {
	r.ViewUpdate.Redraw = true
	return r
}

func (r Result) WithScrollIntoView() Result {
	r.ViewUpdate.ScrollIntoView = true
	return r
}

func (r Result) WithSelectionChanged() Result {
	r.ViewUpdate.SelectionChanged = true
	return r
}

// WithData sets key in a copy of the data map.
func (r Result) WithData(key string, value any) Result {
	data := make(map[string]any, len(r.Data)+1)
	for k, v := range r.Data {
		data[k] = v
	}
	data[key] = value
	r.Data = data
	return r
}

func (r Result) GetData(key string) (any, bool) {
	v, ok := r.Data[key]
	return v, ok
}

// GetDataString returns the string stored under key, or "".
func (r Result) GetDataString(key string) string {
	s, _ := r.Data[key].(string)
	return s
}

// GetDataInt returns the number stored under key as an int, or 0. Lua
// numbers arrive as float64 and are truncated.
func (r Result) GetDataInt(key string) int {
	switch n := r.Data[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// GetDataBool returns the bool stored under key, or false.
func (r Result) GetDataBool(key string) bool {
	b, _ := r.Data[key].(bool)
	return b
}
