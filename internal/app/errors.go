package app

import (
	"errors"
	"fmt"
)

var (
	ErrNoActiveDocument = errors.New("no active document")
	ErrDocumentNotFound = errors.New("document not found")
	ErrUnsavedChanges   = errors.New("unsaved changes")
	ErrShutdown         = errors.New("application shut down")

	// ErrUnknownFormat reports a file extension no codec handles.
	ErrUnknownFormat = errors.New("unknown document format")
)

// OperationError wraps a failure with the operation (open, save, script)
// and the file it concerned.
type OperationError struct {
	Op     string
	Target string
	Err    error
}

func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	switch {
	case e.Target == "" && e.Err == nil:
		return e.Op
	case e.Target == "":
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Err == nil:
		return e.Op + " " + e.Target
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }
