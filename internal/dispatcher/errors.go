package dispatcher

import "errors"

var (
	// ErrInvalidAction is returned for an action without a name.
	ErrInvalidAction = errors.New("dispatcher: action has no name")

	// ErrNoHandler is returned when nothing is registered for an action.
	ErrNoHandler = errors.New("dispatcher: no handler for action")

	// ErrActionCancelled is the error of a result cancelled by a hook.
	ErrActionCancelled = errors.New("dispatcher: action cancelled")

	// ErrTimeout wraps context.DeadlineExceeded when a handler overruns
	// Config.DefaultTimeout.
	ErrTimeout = errors.New("dispatcher: handler timed out")

	// ErrPanic is returned when a handler panics and recovery is on.
	ErrPanic = errors.New("dispatcher: handler panicked")

	// ErrDispatcherStopped is returned by dispatches after Stop.
	ErrDispatcherStopped = errors.New("dispatcher: stopped")
)
