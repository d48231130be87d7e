package lua

import "errors"

var (
	ErrStateClosed      = errors.New("lua state is closed")
	ErrExecutionTimeout = errors.New("lua execution timeout")
	ErrCallLimit        = errors.New("lua host call limit exceeded")

	// ErrActionFailed wraps the error of an action a script dispatched.
	ErrActionFailed = errors.New("lua action failed")
)
