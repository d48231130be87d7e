package transform

import "errors"

// ErrStepFailed is returned when a step cannot be applied to a document.
var ErrStepFailed = errors.New("step failed")
