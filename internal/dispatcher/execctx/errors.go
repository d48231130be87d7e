package execctx

import "errors"

var (
	ErrMissingEngine  = errors.New("execctx: no engine attached")
	ErrMissingHistory = errors.New("execctx: no history attached")
	ErrReadOnly       = errors.New("execctx: engine is read-only")
)
