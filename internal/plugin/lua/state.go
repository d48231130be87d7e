package lua

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

const (
	DefaultExecutionTimeout = 5 * time.Second
	DefaultCallLimit        = 100_000
)

// State is a sandboxed gopher-lua state. An LState is not safe for
// concurrent use, so runs are serialized.
type State struct {
	L       *lua.LState
	sandbox *Sandbox

	mu      sync.Mutex
	timeout time.Duration
	closed  bool
}

type stateConfig struct {
	timeout   time.Duration
	callLimit int64
	caps      []Capability
}

// StateOption configures NewState.
type StateOption func(*stateConfig)

// WithExecutionTimeout bounds each run. Zero disables the bound.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(c *stateConfig) { c.timeout = d }
}

// WithCallLimit bounds the host calls of each run. Zero disables the bound.
func WithCallLimit(limit int64) StateOption {
	return func(c *stateConfig) { c.callLimit = limit }
}

// WithCapabilities grants caps to the new state's sandbox.
func WithCapabilities(caps ...Capability) StateOption {
	return func(c *stateConfig) { c.caps = append(c.caps, caps...) }
}

// baseLibs are opened in every state; io, os and debug are not.
var baseLibs = []lua.LGFunction{
	lua.OpenBase,
	lua.OpenPackage, // require and PreloadModule
	lua.OpenTable,
	lua.OpenString,
	lua.OpenMath,
}

func NewState(opts ...StateOption) *State {
	cfg := stateConfig{timeout: DefaultExecutionTimeout, callLimit: DefaultCallLimit}
	for _, opt := range opts {
		opt(&cfg)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, open := range baseLibs {
		open(L)
	}
	s := &State{L: L, timeout: cfg.timeout, sandbox: NewSandbox(L, cfg.callLimit)}
	for _, c := range cfg.caps {
		s.sandbox.Grant(c)
	}
	return s
}

func (s *State) DoFile(ctx context.Context, path string) error {
	return s.run(ctx, func(L *lua.LState) error { return L.DoFile(path) })
}

func (s *State) DoString(ctx context.Context, code string) error {
	return s.run(ctx, func(L *lua.LState) error { return L.DoString(code) })
}

// run executes fn with the timeout applied and the call counter reset.
// A Go panic inside the script becomes an error.
func (s *State) run(ctx context.Context, fn func(*lua.LState) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStateClosed
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	s.sandbox.ResetCallCount()
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return scriptError(ctx, fn(s.L))
}

// scriptError maps a failed run onto ErrExecutionTimeout, the context's
// error or the Go error a host function raised.
func scriptError(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
	case ctx.Err() != nil:
		return ctx.Err()
	}
	if hostErr := hostError(err); hostErr != nil {
		return hostErr
	}
	return err
}

// GetGlobal returns a global, or LNil once the state is closed.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// PreloadModule lets scripts require(name) a table of funcs.
func (s *State) PreloadModule(name string, funcs map[string]lua.LGFunction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.sandbox.AllowModule(name)
	s.L.PreloadModule(name, func(L *lua.LState) int {
		L.Push(L.SetFuncs(L.NewTable(), funcs))
		return 1
	})
}

func (s *State) Sandbox() *Sandbox { return s.sandbox }

func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases the state. Later runs fail with ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.L.Close()
		s.closed = true
	}
	return nil
}
