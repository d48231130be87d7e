package lua

import (
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// Capability widens what a sandboxed script may reach.
type Capability string

const (
	// CapabilityFileRead provides io.lines and io.read_all.
	CapabilityFileRead Capability = "filesystem.read"
	// CapabilityUnsafe opens the io, os and debug libraries.
	CapabilityUnsafe Capability = "unsafe"
)

// stdModules may always be required.
var stdModules = []string{"string", "table", "math"}

// Sandbox removes the loaders from a state, limits require and counts
// host calls.
type Sandbox struct {
	L *lua.LState

	limit int64
	calls atomic.Int64

	mu      sync.RWMutex
	granted map[Capability]bool
	modules map[string]bool
}

// NewSandbox restricts L. A callLimit of zero or less counts calls without
// limiting them.
func NewSandbox(L *lua.LState, callLimit int64) *Sandbox {
	s := &Sandbox{
		L:       L,
		limit:   callLimit,
		granted: make(map[Capability]bool),
		modules: make(map[string]bool),
	}
	s.install()
	return s
}

func (s *Sandbox) install() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		s.L.SetGlobal(name, lua.LNil)
	}
	if pkg, ok := s.L.GetGlobal("package").(*lua.LTable); ok {
		pkg.RawSetString("path", lua.LString(""))
		pkg.RawSetString("cpath", lua.LString(""))
	}

	require := s.L.GetGlobal("require")
	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if !s.canRequire(name) {
			L.RaiseError("module %q is not available", name)
			return 0
		}
		if name == "io" {
			L.Push(L.GetGlobal("io"))
			return 1
		}
		L.Push(require)
		L.Push(lua.LString(name))
		L.Call(1, 1)
		return 1
	}))
}

func (s *Sandbox) canRequire(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.granted[CapabilityUnsafe], s.modules[name], slices.Contains(stdModules, name):
		return true
	case name == "io":
		return s.granted[CapabilityFileRead]
	}
	return false
}

// AllowModule lets require return a module the host preloaded.
func (s *Sandbox) AllowModule(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modules[name] = true
}

func (s *Sandbox) ResetCallCount() { s.calls.Store(0) }

func (s *Sandbox) CallCount() int64 { return s.calls.Load() }

// CountCall counts one host call and reports whether it exceeds the limit.
func (s *Sandbox) CountCall() bool {
	n := s.calls.Add(1)
	return s.limit > 0 && n > s.limit
}

// Grant enables c and installs the libraries it provides.
func (s *Sandbox) Grant(c Capability) {
	s.mu.Lock()
	s.granted[c] = true
	s.mu.Unlock()

	switch c {
	case CapabilityFileRead:
		io := s.L.NewTable()
		io.RawSetString("lines", s.L.NewFunction(ioLines))
		io.RawSetString("read_all", s.L.NewFunction(ioReadAll))
		s.L.SetGlobal("io", io)
	case CapabilityUnsafe:
		lua.OpenIo(s.L)
		lua.OpenOs(s.L)
		lua.OpenDebug(s.L)
	}
}

// Revoke disables c for require. Libraries already installed stay.
func (s *Sandbox) Revoke(c Capability) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.granted, c)
}

func (s *Sandbox) HasCapability(c Capability) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.granted[c]
}

// Capabilities returns the granted capabilities, sorted.
func (s *Sandbox) Capabilities() []Capability {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.granted))
}

// io.lines(path) iterates over the lines of a file without line endings.
func ioLines(L *lua.LState) int {
	data, err := os.ReadFile(L.CheckString(1))
	if err != nil {
		L.RaiseError("cannot open file: %v", err)
		return 0
	}
	lines := slices.Collect(strings.Lines(string(data)))
	L.Push(L.NewFunction(func(L *lua.LState) int {
		if len(lines) == 0 {
			return 0
		}
		L.Push(lua.LString(strings.TrimRight(lines[0], "\r\n")))
		lines = lines[1:]
		return 1
	}))
	return 1
}

// io.read_all(path) -> content | nil, message
func ioReadAll(L *lua.LState) int {
	data, err := os.ReadFile(L.CheckString(1))
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LString(data))
	return 1
}
