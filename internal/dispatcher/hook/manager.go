package hook

import (
	"cmp"
	"slices"
	"sync"

	"github.com/dshills/gridstorm/internal/dispatcher/execctx"
	"github.com/dshills/gridstorm/internal/dispatcher/handler"
	"github.com/dshills/gridstorm/internal/input"
)

// Manager holds the hooks of one dispatcher. It is safe for concurrent
// use; hooks registered during a dispatch take effect on the next one.
type Manager struct {
	mu sync.RWMutex
	// hooks is kept sorted by descending priority. Equal priorities keep
	// registration order.
	hooks []Hook
}

func NewManager() *Manager {
	return &Manager{}
}

// Register adds h, replacing any hook of the same name.
func (m *Manager) Register(h Hook) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hooks := slices.DeleteFunc(slices.Clone(m.hooks), func(x Hook) bool {
		return x.Name() == h.Name()
	})
	hooks = append(hooks, h)
	slices.SortStableFunc(hooks, func(a, b Hook) int {
		return cmp.Compare(b.Priority(), a.Priority())
	})
	m.hooks = hooks
}

// Unregister removes the hook called name and reports whether it existed.
func (m *Manager) Unregister(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.IndexFunc(m.hooks, func(h Hook) bool { return h.Name() == name })
	if i < 0 {
		return false
	}
	m.hooks = slices.Delete(slices.Clone(m.hooks), i, i+1)
	return true
}

// Clear removes every hook.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = nil
}

// Names lists the registered hooks in pre-dispatch order.
func (m *Manager) Names() []string {
	hooks := m.snapshot()
	names := make([]string, len(hooks))
	for i, h := range hooks {
		names[i] = h.Name()
	}
	return names
}

// Len returns the number of registered hooks.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hooks)
}

// RunPre runs the pre-dispatch hooks. When one cancels it stops and
// returns that hook's name and false.
func (m *Manager) RunPre(action *input.Action, ctx *execctx.ExecutionContext) (string, bool) {
	for _, h := range m.snapshot() {
		pre, ok := h.(PreDispatchHook)
		if ok && !pre.PreDispatch(action, ctx) {
			return h.Name(), false
		}
	}
	return "", true
}

// RunPost runs the post-dispatch hooks, lowest priority first, so the
// highest priority hook sees the final result.
func (m *Manager) RunPost(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	hooks := m.snapshot()
	for i := len(hooks) - 1; i >= 0; i-- {
		if post, ok := hooks[i].(PostDispatchHook); ok {
			post.PostDispatch(action, ctx, result)
		}
	}
}

// snapshot returns the current slice. Writers always replace m.hooks, so
// the returned slice is never mutated.
func (m *Manager) snapshot() []Hook {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hooks
}
