package dispatcher

import (
	"slices"
	"strings"
	"sync"

	"github.com/dshills/gridstorm/internal/dispatcher/handler"
)

// routes resolves action names to handlers. A handler registered for an
// exact name wins over the namespace handler of its prefix.
type routes struct {
	mu         sync.RWMutex
	exact      map[string]handler.Handler
	namespaces map[string]handler.NamespaceHandler
}

func newRoutes() *routes {
	return &routes{
		exact:      make(map[string]handler.Handler),
		namespaces: make(map[string]handler.NamespaceHandler),
	}
}

func (r *routes) handle(name string, h handler.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exact[name] = h
}

func (r *routes) remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.exact, name)
}

func (r *routes) mount(ns handler.NamespaceHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.namespaces[ns.Namespace()] = ns
}

// resolve returns the handler for name, or nil.
func (r *routes) resolve(name string) handler.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if h, ok := r.exact[name]; ok {
		return h
	}
	prefix, _, ok := strings.Cut(name, ".")
	if !ok {
		return nil
	}
	if ns, ok := r.namespaces[prefix]; ok && ns.CanHandle(name) {
		return handler.Namespaced(ns)
	}
	return nil
}

// namespaceNames returns the mounted namespaces, sorted.
func (r *routes) namespaceNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.namespaces))
	for name := range r.namespaces {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// actions returns every routable action name, sorted and unique.
func (r *routes) actions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for name := range r.exact {
		names = append(names, name)
	}
	for _, ns := range r.namespaces {
		names = append(names, ns.Actions()...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}
