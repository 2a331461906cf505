package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/chriserin/stepmatch/internal/binding"
)

// ErrSealed is returned when adding a binding after the registry was marked
// ready.
var ErrSealed = errors.New("registry: already ready")

// Registry holds every known step definition binding. It is built once,
// marked ready, and from then on only read.
type Registry struct {
	mu     sync.RWMutex
	ready  bool
	all    []*binding.Binding
	byKind map[binding.Kind][]*binding.Binding
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{byKind: map[binding.Kind][]*binding.Binding{}}
}

// Add registers a binding.
func (r *Registry) Add(b *binding.Binding) error {
	if b == nil {
		return fmt.Errorf("registry: binding is required")
	}
	if !b.Kind().Valid() {
		return fmt.Errorf("registry: invalid step kind for %s", b)
	}
	if b.Handler().ID == "" {
		return fmt.Errorf("registry: handler id is required for %q", b.Expression())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ready {
		return ErrSealed
	}
	r.all = append(r.all, b)
	r.byKind[b.Kind()] = append(r.byKind[b.Kind()], b)
	return nil
}

// MustAdd panics if registration fails.
func (r *Registry) MustAdd(b *binding.Binding) {
	if err := r.Add(b); err != nil {
		panic(err)
	}
}

// MarkReady seals the registry.
func (r *Registry) MarkReady() {
	r.mu.Lock()
	r.ready = true
	r.mu.Unlock()
}

func (r *Registry) Ready() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ready
}

// ConsideredBindings returns the bindings that could possibly match a step of
// the given kind, in registration order. The text is not used to narrow the
// set further.
func (r *Registry) ConsideredBindings(kind binding.Kind, _ string) []*binding.Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*binding.Binding(nil), r.byKind[kind]...)
}

// Bindings returns every binding in registration order.
func (r *Registry) Bindings() []*binding.Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*binding.Binding(nil), r.all...)
}
