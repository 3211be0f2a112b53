package render

import (
	"fmt"
	"sort"
	"sync"
)

// Registry stores compositors by name, providing discovery and duplication
// safeguards.
type Registry struct {
	mu          sync.RWMutex
	compositors map[string]Compositor
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		compositors: make(map[string]Compositor),
	}
}

// Register adds a compositor by its Name(). Duplicate names return an error.
func (r *Registry) Register(compositor Compositor) error {
	if compositor == nil {
		return fmt.Errorf("render: compositor is required")
	}
	name := compositor.Name()
	if name == "" {
		return fmt.Errorf("render: compositor name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.compositors[name]; exists {
		return fmt.Errorf("render: compositor %q already registered", name)
	}

	r.compositors[name] = compositor
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(compositor Compositor) {
	if err := r.Register(compositor); err != nil {
		panic(err)
	}
}

// Get retrieves a compositor by name.
func (r *Registry) Get(name string) (Compositor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	compositor, ok := r.compositors[name]
	if !ok {
		return nil, fmt.Errorf("render: compositor %q not found", name)
	}
	return compositor, nil
}

// List returns a sorted list of compositor names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.compositors))
	for name := range r.compositors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a compositor is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.compositors[name]
	return ok
}
