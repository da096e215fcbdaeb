package render

import (
	"fmt"
	"sort"
	"sync"
)

// Registry stores kits by name, providing discovery and duplication
// safeguards. Hosts resolve the kit named in configuration through it.
type Registry struct {
	mu   sync.RWMutex
	kits map[string]Kit
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		kits: make(map[string]Kit),
	}
}

// Register adds a kit by its Name(). Duplicate names return an error.
func (r *Registry) Register(kit Kit) error {
	if kit == nil {
		return fmt.Errorf("render: kit is required")
	}
	name := kit.Name()
	if name == "" {
		return fmt.Errorf("render: kit name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.kits[name]; exists {
		return fmt.Errorf("render: kit %q already registered", name)
	}

	r.kits[name] = kit
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(kit Kit) {
	if err := r.Register(kit); err != nil {
		panic(err)
	}
}

// Get retrieves a kit by name.
func (r *Registry) Get(name string) (Kit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kit, ok := r.kits[name]
	if !ok {
		return nil, fmt.Errorf("render: kit %q not found", name)
	}
	return kit, nil
}

// MustGet panics if the kit is missing.
func (r *Registry) MustGet(name string) Kit {
	kit, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return kit
}

// List returns a sorted list of kit names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.kits))
	for name := range r.kits {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a kit is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.kits[name]
	return ok
}
