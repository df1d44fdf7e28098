package directory

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Backend names selectable via configuration.
const (
	// BackendFile is the JSON-file-backed store.
	BackendFile = "file"

	// BackendMongo is the MongoDB-backed store.
	BackendMongo = "mongo"
)

// OpenFunc opens a concrete directory backend.
type OpenFunc func(ctx context.Context) (Service, error)

// Registry maps backend names to their open functions. It is built per
// invocation from configuration rather than held in process-wide state.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]OpenFunc
}

// NewRegistry returns an empty backend registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]OpenFunc)}
}

// Register adds a backend under the given name, replacing any previous
// registration.
func (r *Registry) Register(name string, open OpenFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[name] = open
}

// Open opens the named backend.
func (r *Registry) Open(ctx context.Context, name string) (Service, error) {
	r.mu.RLock()
	open, ok := r.backends[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown directory backend %q (available: %v)", name, r.Names())
	}
	return open(ctx)
}

// Names returns the registered backend names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
