package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrRendererNotFound is returned for names nobody registered.
	ErrRendererNotFound = errors.New("render: renderer not found")
	// ErrNoRenderers is returned by Resolve on an empty registry.
	ErrNoRenderers = errors.New("render: no renderers registered")
)

// Registry holds the renderers a mount may pick from. It remembers the order
// renderers were registered in so Resolve can fall back to the first one.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
	order     []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]Renderer)}
}

// Register adds a renderer under its trimmed Name().
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	name := strings.TrimSpace(renderer.Name())
	if name == "" {
		return errors.New("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.renderers[name] = renderer
	r.order = append(r.order, name)
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get returns the renderer registered as name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if renderer, ok := r.renderers[strings.TrimSpace(name)]; ok {
		return renderer, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrRendererNotFound, name)
}

// Resolve picks the renderer for a mount. An explicit name must be
// registered. A blank name tries each fallback in turn and then the first
// renderer registered.
func (r *Registry) Resolve(name string, fallbacks ...string) (Renderer, error) {
	if strings.TrimSpace(name) != "" {
		return r.Get(name)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, candidate := range fallbacks {
		if renderer, ok := r.renderers[strings.TrimSpace(candidate)]; ok {
			return renderer, nil
		}
	}
	if len(r.order) == 0 {
		return nil, ErrNoRenderers
	}
	return r.renderers[r.order[0]], nil
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.renderers[strings.TrimSpace(name)]
	return ok
}
