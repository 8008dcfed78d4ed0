package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrRendererNotFound is wrapped by lookups for unknown names.
var ErrRendererNotFound = errors.New("render: renderer not found")

// Registry maps names and aliases to renderers. Names are matched without
// regard to case. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
	aliases   map[string]string
	order     []string
	fallback  string
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[string]Renderer),
		aliases:   make(map[string]string),
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds renderer under its Name() plus any aliases. A name or alias
// that is already taken is an error and leaves the registry unchanged.
func (r *Registry) Register(renderer Renderer, aliases ...string) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	name := normalizeName(renderer.Name())
	if name == "" {
		return errors.New("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	keys := []string{name}
	for _, alias := range aliases {
		if key := normalizeName(alias); key != "" && key != name {
			keys = append(keys, key)
		}
	}
	for _, key := range keys {
		if r.taken(key) {
			return fmt.Errorf("render: renderer %q already registered", key)
		}
	}

	r.renderers[name] = renderer
	r.order = append(r.order, name)
	for _, alias := range keys[1:] {
		r.aliases[alias] = name
	}
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(renderer Renderer, aliases ...string) {
	if err := r.Register(renderer, aliases...); err != nil {
		panic(err)
	}
}

// SetFallback names the renderer Resolve returns for an empty name.
func (r *Registry) SetFallback(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key, ok := r.canonical(normalizeName(name))
	if !ok {
		return fmt.Errorf("%w: %q", ErrRendererNotFound, name)
	}
	r.fallback = key
	return nil
}

// Get retrieves a renderer by name or alias.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key, ok := r.canonical(normalizeName(name))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRendererNotFound, name)
	}
	return r.renderers[key], nil
}

// Resolve returns the named renderer. An empty name selects the fallback, or
// the first registered renderer when no fallback was set.
func (r *Registry) Resolve(name string) (Renderer, error) {
	if normalizeName(name) != "" {
		return r.Get(name)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.fallback != "" {
		return r.renderers[r.fallback], nil
	}
	if len(r.order) == 0 {
		return nil, errors.New("render: no renderers registered")
	}
	return r.renderers[r.order[0]], nil
}

// Names returns the sorted canonical renderer names. Aliases are omitted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}

// Has reports whether name or alias resolves to a renderer.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.canonical(normalizeName(name))
	return ok
}

func (r *Registry) canonical(key string) (string, bool) {
	if _, ok := r.renderers[key]; ok {
		return key, true
	}
	target, ok := r.aliases[key]
	return target, ok
}

func (r *Registry) taken(key string) bool {
	_, ok := r.canonical(key)
	return ok
}
