package core

import "slices"

// Registry maps names to values and lists them in a stable order. Walk
// every entry through Names, never through the map.
type Registry[T any] struct {
	entries map[string]T
}

// NewRegistry returns an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{entries: map[string]T{}}
}

// Register adds or replaces the value under name. Empty names are ignored.
func (r *Registry[T]) Register(name string, v T) {
	if name == "" {
		return
	}
	r.entries[name] = v
}

// Lookup returns the value registered under name.
func (r *Registry[T]) Lookup(name string) (T, bool) {
	v, ok := r.entries[name]
	return v, ok
}

// Names returns the registered names in sorted order.
func (r *Registry[T]) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len reports how many entries are registered.
func (r *Registry[T]) Len() int { return len(r.entries) }
