package utils

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
)

// Registry is a generic, thread-safe name to value registry
type Registry[K cmp.Ordered, V any] struct {
	mu    sync.RWMutex
	kind  string
	items map[K]V
}

// NewRegistry creates a registry; kind names the registered things in errors
func NewRegistry[K cmp.Ordered, V any](kind string) *Registry[K, V] {
	return &Registry[K, V]{
		kind:  kind,
		items: make(map[K]V),
	}
}

// Register adds an item, refusing duplicates
func (r *Registry[K, V]) Register(key K, value V) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[key]; exists {
		return fmt.Errorf("%s %v is already registered", r.kind, key)
	}
	r.items[key] = value
	return nil
}

// Get retrieves an item
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.items[key]
	return value, ok
}

// GetOrError retrieves an item or describes what is available
func (r *Registry[K, V]) GetOrError(key K) (V, error) {
	value, ok := r.Get(key)
	if !ok {
		return value, fmt.Errorf("unknown %s %v (available: %v)", r.kind, key, r.Keys())
	}
	return value, nil
}

// Keys returns the registered keys in order
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]K, 0, len(r.items))
	for key := range r.items {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// Size returns the number of registered items
func (r *Registry[K, V]) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
