package di

import (
	"slices"

	"github.com/sectrean/di-context/internal/errors"
)

// ProviderRegistry holds the providers loaded into a [Container].
type ProviderRegistry struct {
	providers map[Key]*DynProvider
}

func newProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[Key]*DynProvider),
	}
}

// insert adds the provider and reports whether it replaced an existing one.
//
// It panics if the key is already registered and allowOverride is false.
func (r *ProviderRegistry) insert(p *DynProvider, allowOverride bool) bool {
	key := p.definition.Key

	existing, ok := r.providers[key]
	if ok && !allowOverride {
		errors.Panicf(ErrProviderExists, "register %s: existing %s", p.definition, existing.definition)
	}

	r.providers[key] = p
	return ok
}

func (r *ProviderRegistry) remove(key Key) (*DynProvider, bool) {
	p, ok := r.providers[key]
	if ok {
		delete(r.providers, key)
	}
	return p, ok
}

// Get returns the provider registered for key.
func (r *ProviderRegistry) Get(key Key) (*DynProvider, bool) {
	p, ok := r.providers[key]
	return p, ok
}

// Contains reports whether a provider is registered for key.
func (r *ProviderRegistry) Contains(key Key) bool {
	_, ok := r.providers[key]
	return ok
}

// Len returns the number of registered providers.
func (r *ProviderRegistry) Len() int {
	return len(r.providers)
}

// Keys returns the registered keys, sorted by type and then by name.
func (r *ProviderRegistry) Keys() []Key {
	keys := make([]Key, 0, len(r.providers))
	for key := range r.providers {
		keys = append(keys, key)
	}
	return sortKeys(keys)
}

// KeysOf returns the registered keys for t, sorted by name.
func (r *ProviderRegistry) KeysOf(t Type) []Key {
	var keys []Key
	for key := range r.providers {
		if key.Type == t {
			keys = append(keys, key)
		}
	}
	return sortKeys(keys)
}

// Definitions returns the definitions of the registered providers, sorted by key.
func (r *ProviderRegistry) Definitions() []Definition {
	keys := r.Keys()
	defs := make([]Definition, len(keys))
	for i, key := range keys {
		defs[i] = r.providers[key].definition
	}
	return defs
}

func getProvider[T any](r *ProviderRegistry, key Key) (*Provider[T], bool) {
	p, ok := r.providers[key]
	if !ok {
		return nil, false
	}
	return ProviderAs[T](p)
}

// SingleRegistry holds the instances cached by a [Container].
type SingleRegistry struct {
	singles map[Key]*DynSingle
	// order holds the keys in the order their instances were cached.
	order []Key
}

func newSingleRegistry() *SingleRegistry {
	return &SingleRegistry{
		singles: make(map[Key]*DynSingle),
	}
}

func (r *SingleRegistry) insert(key Key, s *DynSingle) {
	if _, ok := r.singles[key]; ok {
		r.order = slices.DeleteFunc(r.order, func(k Key) bool { return k == key })
	}
	r.singles[key] = s
	r.order = append(r.order, key)
}

func (r *SingleRegistry) remove(key Key) (*DynSingle, bool) {
	s, ok := r.singles[key]
	if !ok {
		return nil, false
	}

	delete(r.singles, key)
	r.order = slices.DeleteFunc(r.order, func(k Key) bool { return k == key })
	return s, true
}

// Get returns the instance cached for key.
func (r *SingleRegistry) Get(key Key) (*DynSingle, bool) {
	s, ok := r.singles[key]
	return s, ok
}

// Contains reports whether an instance is cached for key.
func (r *SingleRegistry) Contains(key Key) bool {
	_, ok := r.singles[key]
	return ok
}

// Len returns the number of cached instances.
func (r *SingleRegistry) Len() int {
	return len(r.singles)
}

// Keys returns the keys of the cached instances, sorted by type and then by name.
func (r *SingleRegistry) Keys() []Key {
	return sortKeys(slices.Clone(r.order))
}

// KeysOf returns the keys of the cached instances of t, sorted by name.
func (r *SingleRegistry) KeysOf(t Type) []Key {
	var keys []Key
	for _, key := range r.order {
		if key.Type == t {
			keys = append(keys, key)
		}
	}
	return sortKeys(keys)
}

// getOwned returns a copy of the cached instance.
// It returns false if nothing is cached or the instance cannot be copied.
func getOwned[T any](r *SingleRegistry, key Key) (T, bool) {
	s, ok := SingleAs[T](r.singles[key])
	if !ok {
		var zero T
		return zero, false
	}
	return s.Owned()
}

// getRef returns the cached instance.
func getRef[T any](r *SingleRegistry, key Key) (T, bool) {
	s, ok := SingleAs[T](r.singles[key])
	if !ok {
		var zero T
		return zero, false
	}
	return s.Get(), true
}
