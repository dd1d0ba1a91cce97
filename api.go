package di

import (
	"context"

	"github.com/sectrean/di-context/internal/errors"
)

// Resolve returns an owned instance of T from the provider registered without a name.
//
// Singleton instances are created on first use and copied for every call.
// Transient instances are created for every call.
//
// Resolve panics if no provider is registered, if the provider is a single owner,
// or if the constructor is async. The panic value is an error wrapping one of
// [ErrProviderNotFound], [ErrNotSingletonOrTransient] or [ErrAsyncConstructor].
func Resolve[T any](c *Container) T {
	return ResolveWithName[T](c, "")
}

// ResolveWithName is like [Resolve] for the provider registered with the given name.
func ResolveWithName[T any](c *Container, name string) T {
	v, state := resolveKey[T](c, "di.Resolve", name, createThenReturnSingletonOrTransient)
	return mustResolve("di.Resolve", name, v, state)
}

// ResolveOption is like [Resolve] but returns false if no provider is registered
// or the provider is a single owner.
func ResolveOption[T any](c *Container) (T, bool) {
	return ResolveOptionWithName[T](c, "")
}

// ResolveOptionWithName is like [ResolveOption] for the provider registered with the given name.
func ResolveOptionWithName[T any](c *Container, name string) (T, bool) {
	v, state := resolveKey[T](c, "di.ResolveOption", name, createThenReturnSingletonOrTransient)
	return optionalResolve("di.ResolveOption", name, v, state)
}

// ResolveByType returns an owned instance from every provider registered for T,
// ordered by name. Single owner providers are skipped.
func ResolveByType[T any](c *Container) []T {
	c.checkOpen("di.ResolveByType")
	var instances []T
	for _, key := range c.providers.KeysOf(TypeOf[T]()) {
		v, state := resolveKey[T](c, "di.ResolveByType", key.Name, createThenReturnSingletonOrTransient)
		if state == stateReturn {
			instances = append(instances, v)
		}
	}
	return instances
}

// ResolveAsync is like [Resolve] but can run async constructors.
func ResolveAsync[T any](ctx context.Context, c *Container) T {
	return ResolveWithNameAsync[T](ctx, c, "")
}

// ResolveWithNameAsync is like [ResolveWithName] but can run async constructors.
func ResolveWithNameAsync[T any](ctx context.Context, c *Container, name string) T {
	v, state := resolveKeyAsync[T](ctx, c, "di.ResolveAsync", name, createThenReturnSingletonOrTransient)
	return mustResolve("di.ResolveAsync", name, v, state)
}

// ResolveOptionAsync is like [ResolveOption] but can run async constructors.
func ResolveOptionAsync[T any](ctx context.Context, c *Container) (T, bool) {
	return ResolveOptionWithNameAsync[T](ctx, c, "")
}

// ResolveOptionWithNameAsync is like [ResolveOptionWithName] but can run async constructors.
func ResolveOptionWithNameAsync[T any](ctx context.Context, c *Container, name string) (T, bool) {
	v, state := resolveKeyAsync[T](ctx, c, "di.ResolveOptionAsync", name, createThenReturnSingletonOrTransient)
	return optionalResolve("di.ResolveOptionAsync", name, v, state)
}

// ResolveByTypeAsync is like [ResolveByType] but can run async constructors.
func ResolveByTypeAsync[T any](ctx context.Context, c *Container) []T {
	c.checkOpen("di.ResolveByTypeAsync")
	var instances []T
	for _, key := range c.providers.KeysOf(TypeOf[T]()) {
		v, state := resolveKeyAsync[T](ctx, c, "di.ResolveByTypeAsync", key.Name, createThenReturnSingletonOrTransient)
		if state == stateReturn {
			instances = append(instances, v)
		}
	}
	return instances
}

// JustCreateSingle creates and caches the instance of a singleton or single owner
// provider registered without a name. It does nothing if the instance is already cached.
//
// Use [GetSingle] to access the cached instance.
// JustCreateSingle panics if no provider is registered, if the provider is transient,
// or if the constructor is async.
func JustCreateSingle[T any](c *Container) {
	JustCreateSingleWithName[T](c, "")
}

// JustCreateSingleWithName is like [JustCreateSingle] for the provider registered with the given name.
func JustCreateSingleWithName[T any](c *Container, name string) {
	state := justCreate[T](c, "di.JustCreateSingle", name, justCreateSingletonOrSingleOwner)
	mustJustCreate[T]("di.JustCreateSingle", name, state)
}

// TryJustCreateSingle is like [JustCreateSingle] but reports whether the instance is
// cached instead of panicking when the provider is missing or transient.
func TryJustCreateSingle[T any](c *Container) bool {
	return TryJustCreateSingleWithName[T](c, "")
}

// TryJustCreateSingleWithName is like [TryJustCreateSingle] for the provider registered with the given name.
func TryJustCreateSingleWithName[T any](c *Container, name string) bool {
	return justCreate[T](c, "di.TryJustCreateSingle", name, justCreateSingletonOrSingleOwner) == stateNoReturn
}

// JustCreateSinglesByType creates and caches the instances of every singleton and single
// owner provider registered for T. Transient providers are skipped.
func JustCreateSinglesByType[T any](c *Container) {
	c.checkOpen("di.JustCreateSinglesByType")
	for _, key := range c.providers.KeysOf(TypeOf[T]()) {
		justCreate[T](c, "di.JustCreateSinglesByType", key.Name, justCreateSingletonOrSingleOwner)
	}
}

// JustCreateSingleAsync is like [JustCreateSingle] but can run async constructors.
func JustCreateSingleAsync[T any](ctx context.Context, c *Container) {
	JustCreateSingleWithNameAsync[T](ctx, c, "")
}

// JustCreateSingleWithNameAsync is like [JustCreateSingleWithName] but can run async constructors.
func JustCreateSingleWithNameAsync[T any](ctx context.Context, c *Container, name string) {
	state := justCreateAsync[T](ctx, c, "di.JustCreateSingleAsync", name, justCreateSingletonOrSingleOwner)
	mustJustCreate[T]("di.JustCreateSingleAsync", name, state)
}

// TryJustCreateSingleAsync is like [TryJustCreateSingle] but can run async constructors.
func TryJustCreateSingleAsync[T any](ctx context.Context, c *Container) bool {
	return TryJustCreateSingleWithNameAsync[T](ctx, c, "")
}

// TryJustCreateSingleWithNameAsync is like [TryJustCreateSingleWithName] but can run async constructors.
func TryJustCreateSingleWithNameAsync[T any](ctx context.Context, c *Container, name string) bool {
	return justCreateAsync[T](ctx, c, "di.TryJustCreateSingleAsync", name, justCreateSingletonOrSingleOwner) == stateNoReturn
}

// JustCreateSinglesByTypeAsync is like [JustCreateSinglesByType] but can run async constructors.
func JustCreateSinglesByTypeAsync[T any](ctx context.Context, c *Container) {
	c.checkOpen("di.JustCreateSinglesByTypeAsync")
	for _, key := range c.providers.KeysOf(TypeOf[T]()) {
		justCreateAsync[T](ctx, c, "di.JustCreateSinglesByTypeAsync", key.Name, justCreateSingletonOrSingleOwner)
	}
}

// GetSingle returns the cached instance of T registered without a name.
//
// It never runs a constructor. GetSingle panics with [ErrSingleNotFound] if nothing is cached;
// call [JustCreateSingle] first.
func GetSingle[T any](c *Container) T {
	return GetSingleWithName[T](c, "")
}

// GetSingleWithName is like [GetSingle] for the instance cached with the given name.
func GetSingleWithName[T any](c *Container, name string) T {
	c.checkOpen("di.GetSingle")
	v, ok := getRef[T](c.singles, NewKey[T](name))
	if !ok {
		errors.Panicf(ErrSingleNotFound, "di.GetSingle %s", NewKey[T](name))
	}
	return v
}

// GetSingleOption is like [GetSingle] but returns false if nothing is cached.
func GetSingleOption[T any](c *Container) (T, bool) {
	return GetSingleOptionWithName[T](c, "")
}

// GetSingleOptionWithName is like [GetSingleOption] for the instance cached with the given name.
func GetSingleOptionWithName[T any](c *Container, name string) (T, bool) {
	c.checkOpen("di.GetSingleOption")
	return getRef[T](c.singles, NewKey[T](name))
}

// GetSinglesByType returns every cached instance of T, ordered by name.
func GetSinglesByType[T any](c *Container) []T {
	c.checkOpen("di.GetSinglesByType")
	var instances []T
	for _, key := range c.singles.KeysOf(TypeOf[T]()) {
		if v, ok := getRef[T](c.singles, key); ok {
			instances = append(instances, v)
		}
	}
	return instances
}

// ContainsProvider reports whether a provider for T is registered without a name.
func ContainsProvider[T any](c *Container) bool {
	return ContainsProviderWithName[T](c, "")
}

// ContainsProviderWithName reports whether a provider for T is registered with the given name.
func ContainsProviderWithName[T any](c *Container, name string) bool {
	c.checkOpen("di.ContainsProvider")
	return c.providers.Contains(NewKey[T](name))
}

// ContainsSingle reports whether an instance of T is cached without a name.
func ContainsSingle[T any](c *Container) bool {
	return ContainsSingleWithName[T](c, "")
}

// ContainsSingleWithName reports whether an instance of T is cached with the given name.
func ContainsSingleWithName[T any](c *Container, name string) bool {
	c.checkOpen("di.ContainsSingle")
	return c.singles.Contains(NewKey[T](name))
}

// GetProvider returns the provider for T registered without a name.
func GetProvider[T any](c *Container) (*Provider[T], bool) {
	return GetProviderWithName[T](c, "")
}

// GetProviderWithName returns the provider for T registered with the given name.
func GetProviderWithName[T any](c *Container, name string) (*Provider[T], bool) {
	c.checkOpen("di.GetProvider")
	return getProvider[T](c.providers, NewKey[T](name))
}

// GetProvidersByType returns every provider registered for T, ordered by name.
func GetProvidersByType[T any](c *Container) []*Provider[T] {
	c.checkOpen("di.GetProvidersByType")
	var providers []*Provider[T]
	for _, key := range c.providers.KeysOf(TypeOf[T]()) {
		if p, ok := getProvider[T](c.providers, key); ok {
			providers = append(providers, p)
		}
	}
	return providers
}
