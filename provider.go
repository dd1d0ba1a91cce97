package di

import (
	"context"
	"sync"

	"github.com/sectrean/di-context/internal/errors"
)

// AnyProvider is implemented by [*Provider] and [*DynProvider].
//
// Modules return their providers as AnyProvider so providers for different types
// can be listed together.
type AnyProvider interface {
	// Definition returns the definition of the provider.
	Definition() Definition

	dynProvider() *DynProvider
}

type constructor[T any] struct {
	sync  func(*Container) T
	async func(context.Context, *Container) T
}

func (c constructor[T]) color() Color {
	switch {
	case c.async != nil:
		return AsyncColor
	case c.sync != nil:
		return SyncColor
	default:
		return 0
	}
}

// Provider describes how to construct and cache instances of T.
//
// Create providers with [Singleton], [Transient], [SingleOwner] or their Async variants,
// and load them into a [Container] with a [Module].
// Providers are immutable once built.
type Provider[T any] struct {
	definition    Definition
	eagerCreate   bool
	condition     func(*Container) bool
	constructor   constructor[T]
	clone         func(T) T
	closerFactory func(T) Closer
	binders       []func(*Provider[T]) *DynProvider

	dynOnce sync.Once
	dyn     *DynProvider
}

// Singleton returns a provider that creates T once per key.
//
// The cached instance is copied for every [Resolve]. Use [WithClone] when a plain
// Go assignment does not make an independent copy and one is needed.
func Singleton[T any](fn func(*Container) T, opts ...ProviderOption) *Provider[T] {
	return newProvider("di.Singleton", SingletonScope, constructor[T]{sync: fn}, opts)
}

// SingletonAsync returns a [Singleton] provider with an async constructor.
func SingletonAsync[T any](fn func(context.Context, *Container) T, opts ...ProviderOption) *Provider[T] {
	return newProvider("di.SingletonAsync", SingletonScope, constructor[T]{async: fn}, opts)
}

// Transient returns a provider that creates a new T for every resolution.
func Transient[T any](fn func(*Container) T, opts ...ProviderOption) *Provider[T] {
	return newProvider("di.Transient", TransientScope, constructor[T]{sync: fn}, opts)
}

// TransientAsync returns a [Transient] provider with an async constructor.
func TransientAsync[T any](fn func(context.Context, *Container) T, opts ...ProviderOption) *Provider[T] {
	return newProvider("di.TransientAsync", TransientScope, constructor[T]{async: fn}, opts)
}

// SingleOwner returns a provider that creates T once per key and never copies it.
//
// Use [JustCreateSingle] to create the instance and [GetSingle] to access it.
// [Resolve] panics with [ErrNotSingletonOrTransient] for single owners.
func SingleOwner[T any](fn func(*Container) T, opts ...ProviderOption) *Provider[T] {
	return newProvider("di.SingleOwner", SingleOwnerScope, constructor[T]{sync: fn}, opts)
}

// SingleOwnerAsync returns a [SingleOwner] provider with an async constructor.
func SingleOwnerAsync[T any](fn func(context.Context, *Container) T, opts ...ProviderOption) *Provider[T] {
	return newProvider("di.SingleOwnerAsync", SingleOwnerScope, constructor[T]{async: fn}, opts)
}

func newProvider[T any](op string, scope Scope, ctor constructor[T], opts []ProviderOption) *Provider[T] {
	p := &Provider[T]{
		definition:    newDefinition[T](scope, ctor.color()),
		constructor:   ctor,
		closerFactory: closerFor[T],
	}
	if scope == SingletonScope {
		p.clone = identity[T]
	}

	if ctor.color() == 0 {
		errors.Panicf(ErrInvalidProvider, "%s %s: constructor is nil", op, p.definition.Key.Type)
	}

	err := applyOptions(opts, func(opt ProviderOption) error {
		if opt == nil {
			return nil
		}
		return opt.applyProvider(p)
	})
	if err != nil {
		panic(errors.Wrapf(errors.Join(ErrInvalidProvider, err), "%s %s", op, p.definition.Key.Type))
	}

	p.definition.Conditional = p.condition != nil
	return p
}

// neverConstruct returns a provider for an instance inserted directly into the container.
func neverConstruct[T any](name string, scope Scope) *Provider[T] {
	p := &Provider[T]{
		definition: newDefinition[T](scope, 0),
	}
	p.definition.Key.Name = name
	p.constructor.sync = func(*Container) T {
		panic(errors.Wrapf(ErrSingleNotFound, "%s was inserted and cannot be constructed", p.definition.Key))
	}
	if scope == SingletonScope {
		p.clone = identity[T]
	}
	return p
}

// Definition returns the definition of the provider.
func (p *Provider[T]) Definition() Definition {
	return p.definition
}

// EagerCreate reports whether the provider was built with [WithEagerCreate].
func (p *Provider[T]) EagerCreate() bool {
	return p.eagerCreate
}

// Condition returns the condition set with [WithCondition], or nil.
func (p *Provider[T]) Condition() func(*Container) bool {
	return p.condition
}

// BindingDefinitions returns the definitions of the providers created with [Bind].
func (p *Provider[T]) BindingDefinitions() []Definition {
	return p.dynProvider().BindingDefinitions()
}

func (p *Provider[T]) dynProvider() *DynProvider {
	p.dynOnce.Do(func() {
		dyn := &DynProvider{
			definition:          p.definition,
			eagerCreate:         p.eagerCreate,
			condition:           p.condition,
			eagerCreateFunction: newEagerCreateFunction[T](p.definition.Color),
			provider:            p,
		}
		for _, bind := range p.binders {
			bound := bind(p)
			dyn.bindingProviders = append(dyn.bindingProviders, bound)
			dyn.bindingDefinitions = append(dyn.bindingDefinitions, bound.definition)
		}
		p.dyn = dyn
	})
	return p.dyn
}

// setters used by ProviderOption

func (p *Provider[T]) setName(name string)                   { p.definition.Key.Name = name }
func (p *Provider[T]) setEagerCreate(eager bool)             { p.eagerCreate = eager }
func (p *Provider[T]) setCondition(fn func(*Container) bool) { p.condition = fn }
func (p *Provider[T]) ignoreCloser()                         { p.closerFactory = nil }
func (p *Provider[T]) providerDefinition() Definition        { return p.definition }

// bindProvider returns a provider for U that resolves the source T under the same name
// and transforms it. The bound instance is closed through its source only.
func bindProvider[T, U any](source *Provider[T], transform func(T) U) *Provider[U] {
	name := source.definition.Key.Name
	single := source.definition.Scope == SingleOwnerScope

	var ctor constructor[U]
	if source.constructor.async != nil {
		ctor.async = func(ctx context.Context, c *Container) U {
			if single {
				JustCreateSingleWithNameAsync[T](ctx, c, name)
				return transform(GetSingleWithName[T](c, name))
			}
			return transform(ResolveWithNameAsync[T](ctx, c, name))
		}
	} else {
		ctor.sync = func(c *Container) U {
			if single {
				JustCreateSingleWithName[T](c, name)
				return transform(GetSingleWithName[T](c, name))
			}
			return transform(ResolveWithName[T](c, name))
		}
	}

	bound := &Provider[U]{
		definition:  bindDefinition[U](source.definition),
		eagerCreate: source.eagerCreate,
		condition:   source.condition,
		constructor: ctor,
	}
	if bound.definition.Scope == SingletonScope {
		bound.clone = identity[U]
	}
	return bound
}

// DynProvider is a type-erased [Provider].
//
// Use [ProviderAs] to get the typed provider back.
type DynProvider struct {
	definition          Definition
	eagerCreate         bool
	condition           func(*Container) bool
	eagerCreateFunction eagerCreateFunction
	bindingProviders    []*DynProvider
	bindingDefinitions  []Definition

	provider any
}

// Definition returns the definition of the provider.
func (p *DynProvider) Definition() Definition {
	return p.definition
}

// Key returns the key of the provider.
func (p *DynProvider) Key() Key {
	return p.definition.Key
}

// EagerCreate reports whether the provider was built with [WithEagerCreate].
func (p *DynProvider) EagerCreate() bool {
	return p.eagerCreate
}

// Condition returns the condition set with [WithCondition], or nil.
func (p *DynProvider) Condition() func(*Container) bool {
	return p.condition
}

// BindingProviders returns the providers created with [Bind].
func (p *DynProvider) BindingProviders() []*DynProvider {
	return append([]*DynProvider(nil), p.bindingProviders...)
}

// BindingDefinitions returns the definitions of the providers created with [Bind].
func (p *DynProvider) BindingDefinitions() []Definition {
	return append([]Definition(nil), p.bindingDefinitions...)
}

func (p *DynProvider) dynProvider() *DynProvider {
	return p
}

// withBindings returns p followed by its binding providers.
func (p *DynProvider) withBindings() []*DynProvider {
	providers := make([]*DynProvider, 0, len(p.bindingProviders)+1)
	providers = append(providers, p)
	return append(providers, p.bindingProviders...)
}

// ProviderAs returns the typed provider if p provides T.
func ProviderAs[T any](p *DynProvider) (*Provider[T], bool) {
	if p == nil || p.definition.Key.Type != TypeOf[T]() {
		return nil, false
	}
	typed, ok := p.provider.(*Provider[T])
	return typed, ok
}

// eagerCreateFunction creates the instance for a key as part of [Container.Flush].
// Only one of the fields is set, matching the color of the constructor.
type eagerCreateFunction struct {
	sync  func(c *Container, name string)
	async func(ctx context.Context, c *Container, name string)
}

func newEagerCreateFunction[T any](color Color) eagerCreateFunction {
	switch color {
	case SyncColor:
		return eagerCreateFunction{
			sync: func(c *Container, name string) {
				state := justCreate[T](c, "di.Container.Flush", name, justCreateAllScopesForEagerCreate)
				c.eagerCreated(NewKey[T](name), state)
			},
		}
	case AsyncColor:
		return eagerCreateFunction{
			async: func(ctx context.Context, c *Container, name string) {
				state := justCreateAsync[T](ctx, c, "di.Container.FlushAsync", name, justCreateAllScopesForEagerCreate)
				c.eagerCreated(NewKey[T](name), state)
			},
		}
	default:
		return eagerCreateFunction{}
	}
}

func identity[T any](v T) T {
	return v
}
