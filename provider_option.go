package di

import (
	"context"

	"github.com/sectrean/di-context/internal/errors"
)

// ProviderOption can be used when building a provider with [Singleton], [Transient],
// [SingleOwner] or their Async variants.
//
// Available options:
//   - [WithName] registers the provider under a name.
//   - [WithEagerCreate] creates the instance when the container is flushed.
//   - [WithCondition] only registers the provider if a condition holds when the container is flushed.
//   - [WithClone] sets the function used to copy singleton instances.
//   - [Bind] registers a provider for another type derived from this one.
//   - [WithCloseFunc] sets the function called for cached instances when the container is closed.
//   - [IgnoreCloser] skips closing cached instances when the container is closed.
type ProviderOption interface {
	applyProvider(p providerConfig) error
}

// providerConfig is implemented by *Provider[T].
type providerConfig interface {
	setName(name string)
	setEagerCreate(eager bool)
	setCondition(fn func(*Container) bool)
	ignoreCloser()
	providerDefinition() Definition
}

type providerOption func(providerConfig) error

func (o providerOption) applyProvider(p providerConfig) error {
	return o(p)
}

// WithName registers the provider under the given name.
// Providers for the same type with different names are independent.
func WithName(name string) ProviderOption {
	return providerOption(func(p providerConfig) error {
		p.setName(name)
		return nil
	})
}

// WithEagerCreate creates the instance when the container is flushed, rather than on
// first use.
//
// Transient providers are only created eagerly if the container was created with
// WithAllowOnlySingleEagerCreate(false). The eager transient instance is discarded.
func WithEagerCreate(eager bool) ProviderOption {
	return providerOption(func(p providerConfig) error {
		p.setEagerCreate(eager)
		return nil
	})
}

// WithCondition defers registration of the provider until the container is flushed.
//
// The condition is evaluated once, against the container at flush time. If it returns
// false the provider and its bindings are dropped.
func WithCondition(condition func(*Container) bool) ProviderOption {
	return providerOption(func(p providerConfig) error {
		p.setCondition(condition)
		return nil
	})
}

// WithClone sets the function used to copy the cached instance of a singleton provider.
//
// The default copies the value with a plain assignment.
// This option will return an error if the provider is not a singleton for T.
func WithClone[T any](clone func(T) T) ProviderOption {
	return providerOption(func(pc providerConfig) error {
		p, ok := pc.(*Provider[T])
		if !ok {
			return errors.Errorf("with clone: clone func type %s does not match provider type %s",
				TypeOf[T](), pc.providerDefinition().Key.Type)
		}
		if p.definition.Scope != SingletonScope {
			return errors.Errorf("with clone: %s provider instances are not cloned", p.definition.Scope)
		}
		if clone == nil {
			return errors.New("with clone: clone func is nil")
		}

		p.clone = clone
		return nil
	})
}

// Bind registers a provider for U that is derived from the provider for T.
//
// The bound provider has the same name, scope, color, eagerness and condition.
// When resolved it gets the T instance the same way the source provider would hand it out
// and returns transform(t). This is typically used to expose a concrete type as an interface:
//
//	di.Singleton(NewDatabase, di.Bind(func(db *Database) Store { return db }))
//
// Bind can be used more than once on the same provider.
// This option will return an error if the provider is not for T.
func Bind[T, U any](transform func(T) U) ProviderOption {
	return providerOption(func(pc providerConfig) error {
		p, ok := pc.(*Provider[T])
		if !ok {
			return errors.Errorf("bind: source type %s does not match provider type %s",
				TypeOf[T](), pc.providerDefinition().Key.Type)
		}
		if transform == nil {
			return errors.Errorf("bind: transform func to %s is nil", TypeOf[U]())
		}

		p.binders = append(p.binders, func(source *Provider[T]) *DynProvider {
			return bindProvider(source, transform).dynProvider()
		})
		return nil
	})
}

// WithCloseFunc sets the function called for the cached instance when the container
// is closed or the provider is unloaded.
//
// This is useful if a type has a method called Shutdown or Stop instead of Close:
//
//	di.WithCloseFunc(func(ctx context.Context, s *http.Server) error {
//		return s.Shutdown(ctx)
//	})
//
// This option will return an error if the provider is not for T.
func WithCloseFunc[T any](f func(context.Context, T) error) ProviderOption {
	return providerOption(func(pc providerConfig) error {
		p, ok := pc.(*Provider[T])
		if !ok {
			return errors.Errorf("with close func: close func type %s does not match provider type %s",
				TypeOf[T](), pc.providerDefinition().Key.Type)
		}

		p.closerFactory = func(v T) Closer {
			return closeFunc(func(ctx context.Context) error {
				return f(ctx, v)
			})
		}
		return nil
	})
}

// IgnoreCloser is used when you do not want the cached instance to be closed by the container.
//
// This is useful when you want to manage the lifecycle of an instance outside of the Container.
func IgnoreCloser() ProviderOption {
	return providerOption(func(pc providerConfig) error {
		pc.ignoreCloser()
		return nil
	})
}
