package dicontext

import (
	"context"

	"github.com/sectrean/di-context"
	"github.com/sectrean/di-context/internal/errors"
)

type containerContextKey struct{}

// WithContainer returns a new [context.Context] that carries the provided [di.Container].
func WithContainer(ctx context.Context, c *di.Container) context.Context {
	return context.WithValue(ctx, containerContextKey{}, c)
}

// Container returns the [di.Container] stored on the [context.Context], if present.
func Container(ctx context.Context) *di.Container {
	if c, ok := ctx.Value(containerContextKey{}).(*di.Container); ok {
		return c
	}
	return nil
}

// Resolve an instance of T from the [di.Container] stored on the [context.Context].
//
// Both sync and async constructors can be run; ctx is passed to async constructors.
// Failures that [di.ResolveAsync] would panic with are returned as errors.
func Resolve[T any](ctx context.Context) (T, error) {
	return ResolveWithName[T](ctx, "")
}

// ResolveWithName is like [Resolve] for the provider registered with the given name.
func ResolveWithName[T any](ctx context.Context, name string) (val T, err error) {
	key := di.NewKey[T](name)

	c := Container(ctx)
	if c == nil {
		return val, errors.Errorf("resolve %s from context: container not found on context", key)
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		rerr, ok := r.(error)
		if !ok {
			panic(r)
		}
		err = errors.Wrap(rerr, "resolve from context")
	}()

	val = di.ResolveWithNameAsync[T](ctx, c, name)
	return val, nil
}

// MustResolve resolves an instance of T from the [di.Container] stored on the
// [context.Context]. It panics if the instance cannot be resolved.
func MustResolve[T any](ctx context.Context) T {
	val, err := Resolve[T](ctx)
	if err != nil {
		panic(err)
	}
	return val
}
