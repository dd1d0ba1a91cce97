package di

import (
	"context"
	"fmt"

	"github.com/sectrean/di-context/internal/errors"
)

// behaviour selects what a resolution does with the instance.
type behaviour uint8

const (
	// createThenReturnSingletonOrTransient hands out an owned instance.
	createThenReturnSingletonOrTransient behaviour = iota
	// justCreateAllScopesForEagerCreate creates the instance as part of a flush.
	// Transient instances are discarded.
	justCreateAllScopesForEagerCreate
	// justCreateSingletonOrSingleOwner caches the instance without handing it out.
	justCreateSingletonOrSingleOwner
)

func (b behaviour) String() string {
	switch b {
	case createThenReturnSingletonOrTransient:
		return "CreateThenReturnSingletonOrTransient"
	case justCreateAllScopesForEagerCreate:
		return "JustCreateAllScopesForEagerCreate"
	case justCreateSingletonOrSingleOwner:
		return "JustCreateSingletonOrSingleOwner"
	default:
		return fmt.Sprintf("Unknown Behaviour %d", b)
	}
}

// resolveState is the outcome of a resolution.
type resolveState uint8

const (
	stateContinue resolveState = iota
	stateReturn
	stateNoReturn
	stateNotFoundProvider
	stateNotSingletonOrTransient
	stateNotSingletonOrSingleOwner
)

func (s resolveState) err() error {
	switch s {
	case stateNotFoundProvider:
		return ErrProviderNotFound
	case stateNotSingletonOrTransient:
		return ErrNotSingletonOrTransient
	case stateNotSingletonOrSingleOwner:
		return ErrNotSingletonOrSingleOwner
	default:
		return nil
	}
}

// holder carries what the construction step needs from the provider.
type holder[T any] struct {
	key           Key
	definition    *Definition
	constructor   constructor[T]
	clone         func(T) T
	closerFactory func(T) Closer
}

// beforeResolve looks up the provider and the cache for key.
//
// It returns stateContinue with a holder if the constructor has to run.
func beforeResolve[T any](c *Container, key Key, b behaviour) (T, resolveState, holder[T]) {
	var zero T

	p, ok := getProvider[T](c.providers, key)
	if !ok {
		return zero, stateNotFoundProvider, holder[T]{}
	}

	if c.singles.Contains(key) {
		if b != createThenReturnSingletonOrTransient {
			return zero, stateNoReturn, holder[T]{}
		}
		if v, ok := getOwned[T](c.singles, key); ok {
			return v, stateReturn, holder[T]{}
		}
		return zero, stateNotSingletonOrTransient, holder[T]{}
	}

	scope := p.definition.Scope
	switch {
	case b == createThenReturnSingletonOrTransient && scope == SingleOwnerScope:
		return zero, stateNotSingletonOrTransient, holder[T]{}
	case b == justCreateSingletonOrSingleOwner && scope == TransientScope:
		return zero, stateNotSingletonOrSingleOwner, holder[T]{}
	}

	return zero, stateContinue, holder[T]{
		key:           key,
		definition:    &p.definition,
		constructor:   p.constructor,
		clone:         p.clone,
		closerFactory: p.closerFactory,
	}
}

// construct runs fn with key on the dependency chain.
func construct[T any](c *Container, h holder[T], fn func() T) T {
	c.chain.Enter(h.key)
	defer c.chain.Leave()

	instance := fn()
	c.metrics.constructed(*h.definition)
	return instance
}

// afterResolve caches the new instance as the scope and behaviour require.
func afterResolve[T any](c *Container, h holder[T], b behaviour, instance T) (T, resolveState) {
	var zero T
	scope := h.definition.Scope

	switch {
	case b == createThenReturnSingletonOrTransient && scope == TransientScope:
		return instance, stateReturn

	case b == createThenReturnSingletonOrTransient && scope == SingletonScope:
		cacheSingle(c, h, instance)
		return h.clone(instance), stateReturn

	case b == justCreateAllScopesForEagerCreate && scope == TransientScope:
		return zero, stateNoReturn

	case b != createThenReturnSingletonOrTransient && scope != TransientScope:
		cacheSingle(c, h, instance)
		return zero, stateNoReturn

	default:
		panic(fmt.Sprintf("di: unreachable: %s with %s provider %s", b, scope, h.key))
	}
}

func cacheSingle[T any](c *Container, h holder[T], instance T) {
	single := &Single[T]{
		instance: instance,
		clone:    h.clone,
	}
	c.singles.insert(h.key, newDynSingle(single, h.closerFactory))
}

func resolveKey[T any](c *Container, op string, name string, b behaviour) (T, resolveState) {
	c.checkOpen(op)
	key := NewKey[T](name)

	v, state, h := beforeResolve[T](c, key, b)
	if state != stateContinue {
		return v, state
	}

	if h.constructor.sync == nil {
		panicAsyncConstructor(op, key)
	}

	instance := construct(c, h, func() T {
		return h.constructor.sync(c)
	})
	return afterResolve(c, h, b, instance)
}

func resolveKeyAsync[T any](ctx context.Context, c *Container, op string, name string, b behaviour) (T, resolveState) {
	c.checkOpen(op)
	key := NewKey[T](name)

	v, state, h := beforeResolve[T](c, key, b)
	if state != stateContinue {
		return v, state
	}

	instance := construct(c, h, func() T {
		if h.constructor.async != nil {
			return h.constructor.async(ctx, c)
		}
		return h.constructor.sync(c)
	})
	return afterResolve(c, h, b, instance)
}

// mustResolve panics unless the resolution returned an instance.
func mustResolve[T any](op string, name string, v T, state resolveState) T {
	if state != stateReturn {
		errors.Panicf(state.err(), "%s %s", op, NewKey[T](name))
	}
	return v
}

// optionalResolve reports a missing provider or a single owner provider as absence.
func optionalResolve[T any](op string, name string, v T, state resolveState) (T, bool) {
	switch state {
	case stateReturn:
		return v, true
	case stateNotFoundProvider, stateNotSingletonOrTransient:
		var zero T
		return zero, false
	default:
		errors.Panicf(state.err(), "%s %s", op, NewKey[T](name))
		return v, false
	}
}

// justCreate creates and caches the instance without handing it out.
func justCreate[T any](c *Container, op string, name string, b behaviour) resolveState {
	_, state := resolveKey[T](c, op, name, b)
	return state
}

func justCreateAsync[T any](ctx context.Context, c *Container, op string, name string, b behaviour) resolveState {
	_, state := resolveKeyAsync[T](ctx, c, op, name, b)
	return state
}

// mustJustCreate panics unless the instance is cached afterwards.
func mustJustCreate[T any](op string, name string, state resolveState) {
	if state != stateNoReturn {
		errors.Panicf(state.err(), "%s %s", op, NewKey[T](name))
	}
}
