package di

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sectrean/di-context/internal/errors"
)

var (
	// ErrProviderNotFound is used when no provider is registered for a key.
	ErrProviderNotFound = errors.New("provider not found")

	// ErrProviderExists is used when a provider is registered for a key that is
	// already registered and the container does not allow overriding.
	ErrProviderExists = errors.New("provider already registered")

	// ErrNotSingletonOrTransient is used when an owned instance is requested from a
	// single owner.
	ErrNotSingletonOrTransient = errors.New("owned instances are only available for singleton or transient providers")

	// ErrNotSingletonOrSingleOwner is used when a transient provider is asked to
	// create a cached instance.
	ErrNotSingletonOrSingleOwner = errors.New("cached instances are only available for singleton or single owner providers")

	// ErrSingleNotFound is used when a cached instance is requested before it was created.
	ErrSingleNotFound = errors.New("single not found")

	// ErrAsyncConstructor is used when an async constructor is reached from the sync API.
	ErrAsyncConstructor = errors.New("async constructor called from sync api")

	// ErrCircularDependency is wrapped by [CircularDependencyError].
	ErrCircularDependency = errors.New("circular dependency detected")

	// ErrContainerClosed is used when a closed container is used.
	ErrContainerClosed = errors.New("container closed")

	// ErrInvalidProvider is used when a provider is built with invalid arguments or options.
	ErrInvalidProvider = errors.New("invalid provider")
)

// CircularDependencyError is the panic value when a constructor depends on itself,
// directly or through other providers.
type CircularDependencyError struct {
	// Chain holds the keys being constructed when the cycle was detected, outermost first.
	Chain []Key
	// Key is the key that was requested again.
	Key Key
}

func (e *CircularDependencyError) Error() string {
	start := slices.Index(e.Chain, e.Key)

	var b strings.Builder
	b.WriteString(ErrCircularDependency.Error())
	b.WriteString(":")
	for i, key := range e.Chain {
		switch {
		case i < start:
			b.WriteString("\n    ")
		case i == start:
			b.WriteString("\n--> ")
		default:
			b.WriteString("\n|   ")
		}
		b.WriteString(key.String())
	}
	fmt.Fprintf(&b, "\n--> %s", e.Key)
	return b.String()
}

func (e *CircularDependencyError) Unwrap() error {
	return ErrCircularDependency
}

const asyncConstructorHelp = `%s: the constructor for %s is async.
Async constructors can only be run by the Async functions:
  1. Replace di.Resolve, di.JustCreateSingle and related calls that reach %[2]s with their Async variants.
  2. Register sync constructors that resolve %[2]s with an Async builder such as di.SingletonAsync.
  3. Replace di.NewContainer and Container.Flush with di.NewContainerAsync and Container.FlushAsync when %[2]s is created eagerly.`

func panicAsyncConstructor(op string, key Key) {
	panic(fmt.Errorf(asyncConstructorHelp+"\n%w", op, key, ErrAsyncConstructor))
}
