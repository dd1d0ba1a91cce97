package di

import "fmt"

// Scope specifies how instances created by a provider are cached.
//
// Available scopes:
//   - [SingletonScope] creates the instance once and hands out copies of it.
//   - [TransientScope] creates a new instance for every resolution.
//   - [SingleOwnerScope] creates the instance once and only hands out the cached instance.
type Scope uint8

const (
	// SingletonScope specifies that the constructor runs at most once per key.
	//
	// The cached instance is cloned for owned access ([Resolve]) and returned as-is for
	// cached access ([GetSingle]).
	SingletonScope Scope = iota

	// TransientScope specifies that the constructor runs for every resolution.
	// Transient instances are never cached.
	TransientScope

	// SingleOwnerScope specifies that the constructor runs at most once per key.
	//
	// The instance is never cloned, so it is only available through [GetSingle]
	// after [JustCreateSingle].
	SingleOwnerScope
)

func (s Scope) String() string {
	switch s {
	case SingletonScope:
		return "Singleton"
	case TransientScope:
		return "Transient"
	case SingleOwnerScope:
		return "SingleOwner"
	default:
		return fmt.Sprintf("Unknown Scope %d", s)
	}
}

// Color describes whether a constructor is synchronous or asynchronous.
//
// Async constructors receive the caller's [context.Context] and can only be run
// by the Async functions ([ResolveAsync], [Container.FlushAsync], ...).
// The zero Color means the provider has no constructor (inserted instances).
type Color uint8

const (
	// SyncColor marks a constructor with the signature func(*Container) T.
	SyncColor Color = iota + 1

	// AsyncColor marks a constructor with the signature func(context.Context, *Container) T.
	AsyncColor
)

func (c Color) String() string {
	switch c {
	case 0:
		return "None"
	case SyncColor:
		return "Sync"
	case AsyncColor:
		return "Async"
	default:
		return fmt.Sprintf("Unknown Color %d", c)
	}
}
