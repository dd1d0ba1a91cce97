package di

import (
	"fmt"
	"strings"
)

// Definition describes a provider registration.
type Definition struct {
	// Key is the key the provider is registered under.
	Key Key
	// Origin is the source type when the provider was produced by [Bind].
	// It is the zero Type otherwise.
	Origin Type
	// Scope controls how created instances are cached.
	Scope Scope
	// Color is the color of the constructor. It is zero for inserted instances.
	Color Color
	// Conditional is true if the provider was registered with [WithCondition].
	Conditional bool
}

func newDefinition[T any](scope Scope, color Color) Definition {
	return Definition{
		Key:   NewKey[T](""),
		Scope: scope,
		Color: color,
	}
}

// bindDefinition returns the definition of a provider for U that is derived from source.
func bindDefinition[U any](source Definition) Definition {
	return Definition{
		Key:         NewKey[U](source.Key.Name),
		Origin:      source.Key.Type,
		Scope:       source.Scope,
		Color:       source.Color,
		Conditional: source.Conditional,
	}
}

func (d Definition) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s, %s", d.Key, d.Scope, d.Color)
	if !d.Origin.IsZero() {
		fmt.Fprintf(&b, ", bound from %s", d.Origin)
	}
	if d.Conditional {
		b.WriteString(", conditional")
	}
	b.WriteString("]")
	return b.String()
}
