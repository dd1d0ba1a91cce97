package di

import (
	"cmp"
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// Type identifies a Go type for the lifetime of the process.
//
// Two Types are equal if and only if they were created for the same Go type.
// Types are ordered by the order in which they were first seen.
// The zero Type does not identify any Go type.
type Type struct {
	name string
	id   uint64
}

var (
	typeRegistry = xsync.NewMapOf[reflect.Type, Type]()
	lastTypeID   atomic.Uint64
)

// TypeOf returns the [Type] for T.
func TypeOf[T any]() Type {
	return typeFor(reflect.TypeFor[T]())
}

func typeOfValue(v any) Type {
	if v == nil {
		return Type{}
	}
	return typeFor(reflect.TypeOf(v))
}

func typeFor(t reflect.Type) Type {
	ty, _ := typeRegistry.LoadOrCompute(t, func() Type {
		return Type{
			name: t.String(),
			id:   lastTypeID.Add(1),
		}
	})
	return ty
}

// Name returns the name of the Go type, e.g. "*sql.DB".
func (t Type) Name() string {
	return t.name
}

// IsZero reports whether t is the zero Type.
func (t Type) IsZero() bool {
	return t.id == 0
}

// Compare returns -1, 0 or +1 depending on whether t sorts before, equal to or after o.
func (t Type) Compare(o Type) int {
	return cmp.Compare(t.id, o.id)
}

func (t Type) String() string {
	if t.IsZero() {
		return "<none>"
	}
	return t.name
}

// Key addresses a registration in a [Container].
//
// Registrations for the same [Type] are distinguished by Name.
// The default name is "".
type Key struct {
	Name string
	Type Type
}

// NewKey returns the [Key] for T with the given name.
func NewKey[T any](name string) Key {
	return Key{
		Name: name,
		Type: TypeOf[T](),
	}
}

// Compare orders keys by Type first and then by Name.
func (k Key) Compare(o Key) int {
	if c := k.Type.Compare(o.Type); c != 0 {
		return c
	}
	return cmp.Compare(k.Name, o.Name)
}

func (k Key) String() string {
	if k.Name == "" {
		return k.Type.String()
	}
	return fmt.Sprintf("%s (Name %q)", k.Type, k.Name)
}
