package di_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sectrean/di-context"
	"github.com/sectrean/di-context/internal/testtypes"
	"github.com/sectrean/di-context/internal/testutils"
)

func Test_TypeOf(t *testing.T) {
	tests := []struct {
		name string
		call func() di.Type
		want string
	}{
		{
			name: "error",
			call: di.TypeOf[error],
			want: "error",
		},
		{
			name: "Context",
			call: di.TypeOf[context.Context],
			want: "context.Context",
		},
		{
			name: "public struct",
			call: di.TypeOf[testtypes.StructA],
			want: "testtypes.StructA",
		},
		{
			name: "pointer",
			call: di.TypeOf[*testtypes.StructA],
			want: "*testtypes.StructA",
		},
		{
			name: "interface",
			call: di.TypeOf[testtypes.InterfaceA],
			want: "testtypes.InterfaceA",
		},
		{
			name: "slice",
			call: di.TypeOf[[]int],
			want: "[]int",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.call()
			assert.Equal(t, tt.want, got.Name())
			assert.Equal(t, tt.want, got.String())
			assert.False(t, got.IsZero())
			assert.Equal(t, got, tt.call())
		})
	}
}

func Test_Type_Identity(t *testing.T) {
	t.Run("distinct types", func(t *testing.T) {
		assert.NotEqual(t, di.TypeOf[testtypes.StructA](), di.TypeOf[*testtypes.StructA]())
		assert.NotEqual(t, di.TypeOf[int](), di.TypeOf[int64]())
	})

	t.Run("zero", func(t *testing.T) {
		var zero di.Type
		assert.True(t, zero.IsZero())
		assert.Equal(t, "<none>", zero.String())
	})

	t.Run("concurrent first use", func(t *testing.T) {
		type unseen struct{}

		got := make([]di.Type, 10)
		testutils.RunParallel(10, func(i int) {
			got[i] = di.TypeOf[unseen]()
		})

		for _, ty := range got {
			assert.Equal(t, got[0], ty)
		}
	})

	t.Run("order", func(t *testing.T) {
		type first struct{}
		type second struct{}

		a := di.TypeOf[first]()
		b := di.TypeOf[second]()
		assert.Equal(t, -1, a.Compare(b))
		assert.Equal(t, 1, b.Compare(a))
		assert.Equal(t, 0, a.Compare(di.TypeOf[first]()))
	})
}

func Test_Key(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "int", di.NewKey[int]("").String())
		assert.Equal(t, `*testtypes.StructA (Name "a")`, di.NewKey[*testtypes.StructA]("a").String())
	})

	t.Run("equality", func(t *testing.T) {
		assert.Equal(t, di.NewKey[int]("a"), di.NewKey[int]("a"))
		assert.NotEqual(t, di.NewKey[int]("a"), di.NewKey[int]("b"))
		assert.NotEqual(t, di.NewKey[int]("a"), di.NewKey[int64]("a"))
	})

	t.Run("Compare", func(t *testing.T) {
		type keyFirst struct{}
		type keySecond struct{}
		first := di.TypeOf[keyFirst]()
		second := di.TypeOf[keySecond]()

		assert.Equal(t, -1, di.Key{Name: "z", Type: first}.Compare(di.Key{Name: "a", Type: second}))
		assert.Equal(t, -1, di.Key{Name: "a", Type: first}.Compare(di.Key{Name: "b", Type: first}))
		assert.Equal(t, 0, di.Key{Name: "a", Type: first}.Compare(di.Key{Name: "a", Type: first}))
	})
}

func Test_Definition_String(t *testing.T) {
	tests := []struct {
		name string
		def  di.Definition
		want string
	}{
		{
			name: "plain",
			def:  di.Singleton(testtypes.NewStructA).Definition(),
			want: "*testtypes.StructA [Singleton, Sync]",
		},
		{
			name: "bound conditional",
			def: di.TransientAsync(
				func(context.Context, *di.Container) *testtypes.StructA { return nil },
				di.WithName("a"),
				di.WithCondition(func(*di.Container) bool { return true }),
				di.Bind(testtypes.ToInterfaceA),
			).BindingDefinitions()[0],
			want: `testtypes.InterfaceA (Name "a") [Transient, Async, bound from *testtypes.StructA, conditional]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.def.String())
		})
	}
}

func Test_Scope_String(t *testing.T) {
	tests := []struct {
		name  string
		scope di.Scope
		want  string
	}{
		{name: "singleton", scope: di.SingletonScope, want: "Singleton"},
		{name: "transient", scope: di.TransientScope, want: "Transient"},
		{name: "single owner", scope: di.SingleOwnerScope, want: "SingleOwner"},
		{name: "unknown scope", scope: di.Scope(99), want: "Unknown Scope 99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scope.String())
		})
	}
}

func Test_Color_String(t *testing.T) {
	tests := []struct {
		name  string
		color di.Color
		want  string
	}{
		{name: "none", color: 0, want: "None"},
		{name: "sync", color: di.SyncColor, want: "Sync"},
		{name: "async", color: di.AsyncColor, want: "Async"},
		{name: "unknown color", color: di.Color(99), want: "Unknown Color 99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.color.String())
		})
	}
}
