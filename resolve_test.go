package di_test

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sectrean/di-context"
	"github.com/sectrean/di-context/internal/testtypes"
	"github.com/sectrean/di-context/internal/testutils"
)

func Test_Resolve(t *testing.T) {
	t.Run("singleton", func(t *testing.T) {
		f := &testtypes.Factory{}
		c := di.NewContainer(
			di.WithModules(providers{di.Singleton(f.NewInt)}),
		)

		assert.Equal(t, 1, di.Resolve[int](c))
		assert.Equal(t, 1, di.Resolve[int](c))
		assert.Equal(t, 1, f.Count())
		assert.True(t, di.ContainsSingle[int](c))
	})

	t.Run("singleton pointer", func(t *testing.T) {
		c := di.NewContainer(
			di.WithModules(providers{di.Singleton(testtypes.NewStructA)}),
		)

		a1 := di.Resolve[*testtypes.StructA](c)
		a2 := di.Resolve[*testtypes.StructA](c)
		assert.Same(t, a1, a2)
		assert.Same(t, a1, di.GetSingle[*testtypes.StructA](c))
	})

	t.Run("transient", func(t *testing.T) {
		f := &testtypes.Factory{}
		c := di.NewContainer(
			di.WithModules(providers{di.Transient(f.NewStructA)}),
		)

		got := []*testtypes.StructA{
			di.Resolve[*testtypes.StructA](c),
			di.Resolve[*testtypes.StructA](c),
			di.Resolve[*testtypes.StructA](c),
		}
		assert.Equal(t, testtypes.ExpectStructA(3), got)
		assert.False(t, di.ContainsSingle[*testtypes.StructA](c))
	})

	t.Run("name isolation", func(t *testing.T) {
		c := di.NewContainer(
			di.WithModules(providers{
				di.Singleton(func(*di.Container) int { return 1 }),
				di.Singleton(func(*di.Container) int { return 2 }, di.WithName("two")),
			}),
		)

		assert.Equal(t, 2, di.ResolveWithName[int](c, "two"))
		assert.Equal(t, 1, di.Resolve[int](c))
		assert.False(t, di.ContainsProviderWithName[int](c, "three"))
	})

	t.Run("with clone", func(t *testing.T) {
		c := di.NewContainer(
			di.WithModules(providers{
				di.Singleton(
					func(*di.Container) []int { return []int{1, 2} },
					di.WithClone(func(s []int) []int { return slices.Clone(s) }),
				),
			}),
		)

		got := di.Resolve[[]int](c)
		got[0] = 99

		assert.Equal(t, []int{1, 2}, di.GetSingle[[]int](c))
		assert.Equal(t, []int{1, 2}, di.Resolve[[]int](c))
	})

	t.Run("dependencies", func(t *testing.T) {
		c := di.NewContainer(
			di.WithModules(providers{
				di.Singleton(testtypes.NewStructA),
				di.Transient(testtypes.NewStructB),
			}),
		)

		b1 := di.Resolve[*testtypes.StructB](c)
		b2 := di.Resolve[*testtypes.StructB](c)
		assert.NotSame(t, b1, b2)
		assert.Same(t, b1.A, b2.A)
	})

	t.Run("provider not found", func(t *testing.T) {
		c := di.NewContainer()

		assert.PanicsWithError(t,
			"di.Resolve *testtypes.StructA: provider not found",
			func() {
				di.Resolve[*testtypes.StructA](c)
			},
		)
	})

	t.Run("provider not found with name", func(t *testing.T) {
		c := di.NewContainer(
			di.WithModules(providers{di.Singleton(testtypes.NewStructA)}),
		)

		assert.PanicsWithError(t,
			`di.Resolve *testtypes.StructA (Name "a"): provider not found`,
			func() {
				di.ResolveWithName[*testtypes.StructA](c, "a")
			},
		)
	})

	t.Run("dependency not found", func(t *testing.T) {
		c := di.NewContainer(
			di.WithModules(providers{di.Singleton(testtypes.NewStructB)}),
		)

		err := testutils.Recover(func() {
			di.Resolve[*testtypes.StructB](c)
		})
		testutils.LogError(t, err)

		assert.ErrorIs(t, err, di.ErrProviderNotFound)
		assert.Empty(t, c.DependencyChain())
	})

	t.Run("single owner", func(t *testing.T) {
		c := di.NewContainer(
			di.WithModules(providers{di.SingleOwner(testtypes.NewStructA)}),
		)

		assert.PanicsWithError(t,
			"di.Resolve *testtypes.StructA: owned instances are only available for singleton or transient providers",
			func() {
				di.Resolve[*testtypes.StructA](c)
			},
		)
		assert.False(t, di.ContainsSingle[*testtypes.StructA](c))
	})

	t.Run("cached single owner", func(t *testing.T) {
		c := di.NewContainer(
			di.WithModules(providers{di.SingleOwner(testtypes.NewStructA)}),
		)
		di.JustCreateSingle[*testtypes.StructA](c)

		err := testutils.Recover(func() {
			di.Resolve[*testtypes.StructA](c)
		})
		assert.ErrorIs(t, err, di.ErrNotSingletonOrTransient)
	})
}

func Test_ResolveOption(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		c := di.NewContainer(
			di.WithModules(providers{di.Transient(func(*di.Container) int { return 7 }, di.WithName("seven"))}),
		)

		got, ok := di.ResolveOptionWithName[int](c, "seven")
		assert.True(t, ok)
		assert.Equal(t, 7, got)
	})

	t.Run("not found", func(t *testing.T) {
		c := di.NewContainer()

		got, ok := di.ResolveOption[int](c)
		assert.False(t, ok)
		assert.Zero(t, got)
	})

	t.Run("single owner", func(t *testing.T) {
		c := di.NewContainer(
			di.WithModules(providers{di.SingleOwner(func(*di.Container) int { return 7 })}),
		)

		got, ok := di.ResolveOption[int](c)
		assert.False(t, ok)
		assert.Zero(t, got)
		assert.False(t, di.ContainsSingle[int](c))

		di.JustCreateSingle[int](c)

		got, ok = di.ResolveOption[int](c)
		assert.False(t, ok)
		assert.Zero(t, got)
		assert.Equal(t, 7, di.GetSingle[int](c))
	})

	t.Run("single owner async", func(t *testing.T) {
		ctx := context.Background()
		c := di.NewContainer(
			di.WithModules(providers{di.SingleOwnerAsync(func(context.Context, *di.Container) int { return 7 })}),
		)

		got, ok := di.ResolveOptionAsync[int](ctx, c)
		assert.False(t, ok)
		assert.Zero(t, got)
	})
}

func Test_ResolveByType(t *testing.T) {
	c := di.NewContainer(
		di.WithModules(providers{
			di.Singleton(func(*di.Container) int { return 3 }, di.WithName("c")),
			di.Transient(func(*di.Container) int { return 1 }, di.WithName("a")),
			di.SingleOwner(func(*di.Container) int { return 4 }, di.WithName("d")),
			di.Singleton(func(*di.Container) int { return 0 }),
			di.Singleton(func(*di.Container) int { return 2 }, di.WithName("b")),
		}),
	)

	assert.Equal(t, []int{0, 1, 2, 3}, di.ResolveByType[int](c))
	assert.Empty(t, di.ResolveByType[string](c))

	ps := di.GetProvidersByType[int](c)
	require.Len(t, ps, 5)
	assert.Equal(t, "d", ps[4].Definition().Key.Name)
}

func Test_JustCreateSingle(t *testing.T) {
	t.Run("single owner", func(t *testing.T) {
		f := &testtypes.Factory{}
		c := di.NewContainer(
			di.WithModules(providers{di.SingleOwner(f.NewStructA)}),
		)

		di.JustCreateSingle[*testtypes.StructA](c)
		di.JustCreateSingle[*testtypes.StructA](c)

		assert.Equal(t, 1, f.Count())
		assert.Equal(t, &testtypes.StructA{Tag: 0}, di.GetSingle[*testtypes.StructA](c))
	})

	t.Run("singleton", func(t *testing.T) {
		f := &testtypes.Factory{}
		c := di.NewContainer(
			di.WithModules(providers{di.Singleton(f.NewInt, di.WithName("n"))}),
		)

		di.JustCreateSingleWithName[int](c, "n")
		assert.Equal(t, 1, di.GetSingleWithName[int](c, "n"))
		assert.Equal(t, 1, di.ResolveWithName[int](c, "n"))
		assert.Equal(t, 1, f.Count())
	})

	t.Run("transient", func(t *testing.T) {
		c := di.NewContainer(
			di.WithModules(providers{di.Transient(func(*di.Container) int { return 1 })}),
		)

		assert.PanicsWithError(t,
			"di.JustCreateSingle int: cached instances are only available for singleton or single owner providers",
			func() {
				di.JustCreateSingle[int](c)
			},
		)
		assert.False(t, di.TryJustCreateSingle[int](c))
	})

	t.Run("not found", func(t *testing.T) {
		c := di.NewContainer()

		assert.PanicsWithError(t,
			"di.JustCreateSingle int: provider not found",
			func() {
				di.JustCreateSingle[int](c)
			},
		)
		assert.False(t, di.TryJustCreateSingle[int](c))
		assert.False(t, di.TryJustCreateSingleWithName[int](c, "n"))
	})

	t.Run("by type", func(t *testing.T) {
		c := di.NewContainer(
			di.WithModules(providers{
				di.SingleOwner(func(*di.Container) int { return 2 }, di.WithName("b")),
				di.Singleton(func(*di.Container) int { return 1 }, di.WithName("a")),
				di.Transient(func(*di.Container) int { return 3 }, di.WithName("c")),
			}),
		)

		assert.Empty(t, di.GetSinglesByType[int](c))
		di.JustCreateSinglesByType[int](c)
		assert.Equal(t, []int{1, 2}, di.GetSinglesByType[int](c))
	})
}

func Test_GetSingle(t *testing.T) {
	t.Run("never constructs", func(t *testing.T) {
		f := &testtypes.Factory{}
		c := di.NewContainer(
			di.WithModules(providers{di.Singleton(f.NewInt)}),
		)

		got, ok := di.GetSingleOption[int](c)
		assert.False(t, ok)
		assert.Zero(t, got)
		assert.Zero(t, f.Count())
	})

	t.Run("not found", func(t *testing.T) {
		c := di.NewContainer()

		assert.PanicsWithError(t,
			`di.GetSingle int (Name "n"): single not found`,
			func() {
				di.GetSingleWithName[int](c, "n")
			},
		)
	})

	t.Run("option", func(t *testing.T) {
		c := di.NewContainer(
			di.WithSingletonNamed(5, "five"),
		)

		got, ok := di.GetSingleOptionWithName[int](c, "five")
		assert.True(t, ok)
		assert.Equal(t, 5, got)
	})
}

func Test_CircularDependency(t *testing.T) {
	t.Run("direct", func(t *testing.T) {
		c := di.NewContainer(
			di.WithModules(providers{
				di.Singleton(testtypes.NewCycleA),
				di.Singleton(testtypes.NewCycleB),
			}),
		)

		assert.PanicsWithError(t,
			"circular dependency detected:\n"+
				"--> *testtypes.CycleA\n"+
				"|   *testtypes.CycleB\n"+
				"--> *testtypes.CycleA",
			func() {
				di.Resolve[*testtypes.CycleA](c)
			},
		)
		assert.Empty(t, c.DependencyChain())
		assert.False(t, di.ContainsSingle[*testtypes.CycleA](c))
		assert.False(t, di.ContainsSingle[*testtypes.CycleB](c))
	})

	t.Run("nested", func(t *testing.T) {
		c := di.NewContainer(
			di.WithModules(providers{
				di.Transient(func(c *di.Container) string {
					di.Resolve[*testtypes.CycleB](c)
					return "outer"
				}),
				di.Singleton(testtypes.NewCycleA),
				di.Singleton(testtypes.NewCycleB),
			}),
		)

		err := testutils.Recover(func() {
			di.Resolve[string](c)
		})
		testutils.LogError(t, err)

		var cycleErr *di.CircularDependencyError
		require.ErrorAs(t, err, &cycleErr)
		assert.ErrorIs(t, err, di.ErrCircularDependency)
		assert.Equal(t, []di.Key{
			di.NewKey[string](""),
			di.NewKey[*testtypes.CycleB](""),
			di.NewKey[*testtypes.CycleA](""),
		}, cycleErr.Chain)
		assert.Equal(t, di.NewKey[*testtypes.CycleB](""), cycleErr.Key)
		assert.Equal(t,
			"circular dependency detected:\n"+
				"    string\n"+
				"--> *testtypes.CycleB\n"+
				"|   *testtypes.CycleA\n"+
				"--> *testtypes.CycleB",
			err.Error(),
		)
	})

	t.Run("dependency chain", func(t *testing.T) {
		var chain []di.Key
		c := di.NewContainer(
			di.WithModules(providers{
				di.Singleton(func(c *di.Container) int {
					chain = c.DependencyChain()
					return 1
				}),
				di.Singleton(func(c *di.Container) string {
					di.Resolve[int](c)
					return ""
				}, di.WithName("outer")),
			}),
		)

		di.ResolveWithName[string](c, "outer")
		assert.Equal(t, []di.Key{
			di.NewKey[string]("outer"),
			di.NewKey[int](""),
		}, chain)
	})
}

func Test_Async(t *testing.T) {
	t.Run("sync api rejects async constructor", func(t *testing.T) {
		c := di.NewContainer(
			di.WithModules(providers{
				di.SingletonAsync(func(context.Context, *di.Container) int { return 1 }),
			}),
		)

		err := testutils.Recover(func() {
			di.Resolve[int](c)
		})
		testutils.LogError(t, err)

		assert.ErrorIs(t, err, di.ErrAsyncConstructor)
		assert.Contains(t, err.Error(), "di.Resolve: the constructor for int is async.")
		assert.Contains(t, err.Error(), "di.NewContainerAsync")
		assert.False(t, di.ContainsSingle[int](c))
	})

	t.Run("sync constructor depends on async", func(t *testing.T) {
		c := di.NewContainer(
			di.WithModules(providers{
				di.TransientAsync(func(context.Context, *di.Container) int { return 1 }),
				di.Transient(func(c *di.Container) string {
					di.Resolve[int](c)
					return ""
				}),
			}),
		)

		err := testutils.Recover(func() {
			di.ResolveAsync[string](context.Background(), c)
		})
		assert.ErrorIs(t, err, di.ErrAsyncConstructor)
		assert.Empty(t, c.DependencyChain())
	})

	t.Run("async api runs both colors", func(t *testing.T) {
		ctx := testutils.ContextWithTestValue(context.Background(), "value")

		c := di.NewContainer(
			di.WithModules(providers{
				di.SingletonAsync(func(ctx context.Context, _ *di.Container) string {
					return testutils.TestValue(ctx).(string)
				}),
				di.TransientAsync(func(ctx context.Context, c *di.Container) int {
					return len(di.ResolveAsync[string](ctx, c))
				}),
				di.Transient(func(*di.Container) float64 { return 1.5 }),
			}),
		)

		assert.Equal(t, 5, di.ResolveAsync[int](ctx, c))
		assert.Equal(t, "value", di.GetSingle[string](c))
		assert.Equal(t, 1.5, di.ResolveAsync[float64](ctx, c))
		assert.Equal(t, []int{5}, di.ResolveByTypeAsync[int](ctx, c))

		got, ok := di.ResolveOptionAsync[bool](ctx, c)
		assert.False(t, ok)
		assert.False(t, got)
	})

	t.Run("just create async", func(t *testing.T) {
		ctx := context.Background()
		f := &testtypes.Factory{}

		c := di.NewContainer(
			di.WithModules(providers{
				di.SingleOwnerAsync(f.NewStructAAsync),
				di.SingletonAsync(f.NewStructAAsync, di.WithName("a")),
			}),
		)

		di.JustCreateSingleAsync[*testtypes.StructA](ctx, c)
		assert.True(t, di.TryJustCreateSingleWithNameAsync[*testtypes.StructA](ctx, c, "a"))
		assert.False(t, di.TryJustCreateSingleAsync[int](ctx, c))
		di.JustCreateSinglesByTypeAsync[*testtypes.StructA](ctx, c)

		assert.Equal(t, 2, f.Count())
		assert.Len(t, di.GetSinglesByType[*testtypes.StructA](c), 2)
	})

	t.Run("eager async", func(t *testing.T) {
		mod := providers{
			di.SingletonAsync(func(context.Context, *di.Container) int { return 1 }, di.WithEagerCreate(true)),
		}

		err := testutils.Recover(func() {
			di.NewContainer(di.WithModules(mod))
		})
		assert.ErrorIs(t, err, di.ErrAsyncConstructor)
		assert.Contains(t, err.Error(), "di.Container.Flush: the constructor for int is async.")

		c := di.NewContainerAsync(context.Background(), di.WithModules(mod))
		assert.Equal(t, 1, di.GetSingle[int](c))
	})
}
