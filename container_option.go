package di

import (
	"cmp"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// ContainerOption is used to configure a new [Container] when calling [NewContainer]
// or [NewContainerAsync].
//
// Options are applied by precedence: settings first, then inserted instances, then modules.
// Options with the same precedence are applied in the order given.
type ContainerOption interface {
	order() optionOrder
	applyContainer(*containerBuilder)
}

type optionOrder int8

const (
	orderSetting optionOrder = iota
	orderInsert
	orderModule
)

type containerBuilder struct {
	c       *Container
	inserts []func(*Container)
	modules []Module
}

func (b *containerBuilder) apply(opts []ContainerOption) {
	opts = slices.DeleteFunc(slices.Clone(opts), func(o ContainerOption) bool { return o == nil })

	// Use stable sort because the order of modules and inserts matters
	slices.SortStableFunc(opts, func(x, y ContainerOption) int {
		return cmp.Compare(x.order(), y.order())
	})

	for _, o := range opts {
		o.applyContainer(b)
	}
}

func newContainerOption(order optionOrder, fn func(*containerBuilder)) ContainerOption {
	return containerOption{fn: fn, ord: order}
}

type containerOption struct {
	fn  func(*containerBuilder)
	ord optionOrder
}

func (o containerOption) order() optionOrder {
	return o.ord
}

func (o containerOption) applyContainer(b *containerBuilder) {
	o.fn(b)
}

// WithModules loads the modules and their submodules, in order.
func WithModules(modules ...Module) ContainerOption {
	return newContainerOption(orderModule, func(b *containerBuilder) {
		b.modules = append(b.modules, modules...)
	})
}

// WithAutoRegister loads the providers registered with [AutoRegister].
func WithAutoRegister() ContainerOption {
	return newContainerOption(orderModule, func(b *containerBuilder) {
		b.modules = append(b.modules, autoRegisterModule{})
	})
}

// WithAllowOverride allows a provider to replace one registered under the same key.
// The default is false.
func WithAllowOverride(allow bool) ContainerOption {
	return newContainerOption(orderSetting, func(b *containerBuilder) {
		b.c.allowOverride = allow
	})
}

// WithAllowOnlySingleEagerCreate restricts eager creation to singleton and single owner
// providers. The default is true.
func WithAllowOnlySingleEagerCreate(allow bool) ContainerOption {
	return newContainerOption(orderSetting, func(b *containerBuilder) {
		b.c.allowOnlySingleEagerCreate = allow
	})
}

// WithEagerCreateAll creates every loaded provider eagerly. The default is false.
func WithEagerCreateAll(eager bool) ContainerOption {
	return newContainerOption(orderSetting, func(b *containerBuilder) {
		b.c.eagerCreate = eager
	})
}

// WithConfig applies the settings in cfg.
func WithConfig(cfg Config) ContainerOption {
	return newContainerOption(orderSetting, func(b *containerBuilder) {
		b.c.allowOverride = cfg.AllowOverride
		b.c.allowOnlySingleEagerCreate = cfg.AllowOnlySingleEagerCreate
		b.c.eagerCreate = cfg.EagerCreate
	})
}

// WithLogger sets the logger used for debug records about loading, flushing and closing.
// The default discards all records.
func WithLogger(logger *zap.Logger) ContainerOption {
	return newContainerOption(orderSetting, func(b *containerBuilder) {
		if logger == nil {
			logger = zap.NewNop()
		}
		b.c.logger = logger
	})
}

// WithMetrics registers the container metrics with reg.
//
// Containers created with the same registerer share the collectors.
func WithMetrics(reg prometheus.Registerer) ContainerOption {
	return newContainerOption(orderSetting, func(b *containerBuilder) {
		b.c.metrics = newMetrics(reg)
	})
}

// WithSingleton inserts an existing instance without a name as a singleton.
// See [InsertSingleton].
func WithSingleton[T any](instance T) ContainerOption {
	return WithSingletonNamed(instance, "")
}

// WithSingletonNamed inserts an existing instance with the given name as a singleton.
func WithSingletonNamed[T any](instance T, name string) ContainerOption {
	return newContainerOption(orderInsert, func(b *containerBuilder) {
		b.inserts = append(b.inserts, func(c *Container) {
			InsertSingletonWithName(c, instance, name)
		})
	})
}

// WithSingleOwner inserts an existing instance without a name as a single owner.
// See [InsertSingleOwner].
func WithSingleOwner[T any](instance T) ContainerOption {
	return WithSingleOwnerNamed(instance, "")
}

// WithSingleOwnerNamed inserts an existing instance with the given name as a single owner.
func WithSingleOwnerNamed[T any](instance T, name string) ContainerOption {
	return newContainerOption(orderInsert, func(b *containerBuilder) {
		b.inserts = append(b.inserts, func(c *Container) {
			InsertSingleOwnerWithName(c, instance, name)
		})
	})
}
