package di

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sectrean/di-context/internal/errors"
)

// Container holds providers and the instances they create.
//
// Providers are loaded from [Module]s and resolved with the package functions such as
// [Resolve] and [GetSingle]. A Container is not safe for concurrent use; use a separate
// Container per goroutine (see the dihttp package).
type Container struct {
	id                         uuid.UUID
	allowOverride              bool
	allowOnlySingleEagerCreate bool
	eagerCreate                bool

	providers            *ProviderRegistry
	singles              *SingleRegistry
	loadedModules        []Type
	conditionalProviders []conditionalProvider
	eagerCreateFunctions []eagerCreateEntry
	chain                dependencyChain

	logger  *zap.Logger
	metrics *metrics
	closed  bool
}

type conditionalProvider struct {
	eagerCreate bool
	provider    *DynProvider
}

type eagerCreateEntry struct {
	definition Definition
	fn         eagerCreateFunction
}

// NewContainer creates a new [Container], loads the configured modules and runs [Container.Flush].
//
// Available options:
//   - [WithModules] loads modules.
//   - [WithAutoRegister] loads the providers registered with [AutoRegister].
//   - [WithSingleton] and [WithSingleOwner] insert existing instances.
//   - [WithAllowOverride], [WithAllowOnlySingleEagerCreate], [WithEagerCreateAll] and [WithConfig]
//     change how providers are registered.
//   - [WithLogger] and [WithMetrics] set up logging and metrics.
//
// NewContainer panics if a constructor run during the flush is async.
// Use [NewContainerAsync] in that case.
func NewContainer(opts ...ContainerOption) *Container {
	c, modules := newContainer(opts)
	c.LoadModules(modules...)
	c.Flush()
	return c
}

// NewContainerAsync is like [NewContainer] but runs [Container.FlushAsync].
func NewContainerAsync(ctx context.Context, opts ...ContainerOption) *Container {
	c, modules := newContainer(opts)
	c.LoadModules(modules...)
	c.FlushAsync(ctx)
	return c
}

func newContainer(opts []ContainerOption) (*Container, []Module) {
	c := &Container{
		id:                         uuid.New(),
		allowOnlySingleEagerCreate: true,
		providers:                  newProviderRegistry(),
		singles:                    newSingleRegistry(),
		logger:                     zap.NewNop(),
	}

	b := &containerBuilder{c: c}
	b.apply(opts)

	c.logger = c.logger.With(zap.Stringer("container", c.id))
	for _, insert := range b.inserts {
		insert(c)
	}
	return c, b.modules
}

// ID returns the unique id of the Container.
func (c *Container) ID() uuid.UUID {
	return c.id
}

// AllowOverride reports whether a provider may replace one registered under the same key.
func (c *Container) AllowOverride() bool {
	return c.allowOverride
}

// AllowOnlySingleEagerCreate reports whether only singleton and single owner providers
// are created eagerly.
func (c *Container) AllowOnlySingleEagerCreate() bool {
	return c.allowOnlySingleEagerCreate
}

// EagerCreate reports whether every loaded provider is created eagerly.
func (c *Container) EagerCreate() bool {
	return c.eagerCreate
}

// ProviderRegistry returns the registered providers.
func (c *Container) ProviderRegistry() *ProviderRegistry {
	return c.providers
}

// SingleRegistry returns the cached instances.
func (c *Container) SingleRegistry() *SingleRegistry {
	return c.singles
}

// LoadedModules returns the types of the loaded modules, in load order.
func (c *Container) LoadedModules() []Type {
	return slices.Clone(c.loadedModules)
}

// DependencyChain returns the keys being constructed, outermost first.
// It is only non-empty when called from within a constructor.
func (c *Container) DependencyChain() []Key {
	return c.chain.Keys()
}

// ConditionalProviders returns the definitions of the conditional providers waiting for
// the next flush.
func (c *Container) ConditionalProviders() []Definition {
	defs := make([]Definition, len(c.conditionalProviders))
	for i, cp := range c.conditionalProviders {
		defs[i] = cp.provider.definition
	}
	return defs
}

// EagerCreateDefinitions returns the definitions of the providers waiting to be created
// by the next flush.
func (c *Container) EagerCreateDefinitions() []Definition {
	defs := make([]Definition, len(c.eagerCreateFunctions))
	for i, e := range c.eagerCreateFunctions {
		defs[i] = e.definition
	}
	return defs
}

// LoadModules loads the providers of the modules and their submodules.
//
// Conditional providers are queued until the next flush. Eager providers are created
// by the next flush. Call [Container.Flush] after loading modules outside of [NewContainer].
//
// LoadModules panics with [ErrProviderExists] if a key is registered twice and the
// container does not allow overriding.
func (c *Container) LoadModules(modules ...Module) {
	c.checkOpen("di.Container.LoadModules")

	for _, mod := range flattenModules(modules) {
		ty := typeOfValue(mod)
		c.loadedModules = append(c.loadedModules, ty)
		c.logger.Debug("module loaded", zap.Stringer("module", ty))

		c.loadProviders(moduleEagerCreate(mod), mod.Providers())
	}
}

func (c *Container) loadProviders(eager bool, providers []AnyProvider) {
	for _, p := range providers {
		if isNil(p) {
			continue
		}
		dyn := p.dynProvider()

		if dyn.condition != nil {
			c.conditionalProviders = append(c.conditionalProviders, conditionalProvider{
				eagerCreate: eager,
				provider:    dyn,
			})
			c.logger.Debug("provider deferred", keyField(dyn.definition.Key))
			continue
		}

		c.loadProvider(eager, dyn)
	}
}

// loadProvider registers p and its binding providers together.
func (c *Container) loadProvider(eager bool, p *DynProvider) {
	providers := p.withBindings()

	// Keys within the group must be distinct even when overriding is allowed.
	for i, bp := range providers {
		for _, prev := range providers[:i] {
			if prev.definition.Key == bp.definition.Key {
				errors.Panicf(ErrProviderExists, "di.Container.LoadModules %s: existing %s",
					bp.definition, prev.definition)
			}
		}
		if c.allowOverride {
			continue
		}
		if existing, ok := c.providers.Get(bp.definition.Key); ok {
			errors.Panicf(ErrProviderExists, "di.Container.LoadModules %s: existing %s",
				bp.definition, existing.definition)
		}
	}

	for _, bp := range providers {
		def := bp.definition
		if c.providers.insert(bp, c.allowOverride) {
			c.logger.Debug("provider overridden", keyField(def.Key))
			c.discardSingle(def.Key)
		}
		c.logger.Debug("provider loaded", keyField(def.Key), zap.Stringer("scope", def.Scope))
	}

	for _, bp := range providers {
		def := bp.definition
		needEager := c.eagerCreate || eager || bp.eagerCreate
		allowEager := !c.allowOnlySingleEagerCreate || def.Scope != TransientScope
		if needEager && allowEager && def.Color != 0 {
			c.eagerCreateFunctions = append(c.eagerCreateFunctions, eagerCreateEntry{
				definition: def,
				fn:         bp.eagerCreateFunction,
			})
		}
	}
}

// UnloadModules removes the providers of the modules and their submodules,
// together with their binding providers and cached instances.
//
// Cached instances created by the removed providers are closed.
func (c *Container) UnloadModules(modules ...Module) {
	c.checkOpen("di.Container.UnloadModules")

	for _, mod := range flattenModules(modules) {
		ty := typeOfValue(mod)
		if i := slices.Index(c.loadedModules, ty); i >= 0 {
			c.loadedModules = slices.Delete(c.loadedModules, i, i+1)
		}

		for _, p := range mod.Providers() {
			if isNil(p) {
				continue
			}
			dyn := p.dynProvider()

			c.conditionalProviders = slices.DeleteFunc(c.conditionalProviders, func(cp conditionalProvider) bool {
				return cp.provider.definition.Key == dyn.definition.Key
			})
			for _, bp := range dyn.withBindings() {
				key := bp.definition.Key
				c.providers.remove(key)
				c.discardSingle(key)
				c.eagerCreateFunctions = slices.DeleteFunc(c.eagerCreateFunctions, func(e eagerCreateEntry) bool {
					return e.definition.Key == key
				})
			}
		}
		c.logger.Debug("module unloaded", zap.Stringer("module", ty))
	}
}

// Flush creates eager instances and evaluates conditional providers.
//
// Flush runs three passes: eager instances are created, then each queued conditional
// provider is registered if its condition holds against the container, then the eager
// instances of the newly registered providers are created.
// Conditional providers whose condition does not hold are dropped.
//
// Flush panics if an eager constructor is async. Use [Container.FlushAsync] in that case.
func (c *Container) Flush() {
	c.checkOpen("di.Container.Flush")

	c.createEagerInstances()
	c.evaluateConditionalProviders()
	c.createEagerInstances()
}

// FlushAsync is like [Container.Flush] but can run async constructors.
func (c *Container) FlushAsync(ctx context.Context) {
	c.checkOpen("di.Container.FlushAsync")

	c.createEagerInstancesAsync(ctx)
	c.evaluateConditionalProviders()
	c.createEagerInstancesAsync(ctx)
}

func (c *Container) createEagerInstances() {
	entries := c.eagerCreateFunctions
	c.eagerCreateFunctions = nil

	for _, e := range entries {
		if e.fn.sync == nil {
			panicAsyncConstructor("di.Container.Flush", e.definition.Key)
		}
		e.fn.sync(c, e.definition.Key.Name)
	}
}

func (c *Container) createEagerInstancesAsync(ctx context.Context) {
	entries := c.eagerCreateFunctions
	c.eagerCreateFunctions = nil

	for _, e := range entries {
		if e.fn.async != nil {
			e.fn.async(ctx, c, e.definition.Key.Name)
		} else {
			e.fn.sync(c, e.definition.Key.Name)
		}
	}
}

func (c *Container) eagerCreated(key Key, state resolveState) {
	switch state {
	case stateNoReturn:
		c.metrics.eagerCreated()
		c.logger.Debug("eager instance created", keyField(key))
	case stateNotFoundProvider:
		c.logger.Debug("eager provider no longer registered", keyField(key))
	}
}

func (c *Container) evaluateConditionalProviders() {
	pending := c.conditionalProviders
	c.conditionalProviders = nil

	for _, cp := range pending {
		key := cp.provider.definition.Key
		admitted := cp.provider.condition(c)
		c.metrics.conditionEvaluated(admitted)

		if !admitted {
			c.logger.Debug("condition not met", keyField(key))
			continue
		}
		c.loadProvider(cp.eagerCreate, cp.provider)
	}
}

// InsertSingleton inserts an existing instance of T without a name as a singleton.
//
// [Resolve] returns copies of it and [GetSingle] returns it. The instance is not closed
// by the container.
func InsertSingleton[T any](c *Container, instance T) {
	InsertSingletonWithName(c, instance, "")
}

// InsertSingletonWithName is like [InsertSingleton] with the given name.
func InsertSingletonWithName[T any](c *Container, instance T, name string) {
	insertSingle(c, "di.InsertSingleton", instance, name, SingletonScope)
}

// InsertSingleOwner inserts an existing instance of T without a name as a single owner.
//
// Only [GetSingle] returns it. The instance is not closed by the container.
func InsertSingleOwner[T any](c *Container, instance T) {
	InsertSingleOwnerWithName(c, instance, "")
}

// InsertSingleOwnerWithName is like [InsertSingleOwner] with the given name.
func InsertSingleOwnerWithName[T any](c *Container, instance T, name string) {
	insertSingle(c, "di.InsertSingleOwner", instance, name, SingleOwnerScope)
}

func insertSingle[T any](c *Container, op string, instance T, name string, scope Scope) {
	c.checkOpen(op)

	p := neverConstruct[T](name, scope)
	key := p.definition.Key

	if existing, ok := c.providers.Get(key); ok && !c.allowOverride {
		errors.Panicf(ErrProviderExists, "%s %s: existing %s", op, p.definition, existing.definition)
	}
	if c.providers.insert(p.dynProvider(), c.allowOverride) {
		c.discardSingle(key)
	}

	single := &Single[T]{
		instance: instance,
		clone:    p.clone,
	}
	c.singles.insert(key, newDynSingle(single, nil))
	c.logger.Debug("instance inserted", keyField(key), zap.Stringer("scope", scope))
}

// discardSingle removes the cached instance for key and closes it.
func (c *Container) discardSingle(key Key) {
	s, ok := c.singles.remove(key)
	if !ok || s.closer == nil {
		return
	}

	if err := s.closer.Close(context.Background()); err != nil {
		c.logger.Warn("error closing single", keyField(key), zap.Error(err))
		return
	}
	c.logger.Debug("single closed", keyField(key))
}

// Close closes the cached instances in the reverse order they were created.
//
// Instances are closed if they implement [Closer] or one of the compatible Close signatures.
// Errors returned from closing instances are joined together.
// Close will return an error if called more than once.
func (c *Container) Close(ctx context.Context) error {
	if c.closed {
		return errors.Wrap(ErrContainerClosed, "di.Container.Close: closed already")
	}
	c.closed = true

	// Close in LIFO order because later instances may depend on earlier ones.
	var errs errors.MultiError
	order := c.singles.order
	for i := len(order) - 1; i >= 0; i-- {
		s := c.singles.singles[order[i]]
		if s.closer == nil {
			continue
		}
		errs = errs.Append(s.closer.Close(ctx))
	}

	c.logger.Debug("container closed", zap.Int("errors", len(errs)))
	return errs.Wrap("di.Container.Close")
}

func (c *Container) checkOpen(op string) {
	if c.closed {
		errors.Panicf(ErrContainerClosed, "%s", op)
	}
}

func keyField(key Key) zap.Field {
	return zap.Stringer("key", key)
}
