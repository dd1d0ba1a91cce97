package di

import "slices"

// A Module is a named group of providers.
// It can be used to export a re-usable group of related providers.
//
// The Go type of a module value is its identity: [Container.LoadedModules] lists module
// types, and [Container.UnloadModules] removes modules by the providers they return.
//
// Example:
//
//	type StorageModule struct{}
//
//	func (StorageModule) Providers() []di.AnyProvider {
//		return []di.AnyProvider{
//			di.Singleton(NewDB, di.Bind(func(db *DB) Store { return db })),
//			di.Transient(NewRepository),
//		}
//	}
type Module interface {
	Providers() []AnyProvider
}

// EagerModule is implemented by modules whose providers should all be created
// when the container is flushed.
type EagerModule interface {
	Module
	EagerCreate() bool
}

// ParentModule is implemented by modules that include other modules.
//
// Submodules are loaded right after their parent, in declaration order.
type ParentModule interface {
	Module
	Submodules() []Module
}

func moduleEagerCreate(m Module) bool {
	em, ok := m.(EagerModule)
	return ok && em.EagerCreate()
}

// flattenModules returns the modules and all their submodules in pre-order.
func flattenModules(modules []Module) []Module {
	var flat []Module

	stack := slices.Clone(modules)
	slices.Reverse(stack)
	for len(stack) > 0 {
		mod := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if mod == nil {
			continue
		}
		flat = append(flat, mod)

		if parent, ok := mod.(ParentModule); ok {
			subs := parent.Submodules()
			for i := len(subs) - 1; i >= 0; i-- {
				stack = append(stack, subs[i])
			}
		}
	}

	return flat
}
