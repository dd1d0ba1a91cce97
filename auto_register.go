package di

import (
	"slices"
	"sync"
)

var autoRegistry struct {
	mu        sync.Mutex
	providers []AnyProvider
}

// AutoRegister adds providers to a process-wide list that is loaded into containers
// created with [WithAutoRegister].
//
// It is typically called from init functions:
//
//	func init() {
//		di.AutoRegister(di.Singleton(NewClient))
//	}
func AutoRegister(providers ...AnyProvider) {
	autoRegistry.mu.Lock()
	defer autoRegistry.mu.Unlock()

	autoRegistry.providers = append(autoRegistry.providers, providers...)
}

// AutoRegisteredProviders returns the providers added with [AutoRegister].
func AutoRegisteredProviders() []AnyProvider {
	autoRegistry.mu.Lock()
	defer autoRegistry.mu.Unlock()

	return slices.Clone(autoRegistry.providers)
}

type autoRegisterModule struct{}

func (autoRegisterModule) Providers() []AnyProvider {
	return AutoRegisteredProviders()
}
