// Package container is a small string-keyed service registry used for
// process-wide singletons that cannot be plain package vars without
// creating import cycles.
package container

import (
	"fmt"
	"sync"
)

// Factory builds one service instance.
type Factory func() interface{}

type binding struct {
	factory  Factory
	shared   bool
	once     sync.Once
	instance interface{}
}

var (
	mu       sync.RWMutex
	bindings = map[string]*binding{}
)

// Bind registers a factory; every Make call runs it again.
func Bind(key string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	bindings[key] = &binding{factory: factory}
}

// Singleton registers a factory that runs at most once; Make returns
// the cached instance afterwards.
func Singleton(key string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	bindings[key] = &binding{factory: factory, shared: true}
}

// Make resolves key, panicking on an unknown binding — asking for an
// unregistered service is a programming error, not a runtime condition.
func Make(key string) interface{} {
	mu.RLock()
	b, ok := bindings[key]
	mu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("container: unknown binding %q", key))
	}

	if !b.shared {
		return b.factory()
	}
	b.once.Do(func() { b.instance = b.factory() })
	return b.instance
}

// Has reports whether key is bound.
func Has(key string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := bindings[key]
	return ok
}
