package tabula

import (
	"reflect"
	"sync"
)

// registryKey combines type and member source for cache lookup.
type registryKey struct {
	typ    reflect.Type
	source MemberSource
}

var (
	registry   = make(map[registryKey]any)
	registryMu sync.RWMutex
)

// cachedRules returns the rule set cached for T and source, building it with
// build on first use.
func cachedRules[T any](source MemberSource, build func() RuleSet[T]) RuleSet[T] {
	key := registryKey{typ: reflect.TypeFor[T](), source: source}

	// Fast path: read-lock cache check
	registryMu.RLock()
	if cached, ok := registry[key]; ok {
		registryMu.RUnlock()
		return cached.(RuleSet[T])
	}
	registryMu.RUnlock()

	// Slow path: build unlocked, since a RuleProvider may derive other types
	rules := build()

	registryMu.Lock()
	defer registryMu.Unlock()

	// Double-check pattern: the first stored set wins
	if cached, ok := registry[key]; ok {
		return cached.(RuleSet[T])
	}
	registry[key] = rules
	return rules
}

// Reset clears the derived rule cache.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[registryKey]any)
}
