package corspolicy

import (
	"slices"
	"sync"
)

// Resolver produces a policy on demand.
type Resolver func() Policy

// Registry maps policy names to resolvers.
//
// Names that were never registered resolve to the default-deny policy.
type Registry struct {
	mu        sync.RWMutex
	resolvers map[string]Resolver
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[string]Resolver)}
}

// FromEntries returns a registry holding one resolver per distinct name in
// entries. Later entries reusing a name are shadowed by the first.
func FromEntries(entries []Entry) *Registry {
	entries = slices.Clone(entries)
	reg := NewRegistry()
	for _, e := range entries {
		if _, exists := reg.resolvers[e.Name]; exists {
			continue
		}
		name := e.Name
		reg.resolvers[name] = func() Policy {
			return Resolve(name, entries)
		}
	}
	return reg
}

// Register binds name to resolve, replacing any previous binding. A nil
// resolver removes the binding.
func (r *Registry) Register(name string, resolve Resolver) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if resolve == nil {
		delete(r.resolvers, name)
		return
	}
	r.resolvers[name] = resolve
}

// Lookup resolves the policy registered under name.
func (r *Registry) Lookup(name string) Policy {
	r.mu.RLock()
	resolve, ok := r.resolvers[name]
	r.mu.RUnlock()

	if !ok {
		return Policy{}
	}
	return resolve()
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.resolvers))
	for name := range r.resolvers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Cache memoizes policy lookups by name.
//
// Concurrent first lookups of the same name may each call the underlying
// lookup function; the first stored result wins.
type Cache struct {
	lookup   func(name string) Policy
	policies sync.Map
}

// NewCache returns a cache in front of lookup, typically [Registry.Lookup].
func NewCache(lookup func(name string) Policy) *Cache {
	return &Cache{lookup: lookup}
}

// Get returns the cached policy for name, resolving it on first use.
func (c *Cache) Get(name string) Policy {
	if p, ok := c.policies.Load(name); ok {
		return p.(Policy)
	}

	p, _ := c.policies.LoadOrStore(name, c.lookup(name))
	return p.(Policy)
}
