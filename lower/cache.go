package lower

import "kiln/types"

// Cache is the flat name->value symbol table with depth-tagged eviction.
//
// Lookup is global, not scope-stacked: Set overwrites the single slot for a
// name regardless of depth, and Evict removes whatever binding currently
// holds each name recorded at that depth. A name shadowed and then evicted
// is gone, not restored. Variables and functions use separate Cache
// instances, so a variable and a function may share a name.
type Cache struct {
	vars  map[string]types.Value
	local map[int][]string
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{
		vars:  make(map[string]types.Value),
		local: make(map[int][]string),
	}
}

// Set binds name to value and records the name under depth for eviction
func (c *Cache) Set(name string, value types.Value, depth int) {
	c.vars[name] = value
	c.local[depth] = append(c.local[depth], name)
}

// Update replaces the value bound to name without touching the depth index.
// Used on re-assignment so a name declared at an outer depth is not
// re-recorded (and evicted) at the inner one.
func (c *Cache) Update(name string, value types.Value) {
	if _, ok := c.vars[name]; ok {
		c.vars[name] = value
	}
}

// Get returns the binding for name, or false if absent.
// Values are plain structs stored by value, so the returned copy is
// structural: callers never share a Go-side alias with the cache.
func (c *Cache) Get(name string) (types.Value, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// Evict deletes every binding recorded at depth and drops the depth index
func (c *Cache) Evict(depth int) {
	for _, name := range c.local[depth] {
		delete(c.vars, name)
	}
	delete(c.local, depth)
}

// Len returns the number of live bindings
func (c *Cache) Len() int {
	return len(c.vars)
}
