package singleton

import (
	"fmt"
	"reflect"
)

// Cache holds exactly one instance per type, remembering insertion order. It
// is written only while the container initializes and frozen afterwards, so
// reads after Freeze need no locking.
type Cache struct {
	order  []reflect.Type
	values map[reflect.Type]any
	frozen bool
}

// New creates an empty cache
func New() *Cache {
	return &Cache{values: make(map[reflect.Type]any)}
}

// Put stores the singleton for t. A second Put for the same type, or any Put
// after Freeze, is an error.
func (c *Cache) Put(t reflect.Type, instance any) error {
	if c.frozen {
		return fmt.Errorf("singleton cache is frozen, cannot store %s", t)
	}
	if _, exists := c.values[t]; exists {
		return fmt.Errorf("singleton for %s already exists", t)
	}
	c.values[t] = instance
	c.order = append(c.order, t)
	return nil
}

// Get returns the singleton for t
func (c *Cache) Get(t reflect.Type) (any, bool) {
	v, ok := c.values[t]
	return v, ok
}

// Has reports whether a singleton for t exists
func (c *Cache) Has(t reflect.Type) bool {
	_, ok := c.values[t]
	return ok
}

// Values returns every singleton in insertion order
func (c *Cache) Values() []any {
	values := make([]any, len(c.order))
	for i, t := range c.order {
		values[i] = c.values[t]
	}
	return values
}

// Types returns the cached types in insertion order
func (c *Cache) Types() []reflect.Type {
	types := make([]reflect.Type, len(c.order))
	copy(types, c.order)
	return types
}

// Len returns the number of singletons
func (c *Cache) Len() int {
	return len(c.order)
}

// Freeze makes the cache read-only
func (c *Cache) Freeze() {
	c.frozen = true
}
