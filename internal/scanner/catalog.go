package scanner

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/mod/module"

	"github.com/toyz/vessel/internal/errors"
	"github.com/toyz/vessel/internal/registry"
)

// RegisterFunc records the declarations of one namespace
type RegisterFunc func(reg *registry.Registry) error

// Namespace binds an import path to the function registering its components
type Namespace struct {
	Path     string
	Register RegisterFunc
}

// Catalog is the set of namespaces available to the scanner
type Catalog struct {
	namespaces map[string]Namespace
}

// NewCatalog creates a catalog from namespaces
func NewCatalog(namespaces ...Namespace) (*Catalog, error) {
	c := &Catalog{namespaces: make(map[string]Namespace)}
	if err := c.Add(namespaces...); err != nil {
		return nil, err
	}
	return c, nil
}

// Add inserts namespaces. Paths must be valid import paths and unique.
func (c *Catalog) Add(namespaces ...Namespace) error {
	for _, ns := range namespaces {
		if err := module.CheckImportPath(ns.Path); err != nil {
			return errors.NewRegistrationError(ns.Path, fmt.Sprintf("invalid namespace path: %v", err))
		}
		if ns.Register == nil {
			return errors.NewRegistrationError(ns.Path, "namespace has no register function")
		}
		if _, exists := c.namespaces[ns.Path]; exists {
			return errors.NewRegistrationError(ns.Path, "namespace already in catalog")
		}
		c.namespaces[ns.Path] = ns
	}
	return nil
}

// Lookup returns the namespace at path
func (c *Catalog) Lookup(path string) (Namespace, bool) {
	ns, ok := c.namespaces[path]
	return ns, ok
}

// Paths returns every namespace path in lexical order
func (c *Catalog) Paths() []string {
	paths := make([]string, 0, len(c.namespaces))
	for p := range c.namespaces {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Under returns root and every namespace below it, parents before children
func (c *Catalog) Under(root string) []Namespace {
	var matched []Namespace
	for _, p := range c.Paths() {
		if p == root || strings.HasPrefix(p, root+"/") {
			matched = append(matched, c.namespaces[p])
		}
	}
	return matched
}

// Len returns the number of namespaces
func (c *Catalog) Len() int {
	return len(c.namespaces)
}
