package interceptor

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/toyz/vessel/internal/errors"
	"github.com/toyz/vessel/internal/initializer"
	"github.com/toyz/vessel/internal/models"
	"github.com/toyz/vessel/internal/singleton"
)

// Resolved is the ordered interceptor instances of one handler
type Resolved struct {
	HandlerID    string
	Interceptors []any
}

// Resolver builds interceptor chains once the main singletons exist
type Resolver struct {
	logger *zap.Logger
}

// NewResolver creates a resolver. A nil logger discards output.
func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger}
}

// CollectAndInitializeDependencies makes sure every type an interceptor
// depends on has a singleton. Registered components missing from the cache
// are built on demand, along with their own missing dependencies. Any other
// missing type is an unresolved dependency.
func (r *Resolver) CollectAndInitializeDependencies(
	handlers []*models.HandlerDefinition,
	components []*models.ComponentDefinition,
	cache *singleton.Cache,
) error {
	defs := make(map[reflect.Type]*models.ComponentDefinition, len(components))
	for _, def := range components {
		defs[def.Type] = def
	}

	type need struct {
		owner string
		dep   models.Dependency
	}
	var needs []need
	seen := make(map[reflect.Type]bool)
	for _, h := range handlers {
		for _, ic := range h.Interceptors {
			for _, dep := range ic.Dependencies {
				if seen[dep.Type] {
					continue
				}
				seen[dep.Type] = true
				needs = append(needs, need{owner: ic.Type.String(), dep: dep})
			}
		}
	}

	building := make(map[reflect.Type]bool)
	for _, n := range needs {
		if cache.Has(n.dep.Type) {
			continue
		}
		def, ok := defs[n.dep.Type]
		if !ok {
			return errors.NewUnresolvedDependencyError(n.owner, n.dep.Name, n.dep.Type.String())
		}
		if err := r.ensure(def, defs, cache, building); err != nil {
			return err
		}
	}
	return nil
}

// ensure builds def after its own missing dependencies
func (r *Resolver) ensure(
	def *models.ComponentDefinition,
	defs map[reflect.Type]*models.ComponentDefinition,
	cache *singleton.Cache,
	building map[reflect.Type]bool,
) error {
	if cache.Has(def.Type) {
		return nil
	}
	if building[def.Type] {
		return errors.NewCycleError([]string{def.Name()})
	}
	building[def.Type] = true
	defer delete(building, def.Type)

	for _, dep := range def.Dependencies {
		if cache.Has(dep.Type) {
			continue
		}
		next, ok := defs[dep.Type]
		if !ok {
			return errors.NewUnresolvedDependencyError(def.Name(), dep.Name, dep.Type.String())
		}
		if err := r.ensure(next, defs, cache, building); err != nil {
			return err
		}
	}

	instance, err := initializer.Construct(def.Type, def.Dependencies, cache)
	if err != nil {
		return err
	}
	if err := cache.Put(def.Type, instance); err != nil {
		return errors.NewInitializationError(def.Name(), err)
	}
	r.logger.Debug("constructed interceptor dependency", zap.Stringer("type", def.Type))
	return nil
}

// ResolveHandlerInterceptors instantiates the interceptors of every handler
// in declaration order. Each handler gets its own instances, injected from
// cache; none are stored in the cache.
func (r *Resolver) ResolveHandlerInterceptors(handlers []*models.HandlerDefinition, cache *singleton.Cache) ([]Resolved, error) {
	resolved := make([]Resolved, 0, len(handlers))
	for _, h := range handlers {
		chain := Resolved{
			HandlerID:    h.ID,
			Interceptors: make([]any, 0, len(h.Interceptors)),
		}
		for _, ic := range h.Interceptors {
			instance, err := initializer.Construct(ic.Type, ic.Dependencies, cache)
			if err != nil {
				return nil, errors.Wrapf(errors.InitializationErrorCode, err, "failed to resolve interceptors of handler %q", h.ID).
					WithContext("handler", h.ID)
			}
			chain.Interceptors = append(chain.Interceptors, instance)
		}
		r.logger.Debug("resolved handler interceptors",
			zap.String("handler", h.ID),
			zap.Int("interceptors", len(chain.Interceptors)))
		resolved = append(resolved, chain)
	}
	return resolved, nil
}
