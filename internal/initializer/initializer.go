package initializer

import (
	"fmt"
	"reflect"
	"sort"

	"go.uber.org/zap"

	"github.com/toyz/vessel/internal/errors"
	"github.com/toyz/vessel/internal/models"
	"github.com/toyz/vessel/internal/singleton"
	"github.com/toyz/vessel/internal/typeinfo"
)

// postConstructor is satisfied by components with a PostConstruct hook
type postConstructor interface {
	PostConstruct() error
}

// Initializer builds singletons in dependency order
type Initializer struct {
	logger *zap.Logger
}

// New creates an initializer. A nil logger discards output.
func New(logger *zap.Logger) *Initializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Initializer{logger: logger}
}

// Initialize walks order and stores one singleton per definition in cache.
// Factory products are built by invoking their method on the configuration
// singleton; components and controllers are allocated and field-injected.
// Types in order with no definition are skipped. Definitions the order never
// reached are built afterwards in registration order.
func (i *Initializer) Initialize(
	order []reflect.Type,
	components, controllers []*models.ComponentDefinition,
	factories []*models.FactoryDefinition,
	cache *singleton.Cache,
) error {
	defs := make(map[reflect.Type]*models.ComponentDefinition, len(components)+len(controllers))
	for _, def := range components {
		defs[def.Type] = def
	}
	for _, def := range controllers {
		defs[def.Type] = def
	}
	products := make(map[reflect.Type]*models.FactoryDefinition, len(factories))
	for _, f := range factories {
		products[f.Produces] = f
	}

	for _, t := range order {
		if cache.Has(t) {
			continue
		}
		if f, ok := products[t]; ok {
			if err := i.produce(f, defs, cache); err != nil {
				return err
			}
			continue
		}
		if def, ok := defs[t]; ok {
			if err := i.build(def, cache); err != nil {
				return err
			}
			continue
		}
		i.logger.Debug("skipping type without definition", zap.Stringer("type", t))
	}

	remaining := make([]*models.ComponentDefinition, 0)
	for _, def := range defs {
		if !cache.Has(def.Type) {
			remaining = append(remaining, def)
		}
	}
	sort.Slice(remaining, func(a, b int) bool { return remaining[a].Order < remaining[b].Order })
	for _, def := range remaining {
		if err := i.build(def, cache); err != nil {
			return err
		}
	}

	return nil
}

// build constructs def and stores it
func (i *Initializer) build(def *models.ComponentDefinition, cache *singleton.Cache) error {
	instance, err := Construct(def.Type, def.Dependencies, cache)
	if err != nil {
		return err
	}
	if err := cache.Put(def.Type, instance); err != nil {
		return errors.NewInitializationError(def.Name(), err)
	}
	i.logger.Debug("constructed singleton",
		zap.Stringer("type", def.Type),
		zap.Stringer("kind", def.Kind),
		zap.Int("dependencies", len(def.Dependencies)))
	return nil
}

// produce invokes a factory method and stores its result
func (i *Initializer) produce(f *models.FactoryDefinition, defs map[reflect.Type]*models.ComponentDefinition, cache *singleton.Cache) error {
	owner, ok := cache.Get(f.Owner)
	if !ok {
		def, registered := defs[f.Owner]
		if !registered {
			return errors.NewUnresolvedDependencyError(f.Name(), "receiver", f.Owner.String())
		}
		if err := i.build(def, cache); err != nil {
			return err
		}
		owner, _ = cache.Get(f.Owner)
	}

	args := make([]reflect.Value, len(f.Parameters))
	for n, p := range f.Parameters {
		value, ok := cache.Get(p.Type)
		if !ok {
			return errors.NewUnresolvedDependencyError(f.Name(), p.Name, p.Type.String())
		}
		args[n] = reflect.ValueOf(value)
	}

	method := reflect.ValueOf(owner).MethodByName(f.Method)
	if !method.IsValid() {
		return errors.NewInitializationError(f.Produces.String(), fmt.Errorf("factory method %s not found on %s", f.Method, f.Owner))
	}

	out, err := call(method, args)
	if err != nil {
		return errors.NewInitializationError(f.Produces.String(), err)
	}
	if f.ReturnsError && !out[1].IsNil() {
		return errors.NewInitializationError(f.Produces.String(),
			fmt.Errorf("factory %s: %w", f.Name(), out[1].Interface().(error)))
	}

	result := out[0]
	if !result.IsValid() || typeinfo.IsNil(result.Interface()) {
		return errors.NewInitializationError(f.Produces.String(), fmt.Errorf("factory %s returned nil", f.Name()))
	}
	if err := cache.Put(f.Produces, result.Interface()); err != nil {
		return errors.NewInitializationError(f.Produces.String(), err)
	}

	i.logger.Debug("produced singleton",
		zap.Stringer("type", f.Produces),
		zap.String("factory", f.Name()))
	return nil
}

// Construct allocates a new instance of t, fills its dependency fields from
// cache and runs its PostConstruct hook. The instance is not stored.
func Construct(t reflect.Type, deps []models.Dependency, cache *singleton.Cache) (any, error) {
	if !typeinfo.IsConstructible(t) {
		return nil, errors.NewInitializationError(t.String(), fmt.Errorf("only pointers to named structs can be constructed"))
	}

	v := reflect.New(t.Elem())
	if err := Inject(v, deps, cache); err != nil {
		return nil, err
	}

	instance := v.Interface()
	if hook, ok := instance.(postConstructor); ok {
		out, err := call(reflect.ValueOf(hook.PostConstruct), nil)
		if err != nil {
			return nil, errors.NewInitializationError(t.String(), err)
		}
		if hookErr, _ := out[0].Interface().(error); hookErr != nil {
			return nil, errors.NewInitializationError(t.String(), fmt.Errorf("post construct: %w", hookErr))
		}
	}
	return instance, nil
}

// Inject assigns every dependency field of the struct behind ptr from cache.
// A dependency missing from cache is an error; fields are never left zero.
func Inject(ptr reflect.Value, deps []models.Dependency, cache *singleton.Cache) error {
	owner := ptr.Type().String()
	elem := ptr.Elem()
	for _, dep := range deps {
		value, ok := cache.Get(dep.Type)
		if !ok {
			return errors.NewUnresolvedDependencyError(owner, dep.Name, dep.Type.String())
		}
		rv := reflect.ValueOf(value)
		field := elem.Field(dep.Index)
		if !rv.Type().AssignableTo(field.Type()) {
			return errors.NewInitializationError(owner,
				fmt.Errorf("singleton of type %s cannot be assigned to field %s of type %s", rv.Type(), dep.Name, field.Type()))
		}
		field.Set(rv)
	}
	return nil
}

// call invokes fn, turning a panic into an error
func call(fn reflect.Value, args []reflect.Value) (out []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn.Call(args), nil
}
