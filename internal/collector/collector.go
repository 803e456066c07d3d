package collector

import (
	"fmt"
	"reflect"

	"github.com/toyz/vessel/internal/errors"
	"github.com/toyz/vessel/internal/models"
	"github.com/toyz/vessel/internal/registry"
	"github.com/toyz/vessel/internal/typeinfo"
)

// Result holds the definitions extracted from a registry
type Result struct {
	Components  []*models.ComponentDefinition // plain components and configurations
	Controllers []*models.ComponentDefinition
	Factories   []*models.FactoryDefinition
	Handlers    []*models.HandlerDefinition
}

// Definitions returns components followed by controllers
func (r *Result) Definitions() []*models.ComponentDefinition {
	defs := make([]*models.ComponentDefinition, 0, len(r.Components)+len(r.Controllers))
	defs = append(defs, r.Components...)
	return append(defs, r.Controllers...)
}

// Collect turns raw registry entries into definitions. Every produced type
// must have exactly one provider; registration order is preserved within
// each category. Handler entries sharing an id are merged.
func Collect(reg *registry.Registry) (*Result, error) {
	c := &collector{
		result:    &Result{},
		providers: make(map[reflect.Type]string),
		handlers:  make(map[string]*models.HandlerDefinition),
	}

	errs := errors.NewMultipleErrors()
	for order, entry := range reg.Entries() {
		if err := c.collect(order, entry); err != nil {
			errs.Add(err)
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return c.result, nil
}

type collector struct {
	result    *Result
	providers map[reflect.Type]string
	handlers  map[string]*models.HandlerDefinition
}

func (c *collector) collect(order int, entry models.Entry) errors.VesselError {
	switch entry.Kind {
	case models.ComponentKind, models.ControllerKind:
		def := c.component(order, entry)
		if err := c.claim(def.Type, entry.Kind.String()+" "+def.Name()); err != nil {
			return err
		}
		if entry.Kind == models.ControllerKind {
			c.result.Controllers = append(c.result.Controllers, def)
		} else {
			c.result.Components = append(c.result.Components, def)
		}
	case models.ConfigurationKind:
		def := c.component(order, entry)
		if err := c.claim(def.Type, "configuration "+def.Name()); err != nil {
			return err
		}
		c.result.Components = append(c.result.Components, def)
		for _, method := range entry.Factories {
			factory, err := c.factory(order, entry, method)
			if err != nil {
				return err
			}
			if err := c.claim(factory.Produces, "factory "+factory.Name()); err != nil {
				return err
			}
			c.result.Factories = append(c.result.Factories, factory)
		}
	case models.HandlerKind:
		c.handler(order, entry)
	}
	return nil
}

func (c *collector) component(order int, entry models.Entry) *models.ComponentDefinition {
	return &models.ComponentDefinition{
		Type:         entry.Type,
		Kind:         entry.Kind,
		Dependencies: typeinfo.FieldDependencies(entry.Type),
		Namespace:    entry.Namespace,
		BasePath:     entry.BasePath,
		Order:        order,
	}
}

func (c *collector) factory(order int, entry models.Entry, name string) (*models.FactoryDefinition, *errors.BaseError) {
	method, ok := entry.Type.MethodByName(name)
	if !ok {
		return nil, errors.NewRegistrationError(entry.Type.String(), fmt.Sprintf("factory method %s does not exist or is not exported", name))
	}

	mt := method.Type
	returnsError := false
	switch {
	case mt.NumOut() == 1:
	case mt.NumOut() == 2 && mt.Out(1) == typeinfo.Of[error]():
		returnsError = true
	default:
		return nil, errors.NewRegistrationError(entry.Type.String(), fmt.Sprintf("factory method %s must return T or (T, error)", name))
	}

	produces := mt.Out(0)
	if !typeinfo.IsInjectable(produces) {
		return nil, errors.NewRegistrationError(entry.Type.String(),
			fmt.Sprintf("factory method %s produces %s, which is neither a pointer to a named struct nor a named interface", name, produces))
	}

	params, err := typeinfo.ParamDependencies(method)
	if err != nil {
		return nil, errors.NewRegistrationError(entry.Type.String(), err.Error())
	}

	return &models.FactoryDefinition{
		Produces:     produces,
		Owner:        entry.Type,
		Method:       name,
		Parameters:   params,
		ReturnsError: returnsError,
		Namespace:    entry.Namespace,
		Order:        order,
	}, nil
}

func (c *collector) handler(order int, entry models.Entry) {
	def, exists := c.handlers[entry.HandlerID]
	if !exists {
		def = &models.HandlerDefinition{
			ID:        entry.HandlerID,
			Namespace: entry.Namespace,
			Order:     order,
		}
		c.handlers[entry.HandlerID] = def
		c.result.Handlers = append(c.result.Handlers, def)
	}
	for _, t := range entry.Interceptors {
		def.Interceptors = append(def.Interceptors, &models.InterceptorDefinition{
			Type:         t,
			Dependencies: typeinfo.FieldDependencies(t),
		})
	}
}

// claim records provider as the source of t
func (c *collector) claim(t reflect.Type, provider string) *errors.BaseError {
	if existing, exists := c.providers[t]; exists {
		return errors.NewDuplicateRegistrationError(t.String(), existing, provider)
	}
	c.providers[t] = provider
	return nil
}
