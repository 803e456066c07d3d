package vessel

import (
	"fmt"
	"reflect"

	"github.com/toyz/vessel/internal/errors"
	"github.com/toyz/vessel/internal/models"
	"github.com/toyz/vessel/internal/registry"
	"github.com/toyz/vessel/internal/scanner"
	"github.com/toyz/vessel/internal/typeinfo"
)

// Registry records declarations made by namespace register functions
type Registry = registry.Registry

// RegisterFunc declares the components of one namespace
type RegisterFunc = scanner.RegisterFunc

// Namespace binds an import path to its register function. The code
// generator emits one per annotated package.
type Namespace = scanner.Namespace

// Catalog is the set of namespaces ComponentScan can visit
type Catalog = scanner.Catalog

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return registry.New()
}

// NewCatalog creates a catalog from namespaces
func NewCatalog(namespaces ...Namespace) (*Catalog, error) {
	return scanner.NewCatalog(namespaces...)
}

// TypeOf returns the reflect.Type of T, including interface types
func TypeOf[T any]() reflect.Type {
	return typeinfo.Of[T]()
}

// Component declares T as a singleton component. T is a struct or a pointer
// to one; exported fields of injectable types are its dependencies.
func Component[T any](reg *Registry) error {
	return reg.Register(models.Entry{Kind: models.ComponentKind, Type: TypeOf[T]()})
}

// Controller declares T as a controller
func Controller[T any](reg *Registry) error {
	return ControllerAt[T](reg, "")
}

// ControllerAt declares T as a controller mounted under basePath
func ControllerAt[T any](reg *Registry, basePath string) error {
	return reg.Register(models.Entry{Kind: models.ControllerKind, Type: TypeOf[T](), BasePath: basePath})
}

// Configuration declares T as a component whose named methods are factories.
// Each factory returns T or (T, error); its parameters are dependencies.
func Configuration[T any](reg *Registry, factories ...string) error {
	return reg.Register(models.Entry{Kind: models.ConfigurationKind, Type: TypeOf[T](), Factories: factories})
}

var interceptorType = TypeOf[HandlerInterceptor]()

// Handler attaches interceptors to the handler identified by id. Each type
// must implement HandlerInterceptor through a pointer receiver or a value
// receiver. Repeated calls for one id append to its chain.
func Handler(reg *Registry, id string, interceptors ...reflect.Type) error {
	types := make([]reflect.Type, len(interceptors))
	for i, t := range interceptors {
		t = typeinfo.Normalize(t)
		if t == nil || !t.Implements(interceptorType) {
			return errors.NewRegistrationError(id, fmt.Sprintf("interceptor %v does not implement vessel.HandlerInterceptor", t))
		}
		types[i] = t
	}
	return reg.Register(models.Entry{Kind: models.HandlerKind, HandlerID: id, Interceptors: types})
}
