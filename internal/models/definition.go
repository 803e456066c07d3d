package models

import "reflect"

// Kind identifies what a registry entry declares
type Kind int

const (
	ComponentKind Kind = iota
	ControllerKind
	ConfigurationKind
	HandlerKind
)

// String returns the lowercase name used in logs and error messages
func (k Kind) String() string {
	switch k {
	case ComponentKind:
		return "component"
	case ControllerKind:
		return "controller"
	case ConfigurationKind:
		return "configuration"
	case HandlerKind:
		return "handler"
	default:
		return "unknown"
	}
}

// Entry is a single raw declaration recorded by the registry
type Entry struct {
	Kind      Kind
	Namespace string // namespace whose loader recorded the entry

	// Component, controller and configuration entries
	Type reflect.Type

	// Configuration entries
	Factories []string // factory method names on Type

	// Controller entries
	BasePath string

	// Handler entries
	HandlerID    string
	Interceptors []reflect.Type
}

// Dependency is one injection point of a component or factory
type Dependency struct {
	Name  string       // struct field name, or argN for factory parameters
	Index int          // field index in the struct, or parameter position
	Type  reflect.Type // declared type
}

// ComponentDefinition describes how to build one singleton
type ComponentDefinition struct {
	Type         reflect.Type
	Kind         Kind // ComponentKind, ControllerKind or ConfigurationKind
	Dependencies []Dependency
	Namespace    string
	BasePath     string // controllers only
	Order        int    // registration position across all entries
}

// Name returns the display name of the defined type
func (d *ComponentDefinition) Name() string {
	return d.Type.String()
}

// FactoryDefinition describes a configuration method producing a singleton
type FactoryDefinition struct {
	Produces     reflect.Type
	Owner        reflect.Type // configuration type declaring the method
	Method       string
	Parameters   []Dependency
	ReturnsError bool
	Namespace    string
	Order        int
}

// Name returns the qualified factory method name
func (f *FactoryDefinition) Name() string {
	return f.Owner.String() + "." + f.Method
}

// InterceptorDefinition describes one interceptor class attached to a handler
type InterceptorDefinition struct {
	Type         reflect.Type
	Dependencies []Dependency
}

// HandlerDefinition lists the interceptors wrapping one handler
type HandlerDefinition struct {
	ID           string
	Interceptors []*InterceptorDefinition
	Namespace    string
	Order        int
}
