package annotations

import (
	"fmt"

	"github.com/toyz/vessel/internal/errors"
)

// Prefix starts every annotation comment
const Prefix = "//vessel::"

// AnnotationType represents the type of annotation
type AnnotationType int

const (
	ComponentAnnotation AnnotationType = iota
	ControllerAnnotation
	ConfigurationAnnotation
	FactoryAnnotation
	InterceptorAnnotation
	HandlerAnnotation
)

// String returns the string representation of the annotation type
func (a AnnotationType) String() string {
	switch a {
	case ComponentAnnotation:
		return "component"
	case ControllerAnnotation:
		return "controller"
	case ConfigurationAnnotation:
		return "configuration"
	case FactoryAnnotation:
		return "factory"
	case InterceptorAnnotation:
		return "interceptor"
	case HandlerAnnotation:
		return "handler"
	default:
		return "unknown"
	}
}

// OnType reports whether the annotation decorates a type declaration rather
// than a method
func (a AnnotationType) OnType() bool {
	return a != FactoryAnnotation && a != HandlerAnnotation
}

// ParseAnnotationType converts string to AnnotationType
func ParseAnnotationType(s string) (AnnotationType, error) {
	switch s {
	case "component":
		return ComponentAnnotation, nil
	case "controller":
		return ControllerAnnotation, nil
	case "configuration":
		return ConfigurationAnnotation, nil
	case "factory":
		return FactoryAnnotation, nil
	case "interceptor":
		return InterceptorAnnotation, nil
	case "handler":
		return HandlerAnnotation, nil
	default:
		return 0, fmt.Errorf("unknown annotation type: %s", s)
	}
}

// ParameterType represents the type of a parameter value
type ParameterType int

const (
	StringType ParameterType = iota
	StringSliceType
)

// String returns the string representation of the parameter type
func (p ParameterType) String() string {
	switch p {
	case StringType:
		return "string"
	case StringSliceType:
		return "[]string"
	default:
		return "unknown"
	}
}

// ParameterSpec describes one -Name=value parameter
type ParameterSpec struct {
	Type        ParameterType   // Parameter type
	Required    bool            // Whether parameter is required
	Description string          // Parameter description
	Validator   func(any) error // Custom validator function
}

// AnnotationSchema defines the schema for an annotation type
type AnnotationSchema struct {
	Type        AnnotationType           // Annotation type enum
	Description string                   // Human-readable description
	Parameters  map[string]ParameterSpec // Parameter specifications
	Examples    []string                 // Usage examples
}

// ParsedAnnotation represents a fully parsed annotation with typed parameters
type ParsedAnnotation struct {
	Type       AnnotationType        // Annotation type enum
	Target     string                // Type name, or Receiver.Method for methods
	Parameters map[string]any        // Typed parameters
	Location   errors.SourceLocation // Source location
	Raw        string                // Original annotation text
}

// GetString returns a string parameter value with optional default
func (p *ParsedAnnotation) GetString(name string, defaultValue ...string) string {
	if value, ok := p.Parameters[name].(string); ok {
		return value
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// GetStringSlice returns a string slice parameter value
func (p *ParsedAnnotation) GetStringSlice(name string) []string {
	switch value := p.Parameters[name].(type) {
	case []string:
		return value
	case string:
		return []string{value}
	default:
		return nil
	}
}

// Has reports whether the parameter was given
func (p *ParsedAnnotation) Has(name string) bool {
	_, ok := p.Parameters[name]
	return ok
}
