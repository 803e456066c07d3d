package annotations

import (
	"fmt"
	"go/token"
	"strings"
)

// ComponentAnnotationSchema defines the schema for //vessel::component
var ComponentAnnotationSchema = AnnotationSchema{
	Type:        ComponentAnnotation,
	Description: "Marks a struct as a singleton component",
	Parameters:  map[string]ParameterSpec{},
	Examples:    []string{"//vessel::component"},
}

// ControllerAnnotationSchema defines the schema for //vessel::controller
var ControllerAnnotationSchema = AnnotationSchema{
	Type:        ControllerAnnotation,
	Description: "Marks a struct as a controller, optionally mounted under a base path",
	Parameters: map[string]ParameterSpec{
		"Path": {
			Type:        StringType,
			Description: "Base path prepended to the controller's routes",
			Validator: func(v any) error {
				path := v.(string)
				if !strings.HasPrefix(path, "/") {
					return fmt.Errorf("must start with '/', got '%s'", path)
				}
				return nil
			},
		},
	},
	Examples: []string{
		"//vessel::controller",
		"//vessel::controller -Path=/api/users",
	},
}

// ConfigurationAnnotationSchema defines the schema for //vessel::configuration
var ConfigurationAnnotationSchema = AnnotationSchema{
	Type:        ConfigurationAnnotation,
	Description: "Marks a struct whose //vessel::factory methods produce singletons",
	Parameters:  map[string]ParameterSpec{},
	Examples:    []string{"//vessel::configuration"},
}

// FactoryAnnotationSchema defines the schema for //vessel::factory
var FactoryAnnotationSchema = AnnotationSchema{
	Type:        FactoryAnnotation,
	Description: "Marks a configuration method as the provider of its return type",
	Parameters:  map[string]ParameterSpec{},
	Examples:    []string{"//vessel::factory"},
}

// InterceptorAnnotationSchema defines the schema for //vessel::interceptor
var InterceptorAnnotationSchema = AnnotationSchema{
	Type:        InterceptorAnnotation,
	Description: "Marks a struct implementing vessel.HandlerInterceptor",
	Parameters:  map[string]ParameterSpec{},
	Examples:    []string{"//vessel::interceptor"},
}

// HandlerAnnotationSchema defines the schema for //vessel::handler
var HandlerAnnotationSchema = AnnotationSchema{
	Type:        HandlerAnnotation,
	Description: "Attaches an interceptor chain to a method",
	Parameters: map[string]ParameterSpec{
		"Interceptors": {
			Type:        StringSliceType,
			Required:    true,
			Description: "Interceptor struct names in the order they wrap the handler",
			Validator: func(v any) error {
				for _, name := range v.([]string) {
					if !token.IsIdentifier(name) {
						return fmt.Errorf("'%s' is not a valid interceptor name", name)
					}
				}
				return nil
			},
		},
	},
	Examples: []string{
		"//vessel::handler -Interceptors=LoggingInterceptor",
		"//vessel::handler -Interceptors=AuthInterceptor,TxInterceptor",
	},
}

// BuiltinSchemas returns the schemas of every vessel annotation
func BuiltinSchemas() []AnnotationSchema {
	return []AnnotationSchema{
		ComponentAnnotationSchema,
		ControllerAnnotationSchema,
		ConfigurationAnnotationSchema,
		FactoryAnnotationSchema,
		InterceptorAnnotationSchema,
		HandlerAnnotationSchema,
	}
}
