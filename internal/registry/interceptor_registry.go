package registry

import (
	"fmt"
	"strings"

	"github.com/toyz/vessel/internal/models"
)

// interceptorRegistry implements the InterceptorRegistry interface
type interceptorRegistry struct {
	interceptors map[string]*models.InterceptorMetadata
}

// NewInterceptorRegistry creates a new interceptor registry
func NewInterceptorRegistry() InterceptorRegistry {
	return &interceptorRegistry{
		interceptors: make(map[string]*models.InterceptorMetadata),
	}
}

// Register adds an interceptor to the registry
func (r *interceptorRegistry) Register(name string, interceptor *models.InterceptorMetadata) error {
	if name == "" {
		return fmt.Errorf("interceptor name cannot be empty")
	}

	if interceptor == nil {
		return fmt.Errorf("interceptor metadata cannot be nil")
	}

	if existing, exists := r.interceptors[name]; exists {
		return fmt.Errorf("interceptor '%s' is already declared at %s", name, existing.Location)
	}

	r.interceptors[name] = interceptor
	return nil
}

// Validate checks that all interceptor names exist in the registry
func (r *interceptorRegistry) Validate(interceptorNames []string) error {
	var missing []string

	for _, name := range interceptorNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		if _, exists := r.interceptors[name]; !exists {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("unknown interceptor(s): %s", strings.Join(missing, ", "))
	}

	return nil
}

// Get retrieves an interceptor by name
func (r *interceptorRegistry) Get(name string) (*models.InterceptorMetadata, bool) {
	interceptor, exists := r.interceptors[name]
	return interceptor, exists
}
