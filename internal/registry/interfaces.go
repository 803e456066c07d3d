package registry

import "github.com/toyz/vessel/internal/models"

// InterceptorRegistry tracks the interceptor structs declared in a package so
// handler annotations can be validated against them
type InterceptorRegistry interface {
	Register(name string, interceptor *models.InterceptorMetadata) error
	Validate(interceptorNames []string) error
	Get(name string) (*models.InterceptorMetadata, bool)
}
