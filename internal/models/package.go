package models

import "github.com/toyz/vessel/internal/errors"

// PackageMetadata represents all annotations found in a package
type PackageMetadata struct {
	PackageName  string                // name of the Go package
	PackagePath  string                // file system path to the package
	Components   []ComponentMetadata   // components, controllers and configurations
	Factories    []FactoryMetadata     // factory methods on configurations
	Interceptors []InterceptorMetadata // interceptor structs
	Handlers     []HandlerMetadata     // intercepted handler methods
}

// HasAnnotations reports whether the package declares anything to register
func (p *PackageMetadata) HasAnnotations() bool {
	return len(p.Components) > 0 || len(p.Interceptors) > 0 || len(p.Handlers) > 0
}

// ComponentMetadata represents an annotated struct
type ComponentMetadata struct {
	StructName string
	Kind       Kind
	BasePath   string // controllers only
	Location   errors.SourceLocation
}

// FactoryMetadata represents a //vessel::factory method
type FactoryMetadata struct {
	Receiver string // configuration struct name
	Method   string
	Location errors.SourceLocation
}

// InterceptorMetadata represents a //vessel::interceptor struct
type InterceptorMetadata struct {
	StructName string
	Location   errors.SourceLocation
}

// HandlerMetadata represents a //vessel::handler method
type HandlerMetadata struct {
	Receiver     string
	Method       string
	Interceptors []string
	Location     errors.SourceLocation
}

// GeneratedFile is a rendered source file ready to be written
type GeneratedFile struct {
	PackageName string
	FilePath    string
	Content     string
}
