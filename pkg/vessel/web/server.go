package web

import (
	"context"
)

// Server is implemented by the framework adapters
type Server interface {
	// Route registration
	RegisterRoute(method string, path Path, handler HandlerFunc)

	// Server lifecycle
	Start(addr string) error
	Stop(ctx context.Context) error

	// Server information
	Name() string
}

// RequestContext provides a framework-agnostic view of one HTTP request
type RequestContext interface {
	// Context returns the request's context.Context
	Context() context.Context

	// Request data
	Method() string
	Path() string
	RealIP() string

	// Parameters
	Param(key string) string
	QueryParam(key string) string
	Header(key string) string

	// Body handling
	Bind(v any) error

	// Per-request values shared between interceptors and handlers
	Get(key string) any
	Set(key string, val any)
}

// HandlerFunc serves a request. The result is rendered by Render.
type HandlerFunc func(RequestContext) (any, error)
