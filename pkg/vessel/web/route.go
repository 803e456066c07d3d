package web

import (
	"context"
	"fmt"
	"strings"

	"github.com/toyz/vessel/pkg/vessel"
)

// Route is one endpoint exposed by a controller
type Route struct {
	Method  string
	Path    string // relative to the controller's base path
	Handler string // handler id whose interceptor chain wraps Serve, may be empty
	Serve   HandlerFunc
}

// RouteProvider is implemented by controllers that expose routes
type RouteProvider interface {
	Routes() []Route
}

// MountedRoute describes a route registered on a server
type MountedRoute struct {
	Method     string
	Path       Path
	Handler    string
	Controller string
}

// Mount registers the routes of every controller in m on server. Controllers
// are visited in registration order; each route is wrapped by the
// interceptor chain of its handler id.
func Mount(server Server, m *vessel.ContainerManager) ([]MountedRoute, error) {
	var mounted []MountedRoute
	for _, c := range m.Controllers() {
		provider, ok := c.Instance.(RouteProvider)
		if !ok {
			continue
		}
		for _, route := range provider.Routes() {
			path := JoinPath(c.BasePath, route.Path)
			if err := path.Validate(); err != nil {
				return nil, fmt.Errorf("controller %s: %w", c.Type, err)
			}
			if route.Serve == nil {
				return nil, fmt.Errorf("controller %s: route %s %s has no Serve function", c.Type, route.Method, path)
			}

			handler, err := Bind(m, route)
			if err != nil {
				return nil, fmt.Errorf("controller %s: route %s %s: %w", c.Type, route.Method, path, err)
			}

			method := strings.ToUpper(route.Method)
			server.RegisterRoute(method, path, handler)
			mounted = append(mounted, MountedRoute{
				Method:     method,
				Path:       path,
				Handler:    route.Handler,
				Controller: c.Type.String(),
			})
		}
	}
	return mounted, nil
}

// Bind returns the route's Serve function wrapped by its interceptor chain.
// Interceptors receive the RequestContext as the invocation's only argument.
// A handler id without a resolved chain is an error.
func Bind(m *vessel.ContainerManager, route Route) (HandlerFunc, error) {
	if route.Handler == "" {
		return route.Serve, nil
	}

	chain, err := m.Handler(route.Handler)
	if err != nil {
		return nil, err
	}

	wrapped := chain.Wrap(func(_ context.Context, args ...any) (any, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("handler %s invoked without a request context", route.Handler)
		}
		rc, ok := args[0].(RequestContext)
		if !ok {
			return nil, fmt.Errorf("handler %s invoked with %T instead of a request context", route.Handler, args[0])
		}
		return route.Serve(rc)
	})

	return func(rc RequestContext) (any, error) {
		return wrapped(rc.Context(), rc)
	}, nil
}
