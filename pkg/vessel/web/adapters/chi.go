package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/toyz/vessel/pkg/vessel/web"
)

// ChiAdapter implements web.Server for chi
type ChiAdapter struct {
	router chi.Router
	server *http.Server
}

// NewChiAdapter creates a new chi adapter
func NewChiAdapter(r chi.Router) *ChiAdapter {
	return &ChiAdapter{router: r}
}

// NewDefaultChiAdapter creates a chi adapter with request id and recovery
// middleware
func NewDefaultChiAdapter() *ChiAdapter {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	return &ChiAdapter{router: r}
}

// RegisterRoute registers a route with the chi router
func (ca *ChiAdapter) RegisterRoute(method string, path web.Path, handler web.HandlerFunc) {
	chiPath := path.Convert(func(name string) string { return "{" + name + "}" }, "*")
	ca.router.Method(method, chiPath, ca.convertHandler(handler))
}

// Start starts the server
func (ca *ChiAdapter) Start(addr string) error {
	ca.server = &http.Server{Addr: addr, Handler: ca.router}
	if err := ca.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the server
func (ca *ChiAdapter) Stop(ctx context.Context) error {
	if ca.server == nil {
		return nil
	}
	return ca.server.Shutdown(ctx)
}

// Name returns the adapter name
func (ca *ChiAdapter) Name() string {
	return "Chi"
}

// Router returns the underlying chi router
func (ca *ChiAdapter) Router() chi.Router {
	return ca.router
}

func (ca *ChiAdapter) convertHandler(handler web.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, body := web.Render(handler(&ChiRequestContext{request: r}))
		if body == nil {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

// ChiRequestContext implements web.RequestContext for chi
type ChiRequestContext struct {
	request *http.Request
	values  map[string]any
}

// Context returns the request context
func (crc *ChiRequestContext) Context() context.Context {
	return crc.request.Context()
}

// Method returns the HTTP method
func (crc *ChiRequestContext) Method() string {
	return crc.request.Method
}

// Path returns the request path
func (crc *ChiRequestContext) Path() string {
	return crc.request.URL.Path
}

// RealIP returns the client address without its port
func (crc *ChiRequestContext) RealIP() string {
	host, _, err := net.SplitHostPort(crc.request.RemoteAddr)
	if err != nil {
		return crc.request.RemoteAddr
	}
	return host
}

// Param returns path parameter by name
func (crc *ChiRequestContext) Param(key string) string {
	return chi.URLParam(crc.request, key)
}

// QueryParam returns query parameter by name
func (crc *ChiRequestContext) QueryParam(key string) string {
	return crc.request.URL.Query().Get(key)
}

// Header returns request header value
func (crc *ChiRequestContext) Header(key string) string {
	return crc.request.Header.Get(key)
}

// Bind decodes the JSON request body into v
func (crc *ChiRequestContext) Bind(v any) error {
	return json.NewDecoder(crc.request.Body).Decode(v)
}

// Get retrieves a per-request value
func (crc *ChiRequestContext) Get(key string) any {
	return crc.values[key]
}

// Set stores a per-request value
func (crc *ChiRequestContext) Set(key string, val any) {
	if crc.values == nil {
		crc.values = make(map[string]any)
	}
	crc.values[key] = val
}
