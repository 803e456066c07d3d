package adapters

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/toyz/vessel/pkg/vessel/web"
)

// GinAdapter implements web.Server for Gin framework
type GinAdapter struct {
	engine *gin.Engine
	server *http.Server
}

// NewGinAdapter creates a new Gin adapter
func NewGinAdapter(g *gin.Engine) *GinAdapter {
	return &GinAdapter{engine: g}
}

// NewDefaultGinAdapter creates a new Gin adapter with default Gin instance
func NewDefaultGinAdapter() *GinAdapter {
	return &GinAdapter{engine: gin.Default()}
}

// RegisterRoute registers a route with the Gin server
func (ga *GinAdapter) RegisterRoute(method string, path web.Path, handler web.HandlerFunc) {
	ginPath := path.Convert(func(name string) string { return ":" + name }, "*path")
	ga.engine.Handle(method, ginPath, ga.convertHandler(handler))
}

// Start starts the server
func (ga *GinAdapter) Start(addr string) error {
	ga.server = &http.Server{Addr: addr, Handler: ga.engine}
	if err := ga.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the server
func (ga *GinAdapter) Stop(ctx context.Context) error {
	if ga.server == nil {
		return nil
	}
	return ga.server.Shutdown(ctx)
}

// Name returns the adapter name
func (ga *GinAdapter) Name() string {
	return "Gin"
}

// Engine returns the underlying Gin engine
func (ga *GinAdapter) Engine() *gin.Engine {
	return ga.engine
}

// convertHandler converts web.HandlerFunc to gin.HandlerFunc
func (ga *GinAdapter) convertHandler(handler web.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, body := web.Render(handler(&GinRequestContext{context: c}))
		if body == nil {
			c.Status(status)
			return
		}
		c.JSON(status, body)
	}
}

// GinRequestContext implements web.RequestContext for Gin
type GinRequestContext struct {
	context *gin.Context
}

// Context returns the request context
func (grc *GinRequestContext) Context() context.Context {
	return grc.context.Request.Context()
}

// Method returns the HTTP method
func (grc *GinRequestContext) Method() string {
	return grc.context.Request.Method
}

// Path returns the request path
func (grc *GinRequestContext) Path() string {
	return grc.context.Request.URL.Path
}

// RealIP returns the client IP
func (grc *GinRequestContext) RealIP() string {
	return grc.context.ClientIP()
}

// Param returns path parameter by name
func (grc *GinRequestContext) Param(key string) string {
	return grc.context.Param(key)
}

// QueryParam returns query parameter by name
func (grc *GinRequestContext) QueryParam(key string) string {
	return grc.context.Query(key)
}

// Header returns request header value
func (grc *GinRequestContext) Header(key string) string {
	return grc.context.GetHeader(key)
}

// Bind binds the JSON request body to v
func (grc *GinRequestContext) Bind(v any) error {
	return grc.context.ShouldBindJSON(v)
}

// Get retrieves data from context
func (grc *GinRequestContext) Get(key string) any {
	v, _ := grc.context.Get(key)
	return v
}

// Set stores data in context
func (grc *GinRequestContext) Set(key string, val any) {
	grc.context.Set(key, val)
}
