package adapters

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/toyz/vessel/pkg/vessel/web"
)

// FiberAdapter wraps a Fiber app to implement web.Server
type FiberAdapter struct {
	app *fiber.App
}

// NewFiberAdapter creates a new Fiber adapter around app
func NewFiberAdapter(app *fiber.App) *FiberAdapter {
	return &FiberAdapter{app: app}
}

// NewDefaultFiberAdapter creates a Fiber adapter with panic recovery
func NewDefaultFiberAdapter() *FiberAdapter {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(web.NewHTTPError(code, err.Error()))
		},
	})
	app.Use(recover.New())
	return &FiberAdapter{app: app}
}

// RegisterRoute registers a route with the Fiber app
func (fa *FiberAdapter) RegisterRoute(method string, path web.Path, handler web.HandlerFunc) {
	fiberPath := path.Convert(func(name string) string { return ":" + name }, "*")
	fa.app.Add(method, fiberPath, convertHandlerToFiber(handler))
}

// Start starts the server
func (fa *FiberAdapter) Start(addr string) error {
	return fa.app.Listen(addr)
}

// Stop stops the server
func (fa *FiberAdapter) Stop(ctx context.Context) error {
	return fa.app.ShutdownWithContext(ctx)
}

// Name returns the adapter name
func (fa *FiberAdapter) Name() string {
	return "Fiber"
}

// App returns the underlying Fiber app
func (fa *FiberAdapter) App() *fiber.App {
	return fa.app
}

func convertHandlerToFiber(handler web.HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, body := web.Render(handler(&FiberRequestContext{ctx: c}))
		if body == nil {
			c.Status(status)
			return nil
		}
		return c.Status(status).JSON(body)
	}
}

// FiberRequestContext implements web.RequestContext for Fiber
type FiberRequestContext struct {
	ctx *fiber.Ctx
}

// Context returns the user context attached to the request
func (frc *FiberRequestContext) Context() context.Context {
	return frc.ctx.UserContext()
}

// Method returns the HTTP method
func (frc *FiberRequestContext) Method() string {
	return frc.ctx.Method()
}

// Path returns the request path
func (frc *FiberRequestContext) Path() string {
	return frc.ctx.Path()
}

// RealIP returns the client IP
func (frc *FiberRequestContext) RealIP() string {
	return frc.ctx.IP()
}

// Param returns path parameter by name
func (frc *FiberRequestContext) Param(key string) string {
	return frc.ctx.Params(key)
}

// QueryParam returns query parameter by name
func (frc *FiberRequestContext) QueryParam(key string) string {
	return frc.ctx.Query(key)
}

// Header returns request header value
func (frc *FiberRequestContext) Header(key string) string {
	return frc.ctx.Get(key)
}

// Bind parses the request body into v
func (frc *FiberRequestContext) Bind(v any) error {
	return frc.ctx.BodyParser(v)
}

// Get retrieves data from request locals
func (frc *FiberRequestContext) Get(key string) any {
	return frc.ctx.Locals(key)
}

// Set stores data in request locals
func (frc *FiberRequestContext) Set(key string, val any) {
	frc.ctx.Locals(key, val)
}
