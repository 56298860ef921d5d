package adapters

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/toyz/addasync/internal/server"
)

// FiberAdapter wraps a Fiber app to implement server.WebServer
type FiberAdapter struct {
	app *fiber.App
}

// NewFiberAdapter creates a new Fiber adapter instance
func NewFiberAdapter() *FiberAdapter {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(server.ErrorBody{
				Code:  strings.ToLower(strings.ReplaceAll(http.StatusText(code), " ", "_")),
				Error: err.Error(),
			})
		},
	})
	return &FiberAdapter{app: app}
}

// NewDefaultFiberAdapter creates a Fiber adapter with panic recovery
func NewDefaultFiberAdapter() *FiberAdapter {
	adapter := NewFiberAdapter()
	adapter.app.Use(recover.New())
	return adapter
}

// RegisterRoute registers a route with the Fiber app
func (fa *FiberAdapter) RegisterRoute(method, path string, handler server.HandlerFunc, middlewares ...server.MiddlewareFunc) {
	handlers := make([]fiber.Handler, 0, len(middlewares)+1)
	for _, mw := range middlewares {
		handlers = append(handlers, convertMiddlewareToFiber(mw))
	}
	handlers = append(handlers, convertHandlerToFiber(handler))
	fa.app.Add(strings.ToUpper(method), path, handlers...)
}

// Use registers a global middleware
func (fa *FiberAdapter) Use(middleware server.MiddlewareFunc) {
	fa.app.Use(convertMiddlewareToFiber(middleware))
}

// Start starts the Fiber server
func (fa *FiberAdapter) Start(addr string) error {
	return fa.app.Listen(addr)
}

// Stop gracefully shuts the server down
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

func convertHandlerToFiber(handler server.HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc := &FiberRequestContext{ctx: c}
		if err := handler(rc); err != nil {
			return server.WriteError(rc, err)
		}
		return nil
	}
}

func convertMiddlewareToFiber(middleware server.MiddlewareFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc := &FiberRequestContext{ctx: c}
		err := middleware(func(server.RequestContext) error {
			return c.Next()
		})(rc)
		if err != nil {
			return server.WriteError(rc, err)
		}
		return nil
	}
}

// FiberRequestContext wraps fiber.Ctx to implement server.RequestContext
type FiberRequestContext struct {
	ctx *fiber.Ctx
}

func (frc *FiberRequestContext) Context() context.Context {
	return frc.ctx.UserContext()
}

func (frc *FiberRequestContext) Method() string {
	return frc.ctx.Method()
}

func (frc *FiberRequestContext) Path() string {
	return frc.ctx.Path()
}

func (frc *FiberRequestContext) Header(key string) string {
	return frc.ctx.Get(key)
}

func (frc *FiberRequestContext) SetHeader(key, value string) {
	frc.ctx.Set(key, value)
}

func (frc *FiberRequestContext) Bind(v interface{}) error {
	return frc.ctx.BodyParser(v)
}

func (frc *FiberRequestContext) JSON(code int, v interface{}) error {
	return frc.ctx.Status(code).JSON(v)
}

func (frc *FiberRequestContext) Status() int {
	return frc.ctx.Response().StatusCode()
}

func (frc *FiberRequestContext) Get(key string) interface{} {
	return frc.ctx.Locals(key)
}

func (frc *FiberRequestContext) Set(key string, val interface{}) {
	frc.ctx.Locals(key, val)
}
