package adapters

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/toyz/addasync/internal/server"
)

// EchoAdapter implements server.WebServer for the Echo framework
type EchoAdapter struct {
	engine *echo.Echo
}

// NewEchoAdapter creates a new Echo adapter
func NewEchoAdapter(e *echo.Echo) *EchoAdapter {
	return &EchoAdapter{engine: e}
}

// NewDefaultEchoAdapter creates an Echo adapter without the startup banner
func NewDefaultEchoAdapter() *EchoAdapter {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return NewEchoAdapter(e)
}

// RegisterRoute registers a route with the Echo server
func (ea *EchoAdapter) RegisterRoute(method, path string, handler server.HandlerFunc, middlewares ...server.MiddlewareFunc) {
	echoMiddlewares := make([]echo.MiddlewareFunc, 0, len(middlewares))
	for _, middleware := range middlewares {
		echoMiddlewares = append(echoMiddlewares, ea.convertMiddleware(middleware))
	}
	ea.engine.Add(method, path, ea.convertHandler(handler), echoMiddlewares...)
}

// Use registers a global middleware
func (ea *EchoAdapter) Use(middleware server.MiddlewareFunc) {
	ea.engine.Use(ea.convertMiddleware(middleware))
}

// Start starts the Echo server
func (ea *EchoAdapter) Start(addr string) error {
	return ea.engine.Start(addr)
}

// Stop gracefully shuts the server down
func (ea *EchoAdapter) Stop(ctx context.Context) error {
	return ea.engine.Shutdown(ctx)
}

// Name returns the adapter name
func (ea *EchoAdapter) Name() string {
	return "Echo"
}

// Engine returns the underlying Echo instance
func (ea *EchoAdapter) Engine() *echo.Echo {
	return ea.engine
}

// convertHandler writes handler errors itself so that middlewares observe
// the final status
func (ea *EchoAdapter) convertHandler(handler server.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		rc := &EchoRequestContext{context: c}
		if err := handler(rc); err != nil {
			return server.WriteError(rc, err)
		}
		return nil
	}
}

func (ea *EchoAdapter) convertMiddleware(middleware server.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rc := &EchoRequestContext{context: c}
			err := middleware(func(server.RequestContext) error {
				return next(c)
			})(rc)
			if err != nil && !c.Response().Committed {
				return server.WriteError(rc, err)
			}
			return err
		}
	}
}

// EchoRequestContext implements server.RequestContext for Echo
type EchoRequestContext struct {
	context echo.Context
}

func (erc *EchoRequestContext) Context() context.Context {
	return erc.context.Request().Context()
}

func (erc *EchoRequestContext) Method() string {
	return erc.context.Request().Method
}

func (erc *EchoRequestContext) Path() string {
	return erc.context.Request().URL.Path
}

func (erc *EchoRequestContext) Header(key string) string {
	return erc.context.Request().Header.Get(key)
}

func (erc *EchoRequestContext) SetHeader(key, value string) {
	erc.context.Response().Header().Set(key, value)
}

func (erc *EchoRequestContext) Bind(v interface{}) error {
	return erc.context.Bind(v)
}

func (erc *EchoRequestContext) JSON(code int, v interface{}) error {
	return erc.context.JSON(code, v)
}

func (erc *EchoRequestContext) Status() int {
	return erc.context.Response().Status
}

func (erc *EchoRequestContext) Get(key string) interface{} {
	return erc.context.Get(key)
}

func (erc *EchoRequestContext) Set(key string, val interface{}) {
	erc.context.Set(key, val)
}
