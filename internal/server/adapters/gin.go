package adapters

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/toyz/addasync/internal/server"
)

// GinAdapter implements server.WebServer for the Gin framework
type GinAdapter struct {
	engine *gin.Engine
	srv    *http.Server
}

// NewGinAdapter creates a new Gin adapter
func NewGinAdapter(g *gin.Engine) *GinAdapter {
	return &GinAdapter{engine: g, srv: &http.Server{Handler: g}}
}

// NewDefaultGinAdapter creates a Gin adapter with recovery middleware only
func NewDefaultGinAdapter() *GinAdapter {
	g := gin.New()
	g.Use(gin.Recovery())
	return NewGinAdapter(g)
}

// RegisterRoute registers a route with the Gin engine
func (ga *GinAdapter) RegisterRoute(method, path string, handler server.HandlerFunc, middlewares ...server.MiddlewareFunc) {
	handlers := make([]gin.HandlerFunc, 0, len(middlewares)+1)
	for _, middleware := range middlewares {
		handlers = append(handlers, ga.convertMiddleware(middleware))
	}
	handlers = append(handlers, ga.convertHandler(handler))
	ga.engine.Handle(method, path, handlers...)
}

// Use registers a global middleware
func (ga *GinAdapter) Use(middleware server.MiddlewareFunc) {
	ga.engine.Use(ga.convertMiddleware(middleware))
}

// Start serves the engine through an http.Server so Stop can shut it down
func (ga *GinAdapter) Start(addr string) error {
	ga.srv.Addr = addr
	return ga.srv.ListenAndServe()
}

// Stop gracefully shuts the server down
func (ga *GinAdapter) Stop(ctx context.Context) error {
	return ga.srv.Shutdown(ctx)
}

// Name returns the adapter name
func (ga *GinAdapter) Name() string {
	return "Gin"
}

// Engine returns the underlying Gin engine
func (ga *GinAdapter) Engine() *gin.Engine {
	return ga.engine
}

func (ga *GinAdapter) convertHandler(handler server.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		rc := &GinRequestContext{ctx: c}
		if err := handler(rc); err != nil {
			_ = server.WriteError(rc, err)
		}
	}
}

// convertMiddleware runs the rest of the Gin chain as the middleware's next handler
func (ga *GinAdapter) convertMiddleware(middleware server.MiddlewareFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		rc := &GinRequestContext{ctx: c}
		next := func(server.RequestContext) error {
			c.Next()
			return nil
		}
		if err := middleware(next)(rc); err != nil {
			_ = server.WriteError(rc, err)
			c.Abort()
		}
	}
}

// GinRequestContext implements server.RequestContext for Gin
type GinRequestContext struct {
	ctx *gin.Context
}

func (grc *GinRequestContext) Context() context.Context {
	return grc.ctx.Request.Context()
}

func (grc *GinRequestContext) Method() string {
	return grc.ctx.Request.Method
}

func (grc *GinRequestContext) Path() string {
	return grc.ctx.Request.URL.Path
}

func (grc *GinRequestContext) Header(key string) string {
	return grc.ctx.GetHeader(key)
}

func (grc *GinRequestContext) SetHeader(key, value string) {
	grc.ctx.Header(key, value)
}

func (grc *GinRequestContext) Bind(v interface{}) error {
	return grc.ctx.ShouldBindJSON(v)
}

func (grc *GinRequestContext) JSON(code int, v interface{}) error {
	grc.ctx.JSON(code, v)
	return nil
}

func (grc *GinRequestContext) Status() int {
	return grc.ctx.Writer.Status()
}

func (grc *GinRequestContext) Get(key string) interface{} {
	value, _ := grc.ctx.Get(key)
	return value
}

func (grc *GinRequestContext) Set(key string, val interface{}) {
	grc.ctx.Set(key, val)
}
