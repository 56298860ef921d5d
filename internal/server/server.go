package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/toyz/addasync/internal/logging"
)

// WebServer is implemented by each supported HTTP framework
type WebServer interface {
	// RegisterRoute registers handler for method and path, wrapped by middlewares
	RegisterRoute(method, path string, handler HandlerFunc, middlewares ...MiddlewareFunc)

	// Use registers a middleware for every route
	Use(middleware MiddlewareFunc)

	// Start serves on addr and blocks until the server stops
	Start(addr string) error
	Stop(ctx context.Context) error

	Name() string
}

// RequestContext is the framework independent view of a request
type RequestContext interface {
	Context() context.Context
	Method() string
	Path() string

	// Header returns a request header
	Header(key string) string
	// SetHeader sets a response header
	SetHeader(key, value string)

	// Bind decodes the JSON request body into v
	Bind(v interface{}) error
	JSON(code int, v interface{}) error

	// Status returns the response status written so far
	Status() int

	Get(key string) interface{}
	Set(key string, val interface{})
}

// HandlerFunc defines the signature for HTTP handlers
type HandlerFunc func(RequestContext) error

// MiddlewareFunc defines the signature for middleware
type MiddlewareFunc func(HandlerFunc) HandlerFunc

// HTTPError represents an HTTP error with status code and message
type HTTPError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
	// Internal stores the error returned by a dependency
	Internal error `json:"-"`
}

// Error makes HTTPError implement the error interface
func (he *HTTPError) Error() string {
	if he.Internal != nil {
		return he.Message + ": " + he.Internal.Error()
	}
	return he.Message
}

func (he *HTTPError) Unwrap() error {
	return he.Internal
}

// NewHTTPError creates a new HTTPError; code defaults to the status text
func NewHTTPError(status int, code, message string) *HTTPError {
	if code == "" {
		code = http.StatusText(status)
	}
	return &HTTPError{Status: status, Code: code, Message: message}
}

// ErrorBody is the JSON document written for a failed request
type ErrorBody struct {
	ID    string `json:"id,omitempty"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

// WriteError writes err as a JSON error response. Adapters call it for
// errors returned by handlers so that every framework answers alike.
func WriteError(c RequestContext, err error) error {
	he := &HTTPError{}
	if !stderrors.As(err, &he) {
		he = NewHTTPError(http.StatusInternalServerError, "internal", err.Error())
	}
	return c.JSON(he.Status, ErrorBody{ID: RequestIDFrom(c), Code: he.Code, Error: he.Message})
}

// Server runs a WebServer until its context is cancelled
type Server struct {
	web             WebServer
	addr            string
	logger          *zap.Logger
	shutdownTimeout time.Duration
}

// New creates a server serving web on addr
func New(web WebServer, addr string, logger *zap.Logger) *Server {
	return &Server{
		web:             web,
		addr:            addr,
		logger:          logging.OrNop(logger),
		shutdownTimeout: 5 * time.Second,
	}
}

// Run starts the server and shuts it down gracefully once ctx is done
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", s.addr), zap.String("framework", s.web.Name()))
		errCh <- s.web.Start(s.addr)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down server")
	if err := s.web.Stop(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
