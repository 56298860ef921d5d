package server

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HeaderRequestID carries the request id in both directions
const HeaderRequestID = "X-Request-ID"

const requestIDKey = "addasync.request_id"

// RequestID assigns every request an id, reusing the caller's when present
func RequestID() MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(c RequestContext) error {
			id := c.Header(HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Set(requestIDKey, id)
			c.SetHeader(HeaderRequestID, id)
			return next(c)
		}
	}
}

// RequestIDFrom returns the id assigned by RequestID, or ""
func RequestIDFrom(c RequestContext) string {
	id, _ := c.Get(requestIDKey).(string)
	return id
}

// Logger logs one line per request
func Logger(logger *zap.Logger) MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(c RequestContext) error {
			start := time.Now()
			err := next(c)

			fields := []zap.Field{
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", c.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("request_id", RequestIDFrom(c)),
			}
			if err != nil {
				logger.Warn("request failed", append(fields, zap.Error(err))...)
			} else {
				logger.Debug("request", fields...)
			}
			return err
		}
	}
}
