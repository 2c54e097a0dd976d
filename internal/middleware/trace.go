package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"snapcal/pkg/log"
)

// HeaderRequestID carries the trace id in and out.
const HeaderRequestID = "X-Request-ID"

// Trace tags the request context with a trace id, reusing the caller's X-Request-ID when present.
func (m Middleware) Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(HeaderRequestID)
		if traceID == "" || len(traceID) > 128 {
			traceID = uuid.NewString()
		}
		c.Header(HeaderRequestID, traceID)
		c.Request = c.Request.WithContext(log.WithTraceID(c.Request.Context(), traceID))
		c.Next()
	}
}

// Logging writes one line per request.
func (m Middleware) Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"client_ip", c.ClientIP(),
			"took_ms", time.Since(start).Milliseconds(),
		}
		switch {
		case status >= 500:
			m.l.Error(ctx, append([]any{"http request"}, fields...)...)
		case status >= 400:
			m.l.Warn(ctx, append([]any{"http request"}, fields...)...)
		default:
			m.l.Info(ctx, append([]any{"http request"}, fields...)...)
		}
	}
}
