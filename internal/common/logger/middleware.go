package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	ginKey          = "logger"
)

// Middleware gives every request its own scoped logger and logs the outcome.
func Middleware(base *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		l := base.WithRequestID(id)
		c.Set(ginKey, l)
		c.Request = c.Request.WithContext(Into(c.Request.Context(), l))
		c.Header(RequestIDHeader, id)

		c.Next()

		l.Info("http_request", map[string]any{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"client_ip":   c.ClientIP(),
		})
	}
}

// FromGin returns the request logger, or fallback outside Middleware.
func FromGin(c *gin.Context, fallback *Logger) *Logger {
	if v, ok := c.Get(ginKey); ok {
		if l, ok := v.(*Logger); ok {
			return l
		}
	}
	return fallback
}
