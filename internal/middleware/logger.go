package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	RequestIDHeader = "X-Request-ID"
	loggerKey       = "logger"
)

var logger = zap.NewNop()

// InitLogger sets the zap logger for this package
func InitLogger(l *zap.Logger) {
	logger = l
}

// RequestLogger tags every request with an id, taken from the X-Request-ID
// header when the caller sent one, and stores a logger carrying that id in
// the context for handlers to use.
func RequestLogger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Set(loggerKey, base.With(zap.String("request_id", id)))
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Logger returns the request scoped logger, falling back to the package
// logger outside of RequestLogger.
func Logger(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return logger
}
