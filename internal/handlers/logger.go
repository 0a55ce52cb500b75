package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	logger = zap.NewNop()
)

func InitLogger(l *zap.Logger) {
	logger = l
}

// RequestLogger returns the logger stored by the request logging middleware
// so handler logs carry the request id. It falls back to the package logger.
func RequestLogger(c *gin.Context) *zap.Logger {
	if v, ok := c.Get("logger"); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return logger
}
