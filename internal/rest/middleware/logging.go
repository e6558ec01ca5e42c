package middleware

import (
	"time"

	"github.com/billbook/billbook/internal/logger"
	"github.com/billbook/billbook/internal/types"
	"github.com/gin-gonic/gin"
)

// RequestLogger writes one structured line per request
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"request_id", types.GetRequestID(c.Request.Context()),
		}
		if email := types.GetUserEmail(c.Request.Context()); email != "" {
			fields = append(fields, "user", email)
		}

		switch {
		case c.Writer.Status() >= 500:
			log.Errorw("request failed", fields...)
		case c.Writer.Status() >= 400:
			log.Warnw("request rejected", fields...)
		default:
			log.Infow("request handled", fields...)
		}
	}
}
