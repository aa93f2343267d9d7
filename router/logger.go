package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"penelope-webhooks/logging"
	"penelope-webhooks/middleware"
)

// Logger emits one structured log line per request through the shared
// redacting logger.
func Logger(log *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Infow("http_request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.RequestIDFrom(c),
		)
	}
}
