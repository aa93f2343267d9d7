package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-Id"

const requestIDContextKey = "request_id"

// RequestID echoes the caller's X-Request-Id when present, or mints a
// fresh one otherwise, and publishes it on both the response header and
// the gin context so handlers and the access logger agree on one value
// per request.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDContextKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// RequestIDFrom reads back the id RequestID stashed on the context, or
// "" if that middleware was never registered on this engine.
func RequestIDFrom(c *gin.Context) string {
	v, ok := c.Get(requestIDContextKey)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
