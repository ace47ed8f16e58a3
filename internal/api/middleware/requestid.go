// Package middleware holds the gin middleware chain of the storefront API.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"luxegear-backend/internal/logger"
)

const (
	RequestIDHeader = "X-Request-ID"
	// MaxRequestIDLength bounds client-supplied request ids.
	MaxRequestIDLength = 128
)

// RequestID reuses a sane client X-Request-ID or generates one, and echoes it back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > MaxRequestIDLength {
			id = uuid.NewString()
		}
		c.Set(logger.RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
