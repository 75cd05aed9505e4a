package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const headerRequestID = "X-Request-ID"

// RequestID propagates the caller's request id or assigns a fresh one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(headerRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(headerRequestID, id)
		c.Next()
	}
}
