package response

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the Gin context key under which the request ID is
// stored; buildMetadata reads it back when shaping the response envelope.
const ContextKeyRequestID = "request_id"

// RequestIDMiddleware tags every request with an ID and echoes it in the
// X-Request-ID response header. A client-supplied ID is honored only when it
// parses as a UUID, so correlation keys in the logs stay well-formed no
// matter what an exam client sends.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if _, err := uuid.Parse(reqID); err != nil {
			reqID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, reqID)
		c.Header("X-Request-ID", reqID)
		c.Next()
	}
}
