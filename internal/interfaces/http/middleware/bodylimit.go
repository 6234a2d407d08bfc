package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fulfillbridge/backend/internal/interfaces/http/dto"
)

// BodyLimit caps the request body size. Streaming requests are wrapped in a
// MaxBytesReader so chunked bodies cannot bypass the cap.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "request body exceeds maximum allowed size"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
