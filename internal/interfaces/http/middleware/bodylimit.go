package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodyLimit restricts the maximum request body size in bytes.
// Requests with a larger declared Content-Length are rejected up front;
// chunked requests are capped while reading.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_BAD_REQUEST",
					"message": "Request body exceeds the allowed size.",
				},
			})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
