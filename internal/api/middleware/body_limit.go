package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fyp-portal/pkg/response"
)

// BodyLimit caps the request body at maxBytes. Requests that declare a
// larger Content-Length are refused up front; chunked bodies fail on read.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.PayloadTooLarge(c, maxBytes)
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
