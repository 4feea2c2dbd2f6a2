package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"songly/internal/transport/http/response"
)

// MaxBodyBytes caps the request body. Decoders see *http.MaxBytesError past n.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, response.Error(http.StatusRequestEntityTooLarge, "request body too large"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
