package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"songly/internal/transport/http/response"
)

// Recovered writes the 500 envelope for a recovered panic.
// Use with gin.CustomRecovery or ginzap.CustomRecoveryWithZap.
func Recovered(c *gin.Context, rec any) {
	msg := fmt.Sprint(rec)
	if err, ok := rec.(error); ok {
		msg = err.Error()
	}
	_ = c.Error(fmt.Errorf("panic: %s", msg))
	c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, msg))
}
