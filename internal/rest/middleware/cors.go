package middleware

import (
	"net/http"
	"strings"

	"github.com/billbook/billbook/internal/types"
	"github.com/gin-gonic/gin"
)

var allowedHeaders = strings.Join([]string{
	"Content-Type",
	types.HeaderAuthorization,
	types.HeaderRequestID,
}, ", ")

// CORSMiddleware handles CORS headers for the browser client
func CORSMiddleware(c *gin.Context) {
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	c.Writer.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
	c.Writer.Header().Set("Access-Control-Expose-Headers", types.HeaderRequestID)
	c.Writer.Header().Set("Access-Control-Max-Age", "86400")

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}
