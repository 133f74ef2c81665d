package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// apiKeyHeader is the header clients present their shared-secret key in.
const apiKeyHeader = "X-API-Key"

// APIKeyAuth returns a Gin middleware that gates requests on a shared
// API key. The presented key is compared against every configured key in
// constant time. An empty key list disables the gate (dev/open mode).
func APIKeyAuth(keys []string) gin.HandlerFunc {
	if len(keys) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		presented := c.GetHeader(apiKeyHeader)
		if presented == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
			return
		}
		for _, k := range keys {
			if subtle.ConstantTimeCompare([]byte(presented), []byte(k)) == 1 {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
	}
}
