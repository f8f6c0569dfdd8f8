package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"admitboard/config"

	"github.com/gin-gonic/gin"
)

// AdminAuthMiddleware guards the admin API with the configured static
// bearer token. Role and policy systems are out of scope; this is the whole
// auth surface.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := config.AppConfig.AdminAPIToken
		if token == "" {
			// No token configured: open instance (local development).
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		presented := strings.TrimPrefix(authHeader, "Bearer ")

		if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized admin access"})
			return
		}

		c.Set("isAdmin", true)
		c.Next()
	}
}
