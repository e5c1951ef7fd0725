package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const userContextKey = "user_id"

// TokenVerifier validates a bearer token and returns the opaque user id it
// carries.
type TokenVerifier interface {
	UserID(token string) (string, error)
}

// Auth validates the Authorization header and stores the caller's opaque
// user id in the request context.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authorization header is required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "expected Bearer token"})
			return
		}

		userID, err := verifier.UserID(strings.TrimSpace(parts[1]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
			return
		}

		c.Set(userContextKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated caller's id set by Auth.
func UserID(c *gin.Context) (string, bool) {
	id, ok := c.Get(userContextKey)
	if !ok {
		return "", false
	}
	s, ok := id.(string)
	return s, ok && s != ""
}
