package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobboard/api/internal/metrics"
	"jobboard/api/internal/models"
	"jobboard/api/internal/security"
)

const claimsKey = "access_claims"

// Auth accepts a Bearer access token and stores its claims on the context.
// It is stateless: revocation takes effect when the access token expires.
func Auth(tokens *security.TokenIssuer, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			m.AuthEvent("access", "missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		claims, err := tokens.VerifyAccess(tokenStr)
		if err != nil {
			m.AuthEvent("access", "invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(claimsKey, *claims)
		c.Next()
	}
}

// Claims returns what Auth stored, if the request went through it.
func Claims(c *gin.Context) (security.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return security.Claims{}, false
	}
	claims, ok := v.(security.Claims)
	return claims, ok
}

// Actor is the audit identity of the caller.
func Actor(c *gin.Context) models.Actor {
	claims, _ := Claims(c)
	return models.Actor{ID: claims.UserID, Email: claims.Email}
}
