package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard/api/internal/metrics"
	"jobboard/api/internal/service"
)

// RequirePermission lets the request through only if the caller's token
// carries the key of the matched route pattern and method. Routes that are
// public or permission-exempt simply do not mount it.
func RequirePermission(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if err := service.Authorize(claims.Permissions, c.FullPath(), c.Request.Method); err != nil {
			if errors.Is(err, service.ErrPermissionDenied) {
				m.AuthEvent("gate", "denied")
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
			return
		}

		m.AuthEvent("gate", "allowed")
		c.Next()
	}
}
