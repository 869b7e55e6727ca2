package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"authapi/internal/authz"
	"authapi/internal/services"
)

// RequireAdmin — доступ только для role=admin из claims токена.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("claims")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  http.StatusUnauthorized,
				"message": "Missing or invalid Authorization header",
				"data":    gin.H{},
			})
			return
		}
		claims, ok := v.(*services.Claims)
		if !ok || !authz.IsAdmin(claims.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status":  http.StatusForbidden,
				"message": "Forbidden action.",
				"data":    gin.H{},
			})
			return
		}
		c.Next()
	}
}
