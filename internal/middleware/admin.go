package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
)

// RequireRoles allows the request through when the caller's role is in the
// allow-list. Must run after AuthMiddleware.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		rc := RequestContext(c)
		if !rc.Authenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		if !rc.Is(roles...) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminOnly restricts access to admins.
func AdminOnly() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin)
}
