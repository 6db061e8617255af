package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/database"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/reqctx"
	"github.com/loycekalume/LifeStyleCoach-sub001/pkg/utils"
	"gorm.io/gorm"
)

const (
	ctxUserID  = "userId"
	ctxRole    = "role"
	ctxClaims  = "claims"
	ctxRequest = "reqctx"
)

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware validates the bearer token and that its account still
// exists. The role is taken from the database so promotions apply without
// a new token.
func AuthMiddleware(secret string, blacklist *database.TokenBlacklist, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(secret, tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		if blacklist.IsRevoked(c.Request.Context(), claims.GetJTI()) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked"})
			c.Abort()
			return
		}

		var user models.User
		if err := db.WithContext(c.Request.Context()).Select("id", "role").Where("id = ?", claims.UserID).Limit(1).Find(&user).Error; err != nil || user.ID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found or inactive"})
			c.Abort()
			return
		}

		c.Set(ctxUserID, user.ID)
		c.Set(ctxRole, user.Role)
		c.Set(ctxClaims, claims)
		c.Set(ctxRequest, reqctx.New(user.ID, user.Role, RequestID(c)))
		c.Next()
	}
}

// RequestContext returns the identity set by AuthMiddleware. Routes without
// auth get an anonymous value carrying only the request id.
func RequestContext(c *gin.Context) reqctx.Context {
	if v, ok := c.Get(ctxRequest); ok {
		if rc, ok := v.(reqctx.Context); ok {
			return rc
		}
	}
	return reqctx.Context{RequestID: RequestID(c)}
}

// Claims returns the decoded token of the current request, if any.
func Claims(c *gin.Context) *utils.Claims {
	if v, ok := c.Get(ctxClaims); ok {
		if claims, ok := v.(*utils.Claims); ok {
			return claims
		}
	}
	return nil
}
