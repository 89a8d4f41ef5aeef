package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rk-consultants/rk-server/config"
	"github.com/rk-consultants/rk-server/models"
	"github.com/rk-consultants/rk-server/utils"
)

// UserKey is where AuthMiddleware stores the authenticated models.User
const UserKey = "user"

// AuthMiddleware accepts a "Bearer <token>" header signed with secret and loads
// the token's user into the context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.LogError("Missing Authorization header on %s", c.Request.URL.Path)
			utils.RespondError(c, utils.UnauthorizedError("Please login for access", nil))
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		claims, err := utils.ValidateToken(tokenString, secret)
		if err != nil {
			utils.LogSecurity("Rejected token from %s: %v", c.ClientIP(), err)
			utils.RespondError(c, utils.UnauthorizedError(utils.ErrInvalidToken, nil))
			c.Abort()
			return
		}

		var user models.User
		if err := config.DB.WithContext(c.Request.Context()).First(&user, claims.UserID).Error; err != nil {
			utils.LogError("Token user %d not found: %v", claims.UserID, err)
			utils.RespondError(c, utils.UnauthorizedError("User not found", nil))
			c.Abort()
			return
		}

		c.Set(UserKey, user)
		utils.LogDebug("User %d authenticated", user.ID)
		c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			utils.LogError("User not found in context")
			utils.RespondError(c, utils.UnauthorizedError(utils.ErrUnauthorized, nil))
			c.Abort()
			return
		}

		if !user.IsAdmin() {
			utils.LogSecurity("Non-admin user %d attempted %s %s", user.ID, c.Request.Method, c.Request.URL.Path)
			utils.RespondError(c, utils.ForbiddenError(utils.ErrForbidden, nil))
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser returns the user set by AuthMiddleware
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, exists := c.Get(UserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
