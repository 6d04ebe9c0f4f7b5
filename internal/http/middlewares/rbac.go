package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hiremesh/jobhub/internal/domain/user"
)

var roleMessages = map[string]string{
	user.RoleSeeker:   "Seeker role required",
	user.RoleEmployer: "Employer role required",
}

func (m *AuthMiddleware) RequireRole(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)

		if !ok || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "Missing identity context",
				},
			})
			return
		}

		if role != required {
			msg, ok := roleMessages[required]
			if !ok {
				msg = "Insufficient role"
			}

			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "forbidden",
					"message": msg,
				},
			})
			return
		}

		c.Next()
	}
}
