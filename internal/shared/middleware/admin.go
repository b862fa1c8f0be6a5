package middleware

import (
	"slices"

	"github.com/gin-gonic/gin"

	"lecture-backend/internal/shared/response"
)

// RoleAdmin is the elevated role required by destructive endpoints
const RoleAdmin = "admin"

// AdminMiddleware checks if user has admin role. Must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !slices.Contains(Roles(c), RoleAdmin) {
			response.Forbidden(c, "Access denied: admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
