package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"lecture-backend/internal/shared/response"
	"lecture-backend/pkg/jwt"
)

// Context keys set by AuthMiddleware
const (
	ContextUsername = "username"
	ContextRoles    = "roles"
)

// AuthMiddleware - xác thực JWT Bearer token, set username + roles vào context
func AuthMiddleware(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			log.Debug().Err(err).Str("request_id", c.GetString("request_id")).Msg("Token rejected")
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		c.Set(ContextUsername, claims.Username)
		c.Set(ContextRoles, claims.Roles)

		c.Next()
	}
}

// Username returns the authenticated username or ""
func Username(c *gin.Context) string {
	return c.GetString(ContextUsername)
}

// Roles returns the roles carried by the token
func Roles(c *gin.Context) []string {
	return c.GetStringSlice(ContextRoles)
}
