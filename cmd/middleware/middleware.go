package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wb-go/wbf/zlog"

	"workshophub/internal/auth"
	"workshophub/internal/dto"
)

func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		zlog.Logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// Auth requires a valid access token and stores the verified identity
// on the request context.
func Auth(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := tokens.ParseToken(bearerToken(c))
		if err != nil {
			dto.UnauthorizedError(c, "Missing or invalid access token")
			c.Abort()
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// OptionalAuth decodes an identity when one is presented but lets
// anonymous requests through. Public listings use it so organizers get
// their enriched view on the same routes.
func OptionalAuth(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := tokens.ParseToken(bearerToken(c)); err == nil {
			c.Set("user_id", claims.UserID)
			c.Set("email", claims.Email)
			c.Set("role", claims.Role)
		}
		c.Next()
	}
}

// RequireRole gates a route group to the given roles. Runs after Auth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		dto.ForbiddenError(c, "Insufficient privileges")
		c.Abort()
	}
}
