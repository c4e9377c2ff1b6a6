package handlers

import (
	"errors"
	"net/http"

	"pizzeria/internal/models"
	"pizzeria/internal/services"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// RequireActor authenticates the request with HTTP basic auth and stores
// the resulting services.Actor on the context.
func RequireActor(userService services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="pizzeria"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		user, err := userService.Authenticate(c.Request.Context(), username, password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				c.Header("WWW-Authenticate", `Basic realm="pizzeria"`)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate"})
			return
		}

		c.Set(actorKey, services.Actor{UserID: user.ID, Role: user.Role})
		c.Next()
	}
}

// RequireAdmin must run after RequireActor.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok || actor.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Administrator access required"})
			return
		}
		c.Next()
	}
}

func actorFrom(c *gin.Context) (services.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return services.Actor{}, false
	}
	actor, ok := v.(services.Actor)
	return actor, ok
}
