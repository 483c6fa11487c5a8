package middleware

import (
	"strings"

	"taqyim_backend/internal/config"
	"taqyim_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// DeliveryLinkMiddleware validates the signed delivery link on every
// participant request. The token is taken from the Authorization header or,
// for links opened straight from an email, the query string.
func DeliveryLinkMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		cfg := c.MustGet("config").(*config.Config)
		claims, err := util.ParseLinkToken(tokenString, cfg.Links.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("link", claims)
		c.Next()
	}
}

// RequireParticipant rejects group links on routes that need a registered
// participant. Group-link holders must register first.
func RequireParticipant() gin.HandlerFunc {
	return func(c *gin.Context) {
		link := util.GetLinkFromContext(c)
		if link == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		if link.Kind != util.LinkKindParticipant || link.ParticipantID == "" {
			util.BadRequest(c, util.ErrRegistrationRequired.Error())
			c.Abort()
			return
		}
		c.Next()
	}
}
