package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aponomy/schema-ehnemark/internal/auth"
	"github.com/aponomy/schema-ehnemark/internal/models"
)

const (
	authUserKey     = "auth_user_id"
	authUsernameKey = "auth_username"
	authPartyKey    = "auth_party"
)

// RequireAuth validates the bearer token and sets user context. The token
// must belong to one of the two parties on the calendar.
func RequireAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format. Use: Bearer <token>"})
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			if err == auth.ErrExpiredToken {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			c.Abort()
			return
		}

		party, ok := models.ParseParty(claims.Username)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "User is not a party on this calendar"})
			c.Abort()
			return
		}

		c.Set(authUserKey, claims.UserID)
		c.Set(authUsernameKey, claims.Username)
		c.Set(authPartyKey, party)

		c.Next()
	}
}

// GetAuthUserID retrieves the authenticated user ID from context
func GetAuthUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(authUserKey)
	if !exists {
		return uuid.Nil, false
	}
	return userID.(uuid.UUID), true
}

// GetAuthUsername retrieves the authenticated username from context
func GetAuthUsername(c *gin.Context) (string, bool) {
	username, exists := c.Get(authUsernameKey)
	if !exists {
		return "", false
	}
	return username.(string), true
}

// GetAuthParty retrieves the authenticated party from context
func GetAuthParty(c *gin.Context) (models.Party, bool) {
	party, exists := c.Get(authPartyKey)
	if !exists {
		return "", false
	}
	return party.(models.Party), true
}
