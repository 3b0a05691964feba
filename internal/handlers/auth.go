package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/aponomy/schema-ehnemark/internal/auth"
	"github.com/aponomy/schema-ehnemark/internal/models"
	"github.com/aponomy/schema-ehnemark/internal/storage"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Success bool                `json:"success"`
	User    models.UserResponse `json:"user"`
	Token   string              `json:"token"`
}

// Login authenticates a user and returns a bearer token
func Login(users *storage.UserRepo, jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password required"})
			return
		}

		username := strings.TrimSpace(req.Username)

		user, err := users.GetByUsername(c.Request.Context(), username)
		if err != nil {
			log.Printf("login lookup failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if user == nil || user.PasswordHash == nil || *user.PasswordHash == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		token, err := jwtService.GenerateToken(user.ID, user.Username)
		if err != nil {
			log.Printf("token generation failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(http.StatusOK, LoginResponse{
			Success: true,
			User:    user.ToResponse(),
			Token:   token,
		})
	}
}
