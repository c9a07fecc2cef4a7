package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/api/middleware"
)

// AuthHandler handles operator authentication
type AuthHandler struct {
	jwtManager       *middleware.JWTManager
	operatorPassword string
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(jwtManager *middleware.JWTManager, operatorPassword string) *AuthHandler {
	return &AuthHandler{
		jwtManager:       jwtManager,
		operatorPassword: operatorPassword,
	}
}

// LoginRequest represents an operator login request
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login exchanges the operator password for a JWT token
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Password is required",
			},
		})
		return
	}

	if h.operatorPassword == "" {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AUTH_DISABLED",
				"message": "Operator login is not configured",
			},
		})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.operatorPassword)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AUTH_FAILED",
				"message": "Invalid password",
			},
		})
		return
	}

	token, expiresAt, err := h.jwtManager.GenerateToken("operator")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TOKEN_GENERATION_FAILED",
				"message": "Failed to generate token",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"token":      token,
			"expires_at": expiresAt,
		},
	})
}
