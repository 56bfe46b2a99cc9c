package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"questboard/backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db          *gorm.DB
	authService services.AuthService
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int64           `json:"expires_in"`
	User         *SessionProfile `json:"user"`
}

type SessionProfile struct {
	ID                  string `json:"id"`
	Email               string `json:"email"`
	Username            string `json:"username"`
	AvatarURL           string `json:"avatar_url"`
	Score               int    `json:"score"`
	CompletedChallenges int    `json:"completed_challenges"`
	SocialReady         bool   `json:"social_ready"`
}

func NewAuthHandler(db *gorm.DB, authService services.AuthService) *AuthHandler {
	return &AuthHandler{db: db, authService: authService}
}

func (h *AuthHandler) Token(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	profile, err := h.authService.LoginUser(h.db, req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "invalid_credentials",
			"message": "Invalid email or password",
		})
		return
	}

	accessToken, refreshToken, err := h.authService.GenerateToken(h.db, profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "token_generation_failed",
			"message": "Failed to generate authentication tokens",
		})
		return
	}

	profile.LastActive = time.Now()
	if err := h.db.Save(profile).Error; err != nil {
		log.Printf("failed to update last_active for %s: %v", profile.ID, err)
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    3600,
		User: &SessionProfile{
			ID:                  profile.ID.String(),
			Email:               profile.Email,
			Username:            profile.Username,
			AvatarURL:           profile.AvatarURL,
			Score:               profile.Score,
			CompletedChallenges: profile.CompletedChallenges,
			SocialReady:         profile.SocialReady(),
		},
	})
}
