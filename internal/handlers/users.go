package handlers

import (
	"log"
	"net/http"
	"strconv"

	"questboard/backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandler struct {
	db             *gorm.DB
	profileService services.ProfileService
	leaderboard    services.LeaderboardService
	storageService services.StorageService
}

func NewUserHandler(db *gorm.DB, profileService services.ProfileService, leaderboard services.LeaderboardService, storageService services.StorageService) *UserHandler {
	return &UserHandler{
		db:             db,
		profileService: profileService,
		leaderboard:    leaderboard,
		storageService: storageService,
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(h.db, userID)
	if err != nil {
		handleLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                   profile.ID,
		"email":                profile.Email,
		"username":             profile.Username,
		"avatar_url":           profile.AvatarURL,
		"score":                profile.Score,
		"completed_challenges": profile.CompletedChallenges,
		"social_ready":         profile.SocialReady(),
		"last_active":          profile.LastActive,
	})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		Username  *string `json:"username"`
		AvatarURL *string `json:"avatar_url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profileService.UpdateProfile(h.db, userID, services.ProfileUpdate{
		Username:  input.Username,
		AvatarURL: input.AvatarURL,
	})
	if err != nil {
		handleLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UploadAvatar stores the picture first, then points the profile at it.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read avatar file"})
		return
	}
	defer file.Close()

	url, err := h.storageService.UploadAvatar(c.Request.Context(), userID, fileHeader.Filename, file)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "avatar upload failed"})
		return
	}

	profile, err := h.profileService.UpdateProfile(h.db, userID, services.ProfileUpdate{AvatarURL: &url})
	if err != nil {
		handleLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetUsers serves the player directory: everyone but the caller,
// ordered by last activity.
func (h *UserHandler) GetUsers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := services.TouchLastActive(h.db, userID); err != nil {
		log.Printf("failed to touch last_active for %s: %v", userID, err)
	}

	profiles, err := h.leaderboard.Directory(h.db, userID)
	if err != nil {
		handleLifecycleError(c, err)
		return
	}

	response := make([]gin.H, 0, len(profiles))
	for _, p := range profiles {
		response = append(response, gin.H{
			"id":          p.ID,
			"username":    p.Username,
			"avatar_url":  p.AvatarURL,
			"score":       p.Score,
			"last_active": p.LastActive,
		})
	}

	c.JSON(http.StatusOK, response)
}

func (h *UserHandler) GetLeaderboard(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	profiles, err := h.leaderboard.TopPlayers(h.db, limit)
	if err != nil {
		handleLifecycleError(c, err)
		return
	}

	entries := make([]gin.H, 0, len(profiles))
	for rank, p := range profiles {
		entries = append(entries, gin.H{
			"rank":                 rank + 1,
			"user_id":              p.ID,
			"username":             p.Username,
			"avatar_url":           p.AvatarURL,
			"score":                p.Score,
			"completed_challenges": p.CompletedChallenges,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard": entries,
		"total":       len(entries),
	})
}
