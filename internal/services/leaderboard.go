package services

import (
	"time"

	"questboard/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type LeaderboardService interface {
	TopPlayers(db *gorm.DB, limit int) ([]models.Profile, error)
	Directory(db *gorm.DB, exclude uuid.UUID) ([]models.Profile, error)
}

type LeaderboardServiceImpl struct{}

func NewLeaderboardService() *LeaderboardServiceImpl {
	return &LeaderboardServiceImpl{}
}

// TopPlayers orders by score descending; equal scores break on user id
// so the ordering is deterministic across stores.
func (s *LeaderboardServiceImpl) TopPlayers(db *gorm.DB, limit int) ([]models.Profile, error) {
	var profiles []models.Profile
	query := db.Order("score DESC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&profiles).Error
	return profiles, err
}

// Directory lists every other player, most recently active first.
func (s *LeaderboardServiceImpl) Directory(db *gorm.DB, exclude uuid.UUID) ([]models.Profile, error) {
	var profiles []models.Profile
	err := db.Where("id <> ?", exclude).
		Order("last_active DESC").
		Find(&profiles).Error
	return profiles, err
}

// TouchLastActive is called by authenticated handlers so the directory
// ordering stays fresh.
func TouchLastActive(db *gorm.DB, userID uuid.UUID) error {
	return db.Model(&models.Profile{}).
		Where("id = ?", userID).
		Update("last_active", time.Now()).Error
}
