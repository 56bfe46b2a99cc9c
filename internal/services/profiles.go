package services

import (
	"errors"

	"questboard/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var ErrUsernameTaken = errors.New("username already exists")

type ProfileUpdate struct {
	Username  *string
	AvatarURL *string
}

type ProfileService interface {
	GetProfile(db *gorm.DB, id uuid.UUID) (models.Profile, error)
	UpdateProfile(db *gorm.DB, id uuid.UUID, update ProfileUpdate) (models.Profile, error)
}

type ProfileServiceImpl struct{}

func NewProfileService() *ProfileServiceImpl {
	return &ProfileServiceImpl{}
}

func (s *ProfileServiceImpl) GetProfile(db *gorm.DB, id uuid.UUID) (models.Profile, error) {
	var profile models.Profile
	err := db.First(&profile, "id = ?", id).Error
	return profile, err
}

// UpdateProfile changes username and avatar only. Score and
// completed_challenges are off limits here: they move exclusively
// through the lifecycle engine's approval transition.
func (s *ProfileServiceImpl) UpdateProfile(db *gorm.DB, id uuid.UUID, update ProfileUpdate) (models.Profile, error) {
	updates := map[string]interface{}{}

	if update.Username != nil && *update.Username != "" {
		var existing models.Profile
		err := db.Where("username = ? AND id <> ?", *update.Username, id).First(&existing).Error
		if err == nil {
			return models.Profile{}, ErrUsernameTaken
		}
		if err != gorm.ErrRecordNotFound {
			return models.Profile{}, err
		}
		updates["username"] = *update.Username
	}
	if update.AvatarURL != nil {
		updates["avatar_url"] = *update.AvatarURL
	}

	if len(updates) > 0 {
		result := db.Model(&models.Profile{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return models.Profile{}, result.Error
		}
		if result.RowsAffected == 0 {
			return models.Profile{}, gorm.ErrRecordNotFound
		}
	}

	return s.GetProfile(db, id)
}
