package services

import (
	"errors"
	"time"

	"questboard/backend/internal/models"

	"github.com/gofrs/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegistrationRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Username string `json:"username" binding:"omitempty,min=3,max=50"`
}

type RegisterService interface {
	RegisterUser(db *gorm.DB, req RegistrationRequest) (*models.Profile, error)
}

type RegisterServiceImpl struct{}

func NewRegisterService() *RegisterServiceImpl {
	return &RegisterServiceImpl{}
}

func (s *RegisterServiceImpl) RegisterUser(db *gorm.DB, req RegistrationRequest) (*models.Profile, error) {
	var existingEmail models.Profile
	if err := db.Where("email = ?", req.Email).First(&existingEmail).Error; err == nil {
		return nil, errors.New("email already exists")
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	if req.Username != "" {
		var existingUsername models.Profile
		if err := db.Where("username = ?", req.Username).First(&existingUsername).Error; err == nil {
			return nil, errors.New("username already exists")
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	profile := models.Profile{
		ID:         uuid.Must(uuid.NewV4()),
		Email:      req.Email,
		Password:   string(hashedPassword),
		Username:   req.Username,
		LastActive: time.Now(),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := db.Create(&profile).Error; err != nil {
		return nil, err
	}

	return &profile, nil
}
