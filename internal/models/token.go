package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// Token is a stored refresh token. Rotated on every refresh.
type Token struct {
	ID           uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	UserId       uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	RefreshToken uuid.UUID `json:"refresh_token" gorm:"type:uuid;not null"`
	ExpiresAt    time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
