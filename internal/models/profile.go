package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type Profile struct {
	ID       uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Email    string    `json:"email" gorm:"unique;not null"`
	Password string    `json:"-" gorm:"not null"`

	// Username may stay empty right after registration; social features
	// require it to be filled in first. Uniqueness is enforced in the
	// register and profile services, which skip empty names.
	Username  string `json:"username" gorm:"index"`
	AvatarURL string `json:"avatar_url"`

	Score               int `json:"score" gorm:"not null;default:0"`
	CompletedChallenges int `json:"completed_challenges" gorm:"not null;default:0"`

	LastActive time.Time `json:"last_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SocialReady reports whether the profile can take part in social
// features (assigning tasks, messaging, appearing in the directory).
func (p *Profile) SocialReady() bool {
	return p.Username != ""
}
