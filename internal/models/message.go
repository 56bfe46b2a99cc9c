package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type Message struct {
	ID         uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	SenderID   uuid.UUID `json:"sender_id" gorm:"type:uuid;index;not null"`
	ReceiverID uuid.UUID `json:"receiver_id" gorm:"type:uuid;index;not null"`
	Content    string    `json:"content" gorm:"not null"`
	IsRead     bool      `json:"is_read" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"created_at"`
}
