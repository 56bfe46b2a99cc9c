package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// Notification is one row in a recipient's append-only feed.
// AssignmentID is set when the notification asks the recipient to
// review a submission.
type Notification struct {
	ID           uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	UserID       uuid.UUID  `json:"user_id" gorm:"type:uuid;index;not null"`
	SenderID     uuid.UUID  `json:"sender_id" gorm:"type:uuid;not null"`
	Message      string     `json:"message" gorm:"not null"`
	IsRead       bool       `json:"is_read" gorm:"not null;default:false"`
	AssignmentID *uuid.UUID `json:"assignment_id,omitempty" gorm:"type:uuid"`
	CreatedAt    time.Time  `json:"created_at"`
}
