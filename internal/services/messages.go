package services

import (
	"errors"
	"log"
	"time"

	"questboard/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmptyMessage = errors.New("message content must not be empty")
	ErrSelfMessage  = errors.New("cannot send a message to yourself")
)

type MessageService interface {
	SendMessage(db *gorm.DB, sender, receiver uuid.UUID, content string) (models.Message, error)
	GetConversation(db *gorm.DB, caller, other uuid.UUID) ([]models.Message, error)
}

type MessageServiceImpl struct {
	notifier NotificationService
}

func NewMessageService(notifier NotificationService) *MessageServiceImpl {
	return &MessageServiceImpl{notifier: notifier}
}

func (s *MessageServiceImpl) SendMessage(db *gorm.DB, sender, receiver uuid.UUID, content string) (models.Message, error) {
	if content == "" {
		return models.Message{}, ErrEmptyMessage
	}
	if sender == receiver {
		return models.Message{}, ErrSelfMessage
	}

	message := models.Message{
		ID:         uuid.Must(uuid.NewV4()),
		SenderID:   sender,
		ReceiverID: receiver,
		Content:    content,
		CreatedAt:  time.Now(),
	}

	if err := db.Create(&message).Error; err != nil {
		return models.Message{}, err
	}

	// The message is stored by now; losing the notification only costs
	// the recipient a feed entry.
	if s.notifier != nil {
		if err := s.notifier.Dispatch(db, receiver, sender, NewMessageNotification, nil); err != nil {
			log.Printf("notification dispatch to %s failed: %v", receiver, err)
		}
	}

	return message, nil
}

// GetConversation returns both directions of a user pair ordered by
// time, and marks the caller's received messages as read.
func (s *MessageServiceImpl) GetConversation(db *gorm.DB, caller, other uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := db.Where(
		"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		caller, other, other, caller,
	).Order("created_at ASC").Find(&messages).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", other, caller, false).
		Update("is_read", true).Error
	if err != nil {
		return nil, err
	}

	return messages, nil
}
